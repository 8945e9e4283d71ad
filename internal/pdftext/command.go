package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
)

const (
	DefaultOCRDPI      = 300
	DefaultOCRLanguage = "eng"

	rasterizerBinary = "pdftoppm"
	ocrBinary        = "tesseract"
)

// CommandTranscriber rasterizes pages with pdftoppm and reads them with
// tesseract, one process per page.
type CommandTranscriber struct {
	DPI      int
	Language string

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
	logger   *zap.Logger
}

// NewCommandTranscriber returns a transcriber using binaries found in PATH.
func NewCommandTranscriber(dpi int, language string, log *zap.Logger) *CommandTranscriber {
	if dpi <= 0 {
		dpi = DefaultOCRDPI
	}
	if language = strings.TrimSpace(language); language == "" {
		language = DefaultOCRLanguage
	}

	return &CommandTranscriber{
		DPI:      dpi,
		Language: language,
		lookPath: exec.LookPath,
		run:      runCommand,
		logger:   logger.WithStrategy(log, StrategyOCR+"/tesseract"),
	}
}

func (c *CommandTranscriber) Name() string { return "tesseract" }

// Available reports whether both binaries are installed.
func (c *CommandTranscriber) Available() bool {
	for _, bin := range []string{rasterizerBinary, ocrBinary} {
		if _, err := c.lookPath(bin); err != nil {
			c.logger.Debug("ocr binary not found", zap.String("binary", bin))
			return false
		}
	}
	return true
}

// Transcribe renders every page and joins the recognized text with blank lines.
func (c *CommandTranscriber) Transcribe(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "resume-ocr-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	if _, err := c.run(ctx, rasterizerBinary, "-r", strconv.Itoa(c.DPI), "-png", input, prefix); err != nil {
		return "", fmt.Errorf("rasterize pages: %w", err)
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("list page images: %w", err)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(images)

	pages := make([]string, 0, len(images))
	for _, image := range images {
		out, err := c.run(ctx, ocrBinary, image, "stdout", "-l", c.Language)
		if err != nil {
			return "", fmt.Errorf("recognize %s: %w", filepath.Base(image), err)
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}

	c.logger.Debug("recognized pages", zap.Int("images", len(images)), zap.Int("pages_with_text", len(pages)))

	return strings.Join(pages, "\n\n"), nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
