package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
)

// StrategyPlain names the whole-page text strategy.
const StrategyPlain = "plain"

// PlainExtractor reads whole-page text without layout, one document per page.
// Line breaks come only from T* operators, so runs positioned with Td are
// concatenated without a separator. It serves as the fallback behind the
// layout strategy.
type PlainExtractor struct {
	parser *pdf.PDFParser
	uri    string
	logger *zap.Logger
}

// NewPlainExtractor builds the page-level parser. uri labels parsed documents
// in logs and metadata.
func NewPlainExtractor(ctx context.Context, uri string, log *zap.Logger) (*PlainExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: true})
	if err != nil {
		return nil, fmt.Errorf("create pdf parser: %w", err)
	}

	return &PlainExtractor{
		parser: p,
		uri:    uri,
		logger: logger.WithStrategy(log, StrategyPlain),
	}, nil
}

func (e *PlainExtractor) Name() string { return StrategyPlain }

func (e *PlainExtractor) Available() bool { return e != nil && e.parser != nil }

// Extract joins page texts with blank lines.
func (e *PlainExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer recoverMalformed(&err)

	opts := []einoparser.Option{}
	if e.uri != "" {
		opts = append(opts, einoparser.WithURI(e.uri))
	}

	docs, err := e.parser.Parse(ctx, bytes.NewReader(data), opts...)
	if err != nil {
		return "", fmt.Errorf("%w: parse: %v", ErrMalformed, err)
	}

	pages := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if content := strings.TrimSpace(doc.Content); content != "" {
			pages = append(pages, content)
		}
	}

	e.logger.Debug("parsed pages", zap.Int("documents", len(docs)), zap.Int("pages_with_text", len(pages)))

	return strings.Join(pages, "\n\n"), nil
}
