package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/ai/gemini"
	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/catalog"
	"github.com/spigell/resume-analyzer/internal/classifier"
	"github.com/spigell/resume-analyzer/internal/feedback"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/pdftext"
	"github.com/spigell/resume-analyzer/internal/secrets"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	providerNone      = "none"
	providerTesseract = "tesseract"
	providerGemini    = "gemini"
)

// setup builds the logger and reads the config, exiting when either fails.
func setup() (*zap.Logger, *Config) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %s\n", err)
		os.Exit(1)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Debug("starting", zap.String("version", version), zap.Any("config", config))

	return log, config
}

// readDocument loads the resume file. An empty file is not an error.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume %s: %w", path, err)
	}
	return data, nil
}

func loadCatalog(config *Config, log *zap.Logger) *catalog.Catalog {
	cat, err := catalog.Load(config.Catalog)
	if err != nil {
		log.Warn("role catalog not loaded, keyword matching is limited to explicit skills", zap.Error(err))
		return catalog.Empty()
	}
	log.Debug("role catalog loaded", zap.Int("roles", cat.Len()))
	return cat
}

func newPredictor(config *Config, log *zap.Logger) classifier.Predictor {
	paths := *config.Classifier
	if strings.TrimSpace(paths.Vectorizer) == "" || strings.TrimSpace(paths.Model) == "" {
		log.Debug("classifier artifacts are not configured, role prediction disabled")
		return nil
	}
	return classifier.NewLazy(paths, log.With(zap.String("component", "classifier")))
}

// newTranscriber picks the OCR collaborator. A nil transcriber disables OCR.
func newTranscriber(ctx context.Context, cfg *OCRConfig, log *zap.Logger) (ai.Transcriber, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerNone:
		return nil, nil
	case providerTesseract:
		return pdftext.NewCommandTranscriber(cfg.DPI, cfg.Language, log), nil
	case providerGemini:
	default:
		return nil, fmt.Errorf("unsupported ocr provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set extraction.ocr.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := log.With(
		zap.String("provider", providerGemini),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	transcriber, err := gemini.NewTranscriber(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}
	return transcriber, nil
}

func newAnalyzer(ctx context.Context, config *Config, path string, log *zap.Logger) (*analyzer.Analyzer, error) {
	transcriber, err := newTranscriber(ctx, config.Extraction.OCR, log)
	if err != nil {
		return nil, fmt.Errorf("preparing ocr: %w", err)
	}

	a, err := analyzer.New(ctx, analyzer.Options{
		Extraction:  config.Extraction.ExtractionConfig,
		Transcriber: transcriber,
		Predictor:   newPredictor(config, log),
		Catalog:     loadCatalog(config, log),
		URI:         path,
	}, log)
	if err != nil {
		return nil, err
	}

	for _, name := range config.Evaluation.Disable {
		if !feedback.DisableByName(a.Steps(), name, "disabled in config") {
			log.Warn("unknown feedback step in config", zap.String("name", name))
		}
	}

	return a, nil
}
