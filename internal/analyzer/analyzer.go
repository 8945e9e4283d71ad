// Package analyzer ties extraction, segmentation and evaluation together.
package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/catalog"
	"github.com/spigell/resume-analyzer/internal/classifier"
	"github.com/spigell/resume-analyzer/internal/feedback"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/pdftext"
	"github.com/spigell/resume-analyzer/internal/resume"
)

// ExtractionConfig holds the extraction tunables.
type ExtractionConfig struct {
	pdftext.MergeOptions `mapstructure:",squash"`

	PlainMinChars    int   `mapstructure:"plain-min-chars"`
	OCRMinChars      int   `mapstructure:"ocr-min-chars"`
	PlainFallback    *bool `mapstructure:"plain-fallback"`
	MaxHeadingLength int   `mapstructure:"max-heading-length"`
}

// Options configures an Analyzer. Nil collaborators are allowed: without a
// transcriber OCR is skipped, without a predictor the role is Unknown and
// without a catalog required skills come only from the request.
type Options struct {
	Extraction  ExtractionConfig
	Transcriber ai.Transcriber
	Predictor   classifier.Predictor
	Catalog     *catalog.Catalog
	// URI labels the processed document in logs.
	URI string
}

type extractor interface {
	Extract(ctx context.Context, data []byte) (*pdftext.Extraction, error)
}

// Analyzer runs the full pipeline. It is safe for concurrent use as long as
// its collaborators are.
type Analyzer struct {
	extractor extractor
	segmenter *resume.Segmenter
	engine    *feedback.Engine
	catalog   *catalog.Catalog
	logger    *zap.Logger
}

// Analysis is the combined result of Analyze.
type Analysis struct {
	*resume.Views

	Report   *feedback.Report  `json:"report"`
	Strategy string            `json:"strategy,omitempty"`
	Attempts []pdftext.Attempt `json:"attempts,omitempty"`
	Request  feedback.Request  `json:"request"`
}

// New assembles the extraction cascade: the layout strategy always runs, the
// plain strategy backs it up for short texts and OCR comes last.
func New(ctx context.Context, opts Options, log *zap.Logger) (*Analyzer, error) {
	log = logger.OrNop(log)
	cfg := opts.Extraction

	plainMin := cfg.PlainMinChars
	if plainMin <= 0 {
		plainMin = pdftext.DefaultPlainMinChars
	}
	ocrMin := cfg.OCRMinChars
	if ocrMin <= 0 {
		ocrMin = pdftext.DefaultOCRMinChars
	}

	stages := []pdftext.Stage{
		{Strategy: pdftext.NewLayoutExtractor(cfg.MergeOptions, log)},
	}

	if cfg.PlainFallback == nil || *cfg.PlainFallback {
		plain, err := pdftext.NewPlainExtractor(ctx, opts.URI, log)
		if err != nil {
			return nil, fmt.Errorf("preparing plain extraction: %w", err)
		}
		stages = append(stages, pdftext.Stage{Strategy: plain, Below: plainMin})
	}

	if opts.Transcriber != nil {
		stages = append(stages, pdftext.Stage{Strategy: pdftext.NewOCRExtractor(opts.Transcriber), Below: ocrMin})
	}

	cascade := pdftext.NewCascade(logger.WithDocument(log, opts.URI, ""), stages...)
	return newAnalyzer(cascade, opts, log), nil
}

func newAnalyzer(ex extractor, opts Options, log *zap.Logger) *Analyzer {
	log = logger.OrNop(log)

	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Empty()
	}

	return &Analyzer{
		extractor: ex,
		segmenter: resume.NewSegmenter(opts.Extraction.MaxHeadingLength),
		engine:    feedback.NewEngine(opts.Predictor, log),
		catalog:   cat,
		logger:    log,
	}
}

// Parse extracts and structures the document.
func (a *Analyzer) Parse(ctx context.Context, data []byte) (*resume.Views, error) {
	views, _, err := a.parse(ctx, data)
	return views, err
}

func (a *Analyzer) parse(ctx context.Context, data []byte) (*resume.Views, *pdftext.Extraction, error) {
	extraction, err := a.extractor.Extract(ctx, data)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting text: %w", err)
	}

	if extraction.Text == "" {
		a.logger.Info("no extractable content", zap.Int("bytes", len(data)))
	}

	sections := a.segmenter.Segment(extraction.Text)
	structured := resume.Build(sections)

	a.logger.Debug("document parsed",
		zap.String(logger.FieldStrategy, extraction.Strategy),
		zap.Int("chars", len([]rune(extraction.Text))),
		zap.Strings("sections", structured.Names()),
	)

	return resume.Serialize(extraction.Text, structured), extraction, nil
}

// Evaluate produces the feedback report for req. Required skills missing
// from the request are taken from the catalog entry of the target role.
func (a *Analyzer) Evaluate(ctx context.Context, req feedback.Request) *feedback.Report {
	return a.engine.Evaluate(ctx, a.complete(req))
}

func (a *Analyzer) complete(req feedback.Request) feedback.Request {
	if len(req.RequiredSkills) == 0 && req.TargetRole != "" {
		req.RequiredSkills = a.catalog.RequiredSkills(req.TargetRole)
		if req.RequiredSkills == nil {
			a.logger.Debug("target role is not in the catalog", zap.String(logger.FieldRole, req.TargetRole))
		}
	}
	return req
}

// Analyze parses the document and evaluates its text against req.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, req feedback.Request) (*Analysis, error) {
	views, extraction, err := a.parse(ctx, data)
	if err != nil {
		return nil, err
	}

	req.PlainText = views.PlainText
	req = a.complete(req)

	return &Analysis{
		Views:    views,
		Report:   a.engine.Evaluate(ctx, req),
		Strategy: extraction.Strategy,
		Attempts: extraction.Attempts,
		Request:  req,
	}, nil
}

// Catalog returns the role catalog in use.
func (a *Analyzer) Catalog() *catalog.Catalog { return a.catalog }

// Steps exposes the feedback steps so callers can disable some of them.
func (a *Analyzer) Steps() []feedback.Step { return a.engine.Steps() }
