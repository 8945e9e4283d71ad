package pdftext

import (
	"context"
	"errors"

	"github.com/spigell/resume-analyzer/internal/ai"
)

// StrategyOCR names the optical recognition strategy.
const StrategyOCR = "ocr"

// OCRExtractor delegates to a transcriber that reads the rendered pages.
type OCRExtractor struct {
	transcriber ai.Transcriber
}

// NewOCRExtractor wraps t. A nil transcriber yields an unavailable strategy.
func NewOCRExtractor(t ai.Transcriber) *OCRExtractor {
	return &OCRExtractor{transcriber: t}
}

func (e *OCRExtractor) Name() string {
	if e.transcriber == nil {
		return StrategyOCR
	}
	return StrategyOCR + "/" + e.transcriber.Name()
}

func (e *OCRExtractor) Available() bool {
	return e.transcriber != nil && e.transcriber.Available()
}

func (e *OCRExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if e.transcriber == nil {
		return "", errors.New("no transcriber configured")
	}
	return e.transcriber.Transcribe(ctx, data)
}
