package pdftext

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/textclean"
	"github.com/spigell/resume-analyzer/internal/utils"
)

const (
	// DefaultPlainMinChars is the text length under which the plain strategy runs.
	DefaultPlainMinChars = 80
	// DefaultOCRMinChars is the text length under which OCR runs.
	DefaultOCRMinChars = 200
)

// Stage is a strategy together with the length threshold that triggers it.
// A stage with Below <= 0 always runs.
type Stage struct {
	Strategy Strategy
	Below    int
}

// Attempt records the outcome of one strategy run.
type Attempt struct {
	Strategy string `json:"strategy"`
	Chars    int    `json:"chars"`
	Error    string `json:"error,omitempty"`
}

// Extraction is the result of running the cascade over a document.
type Extraction struct {
	Text     string    `json:"text"`
	Strategy string    `json:"strategy,omitempty"`
	Attempts []Attempt `json:"attempts,omitempty"`
}

// Cascade tries strategies in order, falling back to the next one while the
// text gathered so far is too short.
type Cascade struct {
	stages []Stage
	logger *zap.Logger
}

// NewCascade returns a cascade over the given stages.
func NewCascade(log *zap.Logger, stages ...Stage) *Cascade {
	return &Cascade{stages: stages, logger: logger.OrNop(log)}
}

// Extract returns normalized text for data. A later strategy replaces the
// current text only when it yields strictly more characters. Strategy
// failures are logged and treated as empty output, so the only error is the
// context's.
func (c *Cascade) Extract(ctx context.Context, data []byte) (*Extraction, error) {
	result := &Extraction{}
	if len(data) == 0 {
		c.logger.Debug("empty document, nothing to extract")
		return result, nil
	}

	current := 0
	for _, stage := range c.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if stage.Strategy == nil {
			continue
		}
		log := logger.WithStrategy(c.logger, stage.Strategy.Name())

		if stage.Below > 0 && current >= stage.Below {
			log.Debug("text long enough, skipping strategy", zap.Int("chars", current), zap.Int("threshold", stage.Below))
			continue
		}
		if !stage.Strategy.Available() {
			log.Debug("strategy unavailable, skipping")
			continue
		}

		attempt := Attempt{Strategy: stage.Strategy.Name()}
		raw, err := stage.Strategy.Extract(ctx, data)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warn("strategy failed", zap.Error(err))
			attempt.Error = err.Error()
			result.Attempts = append(result.Attempts, attempt)
			continue
		}

		text := textclean.Normalize(raw)
		attempt.Chars = length(text)
		result.Attempts = append(result.Attempts, attempt)

		log.Debug("strategy finished",
			zap.Int("chars", attempt.Chars),
			zap.String("preview", utils.TruncateForLog(text, 120)),
		)

		if attempt.Chars > current {
			result.Text = text
			result.Strategy = attempt.Strategy
			current = attempt.Chars
		}
	}

	result.Text = textclean.Normalize(result.Text)
	return result, nil
}

func length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
