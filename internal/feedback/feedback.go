// Package feedback evaluates resume text against a target role and produces
// suggestions, a score, a keyword match percentage and a predicted role.
package feedback

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/classifier"
	"github.com/spigell/resume-analyzer/internal/logger"
)

// UnknownRole is reported when no prediction is available.
const UnknownRole = "Unknown"

const noIssuesMessage = "Great resume! No major issues found."

// Request describes what the resume is evaluated against.
type Request struct {
	PlainText      string   `json:"-"`
	TargetRole     string   `json:"target_role"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	JobDescription string   `json:"job_description,omitempty"`
	Level          Level    `json:"level"`
}

// Report is the outcome of an evaluation.
type Report struct {
	Suggestions   []string `json:"suggestions"`
	Score         int      `json:"score"`
	KeywordMatch  int      `json:"keyword_match"`
	PredictedRole string   `json:"predicted_role"`
}

// Summary returns the report's suggestions, or a single positive line when
// there are none.
func Summary(r *Report) []string {
	if r == nil || len(r.Suggestions) == 0 {
		return []string{noIssuesMessage}
	}
	return append([]string(nil), r.Suggestions...)
}

// evaluation is the state shared by steps while a report is built.
type evaluation struct {
	request Request
	level   Level
	lower   string
	words   int

	// sectionsChecked is false when the sections step is disabled, which
	// also withholds the completeness bonus.
	sectionsChecked bool
	missingSections []string
	keywordMatch    int
	score           int
	predictedRole   string
	suggestions     []string
}

func newEvaluation(req Request) *evaluation {
	return &evaluation{
		request:       req,
		level:         req.Level.orDefault(),
		lower:         strings.ToLower(req.PlainText),
		words:         len(strings.Fields(req.PlainText)),
		keywordMatch:  100,
		predictedRole: UnknownRole,
		suggestions:   []string{},
	}
}

func (e *evaluation) suggest(s string) {
	e.suggestions = append(e.suggestions, s)
}

func (e *evaluation) contains(keyword string) bool {
	return strings.Contains(e.lower, strings.ToLower(keyword))
}

func (e *evaluation) report() *Report {
	return &Report{
		Suggestions:   e.suggestions,
		Score:         e.score,
		KeywordMatch:  e.keywordMatch,
		PredictedRole: e.predictedRole,
	}
}

// Engine runs the evaluation steps in order.
type Engine struct {
	steps []Step
	deps  Deps
}

// NewEngine returns an engine with the default steps. A nil predictor makes
// every prediction Unknown.
func NewEngine(predictor classifier.Predictor, log *zap.Logger) *Engine {
	return &Engine{
		steps: DefaultSteps(),
		deps:  Deps{Logger: logger.OrNop(log), Predictor: predictor},
	}
}

// Steps exposes the engine's steps so callers can disable some of them.
func (en *Engine) Steps() []Step { return en.steps }

// Evaluate builds the report for req. It never fails: missing collaborators
// degrade to neutral values.
func (en *Engine) Evaluate(ctx context.Context, req Request) *Report {
	e := newEvaluation(req)
	log := logger.WithFields(en.deps.Logger, zap.String(logger.FieldRole, req.TargetRole), zap.String("level", string(e.level)))

	Run(ctx, Deps{Logger: log, Predictor: en.deps.Predictor}, en.steps, e)

	log.Debug("evaluation finished",
		zap.Int("score", e.score),
		zap.Int("keyword_match", e.keywordMatch),
		zap.String("predicted_role", e.predictedRole),
		zap.Int("suggestions", len(e.suggestions)),
	)
	return e.report()
}
