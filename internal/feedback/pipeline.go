package feedback

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/classifier"
)

// Step is one stage of the evaluation.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, e *evaluation)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	Logger    *zap.Logger
	Predictor classifier.Predictor
}

// Status represents runtime information about a step.
type Status struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// DefaultSteps returns a fresh set of steps in evaluation order.
func DefaultSteps() []Step {
	return []Step{
		&presenceStep{},
		&sectionsStep{},
		&keywordsStep{},
		&scoreStep{},
		&predictionStep{},
	}
}

// DisableByName marks the step with the provided name as disabled while
// keeping it in the list. It reports whether such a step exists.
func DisableByName(steps []Step, name, reason string) bool {
	found := false
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
			found = true
		}
	}
	return found
}

// Run applies the enabled steps in order, logging how many suggestions each
// one added.
func Run(ctx context.Context, deps Deps, steps []Step, e *evaluation) {
	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Debug("feedback step disabled", zap.String("name", step.Name()))
			}
			continue
		}

		before := len(e.suggestions)
		step.Apply(ctx, deps, e)

		if deps.Logger != nil {
			deps.Logger.Debug("feedback step",
				zap.String("name", step.Name()),
				zap.Int("added", len(e.suggestions)-before),
				zap.Int("total", len(e.suggestions)),
			)
		}
	}
}

// Describe returns status entries for the provided steps.
func Describe(steps []Step) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		status := Status{Name: step.Name(), Enabled: step.IsEnabled()}
		if s, ok := step.(interface{ disabledReason() string }); ok {
			status.Reason = s.disabledReason()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// toggle implements the enable/disable part of Step.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) disabledReason() string { return t.reason }
