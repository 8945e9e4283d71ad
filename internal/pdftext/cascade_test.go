package pdftext

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeStrategy struct {
	name      string
	text      string
	err       error
	available bool
	calls     int
}

func (f *fakeStrategy) Name() string    { return f.name }
func (f *fakeStrategy) Available() bool { return f.available }

func (f *fakeStrategy) Extract(ctx context.Context, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestCascadeFallbacks(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("experience ", 30)

	tests := []struct {
		name         string
		layout       *fakeStrategy
		plain        *fakeStrategy
		ocr          *fakeStrategy
		expectText   string
		expectUsed   string
		expectCalls  [3]int
		expectErrors int
	}{
		{
			name:        "layout is enough",
			layout:      &fakeStrategy{name: "layout", text: long, available: true},
			plain:       &fakeStrategy{name: "plain", text: long + "more", available: true},
			ocr:         &fakeStrategy{name: "ocr", text: long + "even more", available: true},
			expectText:  strings.TrimSpace(long),
			expectUsed:  "layout",
			expectCalls: [3]int{1, 0, 0},
		},
		{
			name:        "plain replaces short layout, ocr replaces short plain",
			layout:      &fakeStrategy{name: "layout", text: "John", available: true},
			plain:       &fakeStrategy{name: "plain", text: "John Doe Engineer", available: true},
			ocr:         &fakeStrategy{name: "ocr", text: "John Doe Engineer at Acme", available: true},
			expectText:  "John Doe Engineer at Acme",
			expectUsed:  "ocr",
			expectCalls: [3]int{1, 1, 1},
		},
		{
			name:        "shorter fallback does not replace",
			layout:      &fakeStrategy{name: "layout", text: "John Doe Engineer", available: true},
			plain:       &fakeStrategy{name: "plain", text: "John", available: true},
			ocr:         &fakeStrategy{name: "ocr", text: "John Doe Engineer", available: true},
			expectText:  "John Doe Engineer",
			expectUsed:  "layout",
			expectCalls: [3]int{1, 1, 1},
		},
		{
			name:        "unavailable strategies are skipped",
			layout:      &fakeStrategy{name: "layout", text: "short", available: true},
			plain:       &fakeStrategy{name: "plain", text: "plain text", available: false},
			ocr:         &fakeStrategy{name: "ocr", text: "ocr text", available: false},
			expectText:  "short",
			expectUsed:  "layout",
			expectCalls: [3]int{1, 0, 0},
		},
		{
			name:         "failures count as empty output",
			layout:       &fakeStrategy{name: "layout", err: ErrMalformed, available: true},
			plain:        &fakeStrategy{name: "plain", err: errors.New("boom"), available: true},
			ocr:          &fakeStrategy{name: "ocr", text: "scanned resume", available: true},
			expectText:   "scanned resume",
			expectUsed:   "ocr",
			expectCalls:  [3]int{1, 1, 1},
			expectErrors: 2,
		},
		{
			name:         "everything fails",
			layout:       &fakeStrategy{name: "layout", err: ErrMalformed, available: true},
			plain:        &fakeStrategy{name: "plain", err: ErrMalformed, available: true},
			ocr:          &fakeStrategy{name: "ocr", available: false},
			expectText:   "",
			expectUsed:   "",
			expectCalls:  [3]int{1, 1, 0},
			expectErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cascade := NewCascade(zap.NewNop(),
				Stage{Strategy: tt.layout},
				Stage{Strategy: tt.plain, Below: DefaultPlainMinChars},
				Stage{Strategy: tt.ocr, Below: DefaultOCRMinChars},
			)

			got, err := cascade.Extract(context.Background(), []byte("%PDF-1.4"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Text != tt.expectText {
				t.Fatalf("expected text %q, got %q", tt.expectText, got.Text)
			}
			if got.Strategy != tt.expectUsed {
				t.Fatalf("expected strategy %q, got %q", tt.expectUsed, got.Strategy)
			}

			calls := [3]int{tt.layout.calls, tt.plain.calls, tt.ocr.calls}
			if calls != tt.expectCalls {
				t.Fatalf("expected calls %v, got %v", tt.expectCalls, calls)
			}

			failed := 0
			for _, attempt := range got.Attempts {
				if attempt.Error != "" {
					failed++
				}
			}
			if failed != tt.expectErrors {
				t.Fatalf("expected %d failed attempts, got %d", tt.expectErrors, failed)
			}
		})
	}
}

func TestCascadeEmptyInput(t *testing.T) {
	t.Parallel()

	layout := &fakeStrategy{name: "layout", text: "should not run", available: true}
	got, err := NewCascade(nil, Stage{Strategy: layout}).Extract(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "" || got.Strategy != "" {
		t.Fatalf("expected empty extraction, got %+v", got)
	}
	if layout.calls != 0 {
		t.Fatalf("expected no strategy call, got %d", layout.calls)
	}
}

func TestCascadeRealStrategiesOnGarbage(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)
	log := zap.New(core)

	cascade := NewCascade(log,
		Stage{Strategy: NewLayoutExtractor(DefaultMergeOptions(), log)},
		Stage{Strategy: NewOCRExtractor(nil), Below: DefaultOCRMinChars},
	)

	got, err := cascade.Extract(context.Background(), []byte("definitely not a pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "" {
		t.Fatalf("expected empty text, got %q", got.Text)
	}
	if observed.FilterMessage("strategy failed").Len() != 1 {
		t.Fatalf("expected layout failure to be logged, got %v", observed.All())
	}
}

func TestCascadeStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	layout := &fakeStrategy{name: "layout", text: "text", available: true}
	_, err := NewCascade(nil, Stage{Strategy: layout}).Extract(ctx, []byte("%PDF"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if layout.calls != 0 {
		t.Fatalf("expected no strategy call, got %d", layout.calls)
	}
}
