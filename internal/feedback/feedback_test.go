package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePredictor struct {
	role  string
	err   error
	calls int
}

func (f *fakePredictor) Predict(string) (string, error) {
	f.calls++
	return f.role, f.err
}

const completeResume = `Jane Doe
github.com/jane
Objective: build reliable data platforms.
EDUCATION
XYZ University, Bachelor of Science
SKILLS
Python, SQL, Docker
PROJECTS
Resume analyzer
EXPERIENCE
Data Engineer at Acme, internship before that
CERTIFICATIONS
AWS Certified Developer
ACHIEVEMENTS
Hackathon awards`

func countPrefix(suggestions []string, prefix string) []string {
	var found []string
	for _, s := range suggestions {
		if strings.HasPrefix(s, prefix) {
			found = append(found, s)
		}
	}
	return found
}

func TestEvaluateMissingAllSections(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil, zap.NewNop())
	report := engine.Evaluate(context.Background(), Request{PlainText: "Jane Doe\nLikes long walks.", Level: MidLevel})

	missing := countPrefix(report.Suggestions, "Missing important sections: ")
	if len(missing) != 1 {
		t.Fatalf("expected one sections suggestion, got %v", report.Suggestions)
	}

	expected := "Missing important sections: Education, Skills, Projects, Experience, Certifications, Achievements."
	if missing[0] != expected {
		t.Fatalf("unexpected suggestion %q", missing[0])
	}

	// No keywords requested: match is full but the completeness bonus is lost.
	if report.KeywordMatch != 100 || report.Score != 90 {
		t.Fatalf("unexpected score %d / keyword match %d", report.Score, report.KeywordMatch)
	}
	if report.PredictedRole != UnknownRole {
		t.Fatalf("expected unknown role, got %q", report.PredictedRole)
	}
}

func TestEvaluateKeywordMatch(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil, nil)
	report := engine.Evaluate(context.Background(), Request{
		PlainText:      "Backend developer writing python services.",
		TargetRole:     "Backend Developer",
		RequiredSkills: []string{"Python", "Docker"},
	})

	if report.KeywordMatch != 50 {
		t.Fatalf("expected keyword match 50, got %d", report.KeywordMatch)
	}

	keywords := countPrefix(report.Suggestions, "Missing role-specific keywords: ")
	if len(keywords) != 1 || keywords[0] != "Missing role-specific keywords: Docker" {
		t.Fatalf("unexpected keyword suggestions %v", keywords)
	}
}

func TestEvaluateLongEntryLevelResume(t *testing.T) {
	t.Parallel()

	filler := strings.Repeat("word ", 900-len(strings.Fields(completeResume)))
	text := completeResume + "\n" + filler

	engine := NewEngine(nil, nil)
	report := engine.Evaluate(context.Background(), Request{PlainText: text, Level: EntryLevel})

	if n := len(strings.Fields(text)); n != 900 {
		t.Fatalf("test text has %d words", n)
	}
	if len(countPrefix(report.Suggestions, "Missing important sections")) != 0 {
		t.Fatalf("expected no missing sections, got %v", report.Suggestions)
	}
	// 50 + 0.4*100 + 10 - 5
	if report.Score != 95 {
		t.Fatalf("expected score 95, got %d", report.Score)
	}
	if len(countPrefix(report.Suggestions, "Your resume is 900 words long.")) != 1 {
		t.Fatalf("expected a length suggestion, got %v", report.Suggestions)
	}
}

func TestEvaluateShortSeniorResume(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil, nil)
	report := engine.Evaluate(context.Background(), Request{PlainText: completeResume, Level: Senior})

	if report.Score != 95 {
		t.Fatalf("expected score 95, got %d", report.Score)
	}
	if len(countPrefix(report.Suggestions, "Your resume is only")) != 1 {
		t.Fatalf("expected a short resume suggestion, got %v", report.Suggestions)
	}
}

func TestPresenceSuggestionsDependOnLevel(t *testing.T) {
	t.Parallel()

	text := "Software engineer with ten years of experience."

	tests := []struct {
		level  Level
		expect []string
	}{
		{
			level: EntryLevel,
			expect: []string{
				"Add a 'Projects' section to highlight your work.",
				"Include details of any internships you've completed.",
				"Add your GitHub or portfolio link.",
				"Consider adding an objective or summary at the top.",
			},
		},
		{
			level: MidLevel,
			expect: []string{
				"Add a 'Projects' section to highlight your work.",
				"Include details of any internships you've completed.",
				"Add your GitHub or portfolio link.",
			},
		},
		{
			level: Executive,
			expect: []string{
				"Add a 'Projects' section to highlight your work.",
				"Add your GitHub or portfolio link.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()

			steps := []Step{&presenceStep{}}
			e := newEvaluation(Request{PlainText: text, Level: tt.level})
			Run(context.Background(), Deps{}, steps, e)

			if strings.Join(e.suggestions, "\n") != strings.Join(tt.expect, "\n") {
				t.Fatalf("unexpected suggestions %q", e.suggestions)
			}
		})
	}
}

func TestKeywordSet(t *testing.T) {
	t.Parallel()

	description := "We need Kubernetes experts. Kubernetes, terraform, observability and python tooling; monitoring alerts."
	got := keywordSet([]string{"Python", " ", "python", "Terraform"}, description)
	expect := []string{"Python", "Terraform", "kubernetes", "experts", "observability"}

	if strings.Join(got, ",") != strings.Join(expect, ",") {
		t.Fatalf("unexpected keywords %q", got)
	}
}

func TestKeywordSuggestionIsCapped(t *testing.T) {
	t.Parallel()

	skills := []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7", "h8", "i9"}
	e := newEvaluation(Request{PlainText: "nothing relevant"})
	Run(context.Background(), Deps{}, []Step{&keywordsStep{}}, e)

	if e.keywordMatch != 100 {
		t.Fatalf("expected full match without keywords, got %d", e.keywordMatch)
	}

	e = newEvaluation(Request{PlainText: "nothing relevant", RequiredSkills: skills})
	Run(context.Background(), Deps{}, []Step{&keywordsStep{}}, e)

	if e.keywordMatch != 0 {
		t.Fatalf("expected zero match, got %d", e.keywordMatch)
	}
	if len(e.suggestions) != 1 || e.suggestions[0] != "Missing role-specific keywords: a1, b2, c3, d4, e5, f6, g7" {
		t.Fatalf("unexpected suggestions %q", e.suggestions)
	}
}

func TestScoreAndKeywordMatchBounds(t *testing.T) {
	t.Parallel()

	texts := []string{
		"",
		"python",
		completeResume,
		strings.Repeat("python docker sql ", 400),
	}
	skills := [][]string{nil, {"Python"}, {"Python", "Docker", "Go", "Rust"}}

	engine := NewEngine(nil, nil)
	for _, text := range texts {
		for _, required := range skills {
			for _, level := range Levels {
				report := engine.Evaluate(context.Background(), Request{
					PlainText:      text,
					RequiredSkills: required,
					JobDescription: "Distributed systems engineering with kubernetes",
					Level:          level,
				})
				if report.Score < 0 || report.Score > 100 {
					t.Fatalf("score out of bounds: %d", report.Score)
				}
				if report.KeywordMatch < 0 || report.KeywordMatch > 100 {
					t.Fatalf("keyword match out of bounds: %d", report.KeywordMatch)
				}
			}
		}
	}
}

func TestPrediction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		predictor  *fakePredictor
		target     string
		expectRole string
		expectHint bool
	}{
		{name: "match ignores case", predictor: &fakePredictor{role: "Data Scientist"}, target: "data scientist", expectRole: "Data Scientist"},
		{name: "mismatch", predictor: &fakePredictor{role: "UX Designer"}, target: "Data Scientist", expectRole: "UX Designer", expectHint: true},
		{name: "no target", predictor: &fakePredictor{role: "UX Designer"}, expectRole: "UX Designer"},
		{name: "failure", predictor: &fakePredictor{err: errors.New("artifact missing")}, target: "Data Scientist", expectRole: UnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEvaluation(Request{PlainText: "text", TargetRole: tt.target})
			Run(context.Background(), Deps{Predictor: tt.predictor}, []Step{&predictionStep{}}, e)

			if e.predictedRole != tt.expectRole {
				t.Fatalf("expected role %q, got %q", tt.expectRole, e.predictedRole)
			}
			if got := len(e.suggestions) == 1; got != tt.expectHint {
				t.Fatalf("unexpected suggestions %q", e.suggestions)
			}
			if tt.predictor.calls != 1 {
				t.Fatalf("expected one prediction call, got %d", tt.predictor.calls)
			}
		})
	}
}

func TestRunLogsAndSkipsDisabledSteps(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	engine := NewEngine(&fakePredictor{role: "Analyst"}, zap.New(core))

	if !DisableByName(engine.Steps(), "presence", "not wanted") {
		t.Fatalf("expected presence step to be found")
	}
	if DisableByName(engine.Steps(), "missing", "") {
		t.Fatalf("unexpected step found")
	}

	report := engine.Evaluate(context.Background(), Request{PlainText: completeResume, TargetRole: "Analyst"})
	if len(report.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %v", report.Suggestions)
	}

	if n := logs.FilterMessage("feedback step").Len(); n != 4 {
		t.Fatalf("expected 4 step logs, got %d", n)
	}
	if n := logs.FilterMessage("feedback step disabled").Len(); n != 1 {
		t.Fatalf("expected 1 disabled log, got %d", n)
	}

	statuses := Describe(engine.Steps())
	if len(statuses) != 5 || statuses[0].Enabled || statuses[0].Reason != "not wanted" {
		t.Fatalf("unexpected statuses %+v", statuses)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	if got := Summary(&Report{}); len(got) != 1 || got[0] != noIssuesMessage {
		t.Fatalf("unexpected summary %v", got)
	}
	if got := Summary(nil); len(got) != 1 || got[0] != noIssuesMessage {
		t.Fatalf("unexpected summary %v", got)
	}

	report := &Report{Suggestions: []string{"one", "two"}}
	got := Summary(report)
	got[0] = "changed"
	if report.Suggestions[0] != "one" {
		t.Fatalf("summary shares the report slice")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		expect Level
		ok     bool
	}{
		{in: "Entry Level", expect: EntryLevel, ok: true},
		{in: "entry-level", expect: EntryLevel, ok: true},
		{in: " SENIOR ", expect: Senior, ok: true},
		{in: "mid_level", expect: MidLevel, ok: true},
		{in: "executive", expect: Executive, ok: true},
		{in: "", expect: MidLevel},
		{in: "intern", expect: MidLevel},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.expect || ok != tt.ok {
			t.Fatalf("ParseLevel(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestKeywordMatchRoundsHalfToEven(t *testing.T) {
	t.Parallel()

	skills := []string{"Python", "b2", "c3", "d4", "e5", "f6", "g7", "h8"}

	engine := NewEngine(nil, nil)
	report := engine.Evaluate(context.Background(), Request{PlainText: "python", RequiredSkills: skills})

	// 1/8 is 12.5%.
	if report.KeywordMatch != 12 {
		t.Fatalf("expected keyword match 12, got %d", report.KeywordMatch)
	}
	// 50 + 0.4*12 with sections missing.
	if report.Score != 54 {
		t.Fatalf("expected score 54, got %d", report.Score)
	}
}

func TestCompletenessBonusNeedsSectionsStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		disable bool
		expect  int
	}{
		{name: "complete resume", text: completeResume, expect: 100},
		{name: "sections step disabled", text: completeResume, disable: true, expect: 90},
		{name: "nothing checked and nothing present", text: "Jane Doe", disable: true, expect: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := NewEngine(nil, nil)
			if tt.disable {
				DisableByName(engine.Steps(), "sections", "not wanted")
			}

			report := engine.Evaluate(context.Background(), Request{PlainText: tt.text})
			if report.Score != tt.expect {
				t.Fatalf("expected score %d, got %d", tt.expect, report.Score)
			}
		})
	}
}
