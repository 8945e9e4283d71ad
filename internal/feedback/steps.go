package feedback

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	maxJobDescriptionKeywords = 5
	minJobDescriptionWordLen  = 6
	maxReportedKeywords       = 7

	baseScore          = 50.0
	keywordWeight      = 0.4
	completenessBonus  = 10.0
	lengthPenalty      = 5.0
	entryMaxWords      = 700
	seniorMinWordCount = 400
)

type presenceStep struct{ toggle }

func (s *presenceStep) Name() string { return "presence" }

func (s *presenceStep) Apply(_ context.Context, _ Deps, e *evaluation) {
	if !e.contains("project") {
		e.suggest("Add a 'Projects' section to highlight your work.")
	}
	if !e.level.seniorOrAbove() && !e.contains("internship") {
		e.suggest("Include details of any internships you've completed.")
	}
	if !e.contains("github") && !e.contains("portfolio") {
		e.suggest("Add your GitHub or portfolio link.")
	}
	if e.level == EntryLevel && !e.contains("objective") {
		e.suggest("Consider adding an objective or summary at the top.")
	}
}

// canonicalSection is a section every resume is expected to have, with the
// words that reveal its presence.
type canonicalSection struct {
	name     string
	keywords []string
}

var canonicalSections = []canonicalSection{
	{name: "Education", keywords: []string{"education", "university", "college", "degree", "school", "bachelor", "master"}},
	{name: "Skills", keywords: []string{"skills", "technologies", "tools", "competencies"}},
	{name: "Projects", keywords: []string{"projects", "project"}},
	{name: "Experience", keywords: []string{"experience", "employment", "work history", "internship"}},
	{name: "Certifications", keywords: []string{"certification", "certified", "certificate"}},
	{name: "Achievements", keywords: []string{"achievements", "awards", "accomplishments", "honors"}},
}

type sectionsStep struct{ toggle }

func (s *sectionsStep) Name() string { return "sections" }

func (s *sectionsStep) Apply(_ context.Context, _ Deps, e *evaluation) {
	e.sectionsChecked = true
	for _, section := range canonicalSections {
		found := false
		for _, keyword := range section.keywords {
			if e.contains(keyword) {
				found = true
				break
			}
		}
		if !found {
			e.missingSections = append(e.missingSections, section.name)
		}
	}

	if len(e.missingSections) > 0 {
		e.suggest("Missing important sections: " + strings.Join(e.missingSections, ", ") + ".")
	}
}

var descriptionWord = regexp.MustCompile(`[\p{L}\p{N}+#]+`)

// descriptionKeywords picks the first distinct long words of a job description.
func descriptionKeywords(description string) []string {
	var (
		words []string
		seen  = make(map[string]struct{})
	)
	for _, word := range descriptionWord.FindAllString(description, -1) {
		if len([]rune(word)) < minJobDescriptionWordLen {
			continue
		}
		key := strings.ToLower(word)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, key)
		if len(words) == maxJobDescriptionKeywords {
			break
		}
	}
	return words
}

// keywordSet merges required skills with job description words, dropping
// case-insensitive duplicates.
func keywordSet(skills []string, description string) []string {
	var (
		keywords []string
		seen     = make(map[string]struct{})
	)
	add := func(keyword string) {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			return
		}
		key := strings.ToLower(keyword)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keywords = append(keywords, keyword)
	}

	for _, skill := range skills {
		add(skill)
	}
	for _, word := range descriptionKeywords(description) {
		add(word)
	}
	return keywords
}

type keywordsStep struct{ toggle }

func (s *keywordsStep) Name() string { return "keywords" }

func (s *keywordsStep) Apply(_ context.Context, deps Deps, e *evaluation) {
	keywords := keywordSet(e.request.RequiredSkills, e.request.JobDescription)
	if len(keywords) == 0 {
		e.keywordMatch = 100
		return
	}

	var missing []string
	for _, keyword := range keywords {
		if !e.contains(keyword) {
			missing = append(missing, keyword)
		}
	}

	matched := len(keywords) - len(missing)
	e.keywordMatch = int(math.RoundToEven(float64(matched) / float64(len(keywords)) * 100))

	if deps.Logger != nil {
		deps.Logger.Debug("keywords matched",
			zap.Int("total", len(keywords)),
			zap.Int("matched", matched),
			zap.Strings("missing", missing),
		)
	}

	if len(missing) > 0 {
		if len(missing) > maxReportedKeywords {
			missing = missing[:maxReportedKeywords]
		}
		e.suggest("Missing role-specific keywords: " + strings.Join(missing, ", "))
	}
}

type scoreStep struct{ toggle }

func (s *scoreStep) Name() string { return "score" }

func (s *scoreStep) Apply(_ context.Context, _ Deps, e *evaluation) {
	score := baseScore + float64(e.keywordMatch)*keywordWeight

	if e.sectionsChecked && len(e.missingSections) == 0 {
		score += completenessBonus
	}
	if e.level == EntryLevel && e.words > entryMaxWords {
		score -= lengthPenalty
		e.suggest(fmt.Sprintf("Your resume is %d words long. Keep an entry-level resume under %d words.", e.words, entryMaxWords))
	}
	if e.level.seniorOrAbove() && e.words < seniorMinWordCount {
		score -= lengthPenalty
		e.suggest(fmt.Sprintf("Your resume is only %d words long. Describe your impact and leadership in more detail for a %s role.", e.words, strings.ToLower(string(e.level))))
	}

	e.score = int(math.Max(0, math.Min(100, score)))
}

type predictionStep struct{ toggle }

func (s *predictionStep) Name() string { return "prediction" }

func (s *predictionStep) Apply(_ context.Context, deps Deps, e *evaluation) {
	if deps.Predictor == nil {
		return
	}

	predicted, err := deps.Predictor.Predict(e.request.PlainText)
	if err != nil || strings.TrimSpace(predicted) == "" {
		if deps.Logger != nil {
			deps.Logger.Debug("role prediction unavailable", zap.Error(err))
		}
		e.predictedRole = UnknownRole
		return
	}
	e.predictedRole = predicted

	target := strings.TrimSpace(e.request.TargetRole)
	if target != "" && !strings.EqualFold(predicted, target) {
		e.suggest(fmt.Sprintf("Your resume reads like a %s profile. Tailor it towards the %s role you are targeting.", predicted, target))
	}
}
