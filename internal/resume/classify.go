package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxHeadingLength bounds the length of an all-caps heading line.
const DefaultMaxHeadingLength = 40

// LineClassifier decides whether a line starts a new section.
type LineClassifier interface {
	// Heading returns the canonical upper-case section name when line is a heading.
	Heading(line string) (string, bool)
}

var (
	headingPunctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	upperHeading       = regexp.MustCompile(`^[A-Z][A-Z\s]{2,}$`)
	spaceRun           = regexp.MustCompile(`\s+`)
)

// knownHeadings are recognised in any letter case.
var knownHeadings = map[string]struct{}{
	"EXPERIENCE":      {},
	"WORK EXPERIENCE": {},
	"EDUCATION":       {},
	"SKILLS":          {},
	"PROJECTS":        {},
	"SUMMARY":         {},
	"ABOUT":           {},
	"CONTACT":         {},
	"COURSES":         {},
	"HOBBIES":         {},
	"ACHIEVEMENTS":    {},
}

// HeuristicClassifier treats short all-caps lines and common heading words
// as headings. Punctuation is ignored.
type HeuristicClassifier struct {
	MaxHeadingLength int
}

// Heading implements LineClassifier.
func (c HeuristicClassifier) Heading(line string) (string, bool) {
	clean := strings.TrimSpace(headingPunctuation.ReplaceAllString(line, ""))
	if clean == "" {
		return "", false
	}
	name := strings.ToUpper(spaceRun.ReplaceAllString(clean, " "))

	if _, ok := knownHeadings[name]; ok {
		return name, true
	}

	limit := c.MaxHeadingLength
	if limit <= 0 {
		limit = DefaultMaxHeadingLength
	}
	if utf8.RuneCountInString(clean) <= limit && upperHeading.MatchString(clean) {
		return name, true
	}

	return "", false
}

// IsKnownHeading reports whether name is one of the common heading words.
func IsKnownHeading(name string) bool {
	_, ok := knownHeadings[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}
