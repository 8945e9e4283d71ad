package resume

import (
	"regexp"
	"strings"
)

var (
	institutionPattern = regexp.MustCompile(`(?i)\b(?:University|Institute|College|School|Academy|Baccalaureate|Bachelor|Master|B\.Tech|BTech|M\.Tech|MBA|PhD)\b`)
	yearToken          = regexp.MustCompile(`\b\d{4}\b`)
)

// ParseEducation collects schools and degrees. A line naming an institution
// opens an entry, other lines become its note, and a line carrying a year
// closes whatever entry came before it.
func ParseEducation(lines []string) Education {
	var (
		entries Education
		current *EducationEntry
	)

	flush := func() {
		if current != nil && (current.Institution != "" || current.Note != "") {
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if yearToken.MatchString(line) {
			flush()
		}

		if institutionPattern.MatchString(line) {
			flush()
			current = &EducationEntry{Institution: line}
			continue
		}

		if current == nil {
			current = &EducationEntry{}
		}
		current.Note = strings.TrimSpace(current.Note + " " + line)
	}
	flush()

	if entries == nil {
		return Education{}
	}
	return entries
}
