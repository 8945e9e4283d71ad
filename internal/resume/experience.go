package resume

import (
	"regexp"
	"strings"
)

// longPointWords is the word count above which an unbulleted line is a point
// rather than a detail such as "Remote".
const longPointWords = 6

var (
	headerSeparator = regexp.MustCompile(`\s[|\-–—]\s|\s{2,}`)
	headerMarker    = regexp.MustCompile(`(?i)\d{4}|\bpresent\b`)
	durationPattern = regexp.MustCompile(`(?i)\b\d{4}\b(?:\s*[-–—]\s*\b(?:present|\d{4})\b)?`)
	yearRange       = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\b(?:\s*[-–—]\s*\b(?:present|\d{4})\b)?`)
	roleSeparator   = regexp.MustCompile(`\s[|\-–—]\s`)
)

// ParseExperience groups lines into positions. A header line such as
// "Engineer | Acme | 2020 - Present" opens an entry, bullets and sentences
// that follow are attached to it.
func ParseExperience(lines []string) Experience {
	var (
		entries Experience
		current *ExperienceEntry
	)

	open := func(entry ExperienceEntry) {
		if current != nil {
			entries = append(entries, *current)
		}
		current = &entry
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if chunks := headerSeparator.Split(line, -1); len(chunks) >= 2 && headerMarker.MatchString(line) {
			role, _ := stripBullet(strings.TrimSpace(chunks[0]))
			open(ExperienceEntry{
				Role:     role,
				Company:  strings.TrimSpace(chunks[1]),
				Duration: durationPattern.FindString(line),
				Points:   []string{},
			})
			continue
		}

		point, bulleted := stripBullet(line)

		if years := yearRange.FindString(line); years != "" && !bulleted && strings.ContainsAny(line, ",@-") {
			parts := roleSeparator.Split(line, -1)
			entry := ExperienceEntry{
				Role:     strings.TrimSpace(parts[0]),
				Duration: years,
				Points:   []string{},
			}
			if len(parts) > 1 {
				entry.Company = strings.TrimSpace(parts[1])
			}
			open(entry)
			continue
		}

		if bulleted {
			if current == nil {
				current = &ExperienceEntry{Points: []string{}}
			}
			if point != "" {
				current.Points = append(current.Points, point)
			}
			continue
		}

		if current == nil {
			continue
		}
		if len(strings.Fields(line)) > longPointWords {
			current.Points = append(current.Points, line)
		} else {
			current.Meta = append(current.Meta, line)
		}
	}

	if current != nil {
		entries = append(entries, *current)
	}

	result := make(Experience, 0, len(entries))
	for _, entry := range entries {
		if !entry.empty() {
			result = append(result, entry)
		}
	}
	return result
}
