package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minSkillLength = 2
	maxSkillLength = 39
)

var skillSeparator = regexp.MustCompile(`[,/•\n;-]`)

// ParseSkills splits the section into short skill names. Names without a
// letter are dropped, and duplicates keep the casing seen first.
func ParseSkills(lines []string) SkillSet {
	joined := strings.Join(lines, " ")

	skills := SkillSet{}
	seen := make(map[string]struct{})
	for _, candidate := range skillSeparator.Split(joined, -1) {
		candidate = strings.TrimSpace(candidate)
		if n := utf8.RuneCountInString(candidate); n < minSkillLength || n > maxSkillLength {
			continue
		}
		if !strings.ContainsFunc(candidate, unicode.IsLetter) {
			continue
		}

		key := strings.ToLower(candidate)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, candidate)
	}

	return skills
}
