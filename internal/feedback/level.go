package feedback

import "strings"

// Level is the seniority the candidate applies at.
type Level string

const (
	EntryLevel Level = "Entry Level"
	MidLevel   Level = "Mid Level"
	Senior     Level = "Senior"
	Executive  Level = "Executive"
)

// Levels lists the accepted levels from junior to senior.
var Levels = []Level{EntryLevel, MidLevel, Senior, Executive}

// ParseLevel matches s against the known levels ignoring case, spaces and
// dashes. "entry", "mid" and "junior" are accepted as short forms.
func ParseLevel(s string) (Level, bool) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "entrylevel", "entry", "junior":
		return EntryLevel, true
	case "midlevel", "mid", "middle":
		return MidLevel, true
	case "senior":
		return Senior, true
	case "executive":
		return Executive, true
	}
	return MidLevel, false
}

func (l Level) orDefault() Level {
	if parsed, ok := ParseLevel(string(l)); ok {
		return parsed
	}
	return MidLevel
}

func (l Level) seniorOrAbove() bool {
	return l == Senior || l == Executive
}
