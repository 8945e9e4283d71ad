package resume

import (
	"regexp"
	"strings"
)

var bulletMarker = regexp.MustCompile(`^(?:[-•◦⁃‣▪●*–—]+|\d+[.)])\s*`)

// stripBullet removes a leading bullet glyph or list number.
func stripBullet(line string) (string, bool) {
	loc := bulletMarker.FindStringIndex(line)
	if loc == nil {
		return line, false
	}
	return strings.TrimSpace(line[loc[1]:]), true
}

// ParseBulleted strips bullet markers and passes other lines through, one
// item per line.
func ParseBulleted(lines []string) Items {
	items := make(Items, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if stripped, ok := stripBullet(line); ok {
			line = stripped
		}
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
