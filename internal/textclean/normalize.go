// Package textclean repairs text extracted from PDF documents: broken
// ligatures, noisy whitespace and words split across line breaks.
package textclean

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ligatures maps glyphs that stylised PDFs commonly emit instead of plain
// letters. Genuine bullets (U+2022) are left alone.
var ligatures = strings.NewReplacer(
	"Ɵ", "ti",
	"Ŧ", "T",
	"Ŋ", "N",
	"ƞ", "n",
	"Ō", "o",
	"ō", "o",
	"ſ", "s",
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "ft",
	"ﬆ", "st",
	"\uf0b7", "-",
	"\uf0a7", "-",
	"\u00ad", "",
)

var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u2028", "\n",
	"\u2029", "\n\n",
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]+`)
	paddedNewline   = regexp.MustCompile(` *\n *`)
	hyphenBreak     = regexp.MustCompile(`-\n\s*`)
	multiSpace      = regexp.MustCompile(` {2,}`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
)

// Normalize returns the canonical cleaned form of s. Paragraph breaks (blank
// lines) survive, single line breaks are folded into spaces. Normalize is
// idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)
	s = lineBreaks.Replace(s)
	s = FixLigatures(s)
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = paddedNewline.ReplaceAllString(s, "\n")
	s = hyphenBreak.ReplaceAllString(s, "")
	s = foldSingleNewlines(s)
	s = multiSpace.ReplaceAllString(s, " ")
	s = blankRuns.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// FixLigatures replaces the known corrupted glyphs with their ASCII spelling.
func FixLigatures(s string) string {
	return ligatures.Replace(s)
}

// foldSingleNewlines turns a newline that is neither preceded nor followed by
// another newline into a space. Line breaks in front of a bulleted line are
// kept.
func foldSingleNewlines(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}

	b := []byte(s)
	for i, c := range b {
		if c != '\n' {
			continue
		}
		prevNewline := i > 0 && s[i-1] == '\n'
		nextNewline := i+1 < len(s) && s[i+1] == '\n'
		if prevNewline || nextNewline || startsWithBullet(s[i+1:]) {
			continue
		}
		b[i] = ' '
	}
	return string(b)
}

func startsWithBullet(line string) bool {
	for _, marker := range bulletGlyphs {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	// ASCII markers only count when they stand alone.
	for _, marker := range []string{"-", "*"} {
		if line == marker || strings.HasPrefix(line, marker+" ") || strings.HasPrefix(line, marker+"\n") {
			return true
		}
	}
	return false
}

var bulletGlyphs = []string{"•", "◦", "▪", "●", "‣", "⁃"}

// Flatten joins the text of consecutive blocks into one document, separating
// blocks with a blank line. Blank blocks are skipped.
func Flatten(blocks []string) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block = strings.TrimSpace(block); block != "" {
			parts = append(parts, block)
		}
	}
	return strings.Join(parts, "\n\n")
}
