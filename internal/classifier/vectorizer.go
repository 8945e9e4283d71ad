package classifier

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// defaultTokenPattern keeps runs of two or more word characters.
const defaultTokenPattern = `(?u)\b\w\w+\b`

// Vectorizer is a fitted TF-IDF vectorizer.
type Vectorizer struct {
	Version      int            `json:"version"`
	Lowercase    bool           `json:"lowercase"`
	TokenPattern string         `json:"token_pattern"`
	StopWords    []string       `json:"stop_words"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Norm         string         `json:"norm"`

	tokens *regexp.Regexp
	stop   map[string]struct{}
}

func (v *Vectorizer) prepare() error {
	if len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("vocabulary has %d terms but idf has %d weights", len(v.Vocabulary), len(v.IDF))
	}
	for term, index := range v.Vocabulary {
		if index < 0 || index >= len(v.IDF) {
			return fmt.Errorf("term %q has index %d outside [0, %d)", term, index, len(v.IDF))
		}
	}
	switch v.Norm {
	case "", "l2", "none":
	default:
		return fmt.Errorf("unsupported norm %q", v.Norm)
	}

	tokens, err := compileTokenPattern(v.TokenPattern)
	if err != nil {
		return err
	}
	v.tokens = tokens

	v.stop = make(map[string]struct{}, len(v.StopWords))
	for _, word := range v.StopWords {
		v.stop[word] = struct{}{}
	}
	return nil
}

// compileTokenPattern translates the Unicode-aware default pattern, which Go
// word classes would restrict to ASCII.
func compileTokenPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || pattern == defaultTokenPattern {
		return regexp.MustCompile(`[\p{L}\p{N}_]{2,}`), nil
	}
	re, err := regexp.Compile(strings.TrimPrefix(pattern, "(?u)"))
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}
	return re, nil
}

// Transform returns the sparse TF-IDF vector of text as index → weight.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	if v.Lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, token := range v.tokens.FindAllString(text, -1) {
		if _, stop := v.stop[token]; stop {
			continue
		}
		if index, ok := v.Vocabulary[token]; ok {
			counts[index]++
		}
	}

	var sumSquares float64
	for index, tf := range counts {
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		weight := tf * v.IDF[index]
		counts[index] = weight
		sumSquares += weight * weight
	}

	if v.Norm != "none" && sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for index := range counts {
			counts[index] /= norm
		}
	}

	return counts
}
