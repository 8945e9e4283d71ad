package resume

import "strings"

// Segmenter splits normalized text into sections.
type Segmenter struct {
	Classifier LineClassifier
}

// NewSegmenter returns a segmenter using the heuristic heading rules.
func NewSegmenter(maxHeadingLength int) *Segmenter {
	return &Segmenter{Classifier: HeuristicClassifier{MaxHeadingLength: maxHeadingLength}}
}

// Segment walks the non-empty lines of text. Lines before the first heading
// belong to GENERAL, which is always the first section. Heading lines are not
// kept as content, and a repeated heading continues the existing section.
func (s *Segmenter) Segment(text string) []Section {
	classifier := s.Classifier
	if classifier == nil {
		classifier = HeuristicClassifier{}
	}

	sections := []Section{{Name: SectionGeneral, Lines: []string{}}}
	index := map[string]int{SectionGeneral: 0}
	current := 0

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if name, ok := classifier.Heading(line); ok {
			i, seen := index[name]
			if !seen {
				i = len(sections)
				index[name] = i
				sections = append(sections, Section{Name: name, Lines: []string{}})
			}
			current = i
			continue
		}

		sections[current].Lines = append(sections[current].Lines, line)
	}

	return sections
}
