// Package resume splits normalized resume text into sections and parses them
// into typed records.
package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Canonical section names.
const (
	SectionGeneral        = "GENERAL"
	SectionSummary        = "SUMMARY"
	SectionAbout          = "ABOUT"
	SectionExperience     = "EXPERIENCE"
	SectionWorkExperience = "WORK EXPERIENCE"
	SectionEducation      = "EDUCATION"
	SectionSkills         = "SKILLS"
	SectionProjects       = "PROJECTS"
)

// Section is a heading-delimited group of content lines.
type Section struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// ExperienceEntry is one position held.
type ExperienceEntry struct {
	Role     string   `json:"role"`
	Company  string   `json:"company"`
	Duration string   `json:"duration"`
	Points   []string `json:"points"`
	Meta     []string `json:"meta,omitempty"`
}

func (e ExperienceEntry) empty() bool {
	return e.Role == "" && e.Company == "" && len(e.Points) == 0
}

// EducationEntry is one school or degree.
type EducationEntry struct {
	Institution string `json:"institution,omitempty"`
	Note        string `json:"note,omitempty"`
}

// SectionValue is the parsed content of a section. The set of
// implementations is closed: Text, SkillSet, Experience, Education and Items.
type SectionValue interface {
	sectionValue()
	clone() SectionValue
}

// Text is free-form prose.
type Text string

// SkillSet is a list of skills unique under case-insensitive comparison.
type SkillSet []string

// Experience is the list of positions in order of appearance.
type Experience []ExperienceEntry

// Education is the list of schools in order of appearance.
type Education []EducationEntry

// Items is a generic list, one string per line.
type Items []string

func (Text) sectionValue()       {}
func (SkillSet) sectionValue()   {}
func (Experience) sectionValue() {}
func (Education) sectionValue()  {}
func (Items) sectionValue()      {}

func (t Text) clone() SectionValue     { return t }
func (s SkillSet) clone() SectionValue { return SkillSet(nonNil(slices.Clone(s))) }
func (i Items) clone() SectionValue    { return Items(nonNil(slices.Clone(i))) }

func (e Experience) clone() SectionValue {
	out := make(Experience, len(e))
	for i, entry := range e {
		entry.Points = nonNil(slices.Clone(entry.Points))
		entry.Meta = slices.Clone(entry.Meta)
		out[i] = entry
	}
	return out
}

func (e Education) clone() SectionValue {
	return Education(slices.Clone(e))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// StructuredResume maps section names to parsed values, keeping the order in
// which sections were added. It is read-only once built.
type StructuredResume struct {
	names  []string
	values map[string]SectionValue
}

func (r *StructuredResume) set(name string, value SectionValue) {
	if r.values == nil {
		r.values = make(map[string]SectionValue)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Len returns the number of sections.
func (r StructuredResume) Len() int { return len(r.names) }

// Names returns the section names in order.
func (r StructuredResume) Names() []string { return slices.Clone(r.names) }

// Get returns a copy of the named section.
func (r StructuredResume) Get(name string) (SectionValue, bool) {
	v, ok := r.values[name]
	if !ok {
		return nil, false
	}
	return v.clone(), true
}

// Skills returns the SKILLS section, or an empty list.
func (r StructuredResume) Skills() []string {
	if v, ok := r.values[SectionSkills].(SkillSet); ok {
		return slices.Clone([]string(v))
	}
	return []string{}
}

// MarshalJSON encodes sections as a JSON object in insertion order.
func (r StructuredResume) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[name].clone())
		if err != nil {
			return nil, fmt.Errorf("encode section %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
