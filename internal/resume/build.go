package resume

import "strings"

// Build parses every section into its typed form. Experience and work
// experience share one list, and the general, summary and about sections
// are joined into a single SUMMARY text that is left out when empty.
func Build(sections []Section) StructuredResume {
	var (
		out     StructuredResume
		summary []string
	)

	for _, section := range sections {
		switch section.Name {
		case SectionExperience, SectionWorkExperience:
			entries := ParseExperience(section.Lines)
			if existing, ok := out.values[SectionExperience].(Experience); ok {
				entries = append(existing, entries...)
			}
			out.set(SectionExperience, entries)
		case SectionEducation:
			out.set(SectionEducation, ParseEducation(section.Lines))
		case SectionSkills:
			out.set(SectionSkills, ParseSkills(section.Lines))
		case SectionProjects:
			out.set(SectionProjects, ParseBulleted(section.Lines))
		case SectionGeneral, SectionSummary, SectionAbout:
			if text := strings.TrimSpace(strings.Join(section.Lines, " ")); text != "" {
				summary = append(summary, text)
				out.set(SectionSummary, Text(strings.Join(summary, " ")))
			}
		default:
			out.set(section.Name, ParseBulleted(section.Lines))
		}
	}

	return out
}
