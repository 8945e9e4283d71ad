package resume

import "strings"

// Views are the three renderings of a parsed resume.
type Views struct {
	PlainText  string           `json:"plain_text"`
	FlatText   string           `json:"flat_text"`
	Structured StructuredResume `json:"structured"`
	Skills     []string         `json:"skills"`
}

// Serialize bundles the normalized text with its structured and flattened
// forms.
func Serialize(plain string, structured StructuredResume) *Views {
	return &Views{
		PlainText:  plain,
		FlatText:   Flat(structured),
		Structured: structured,
		Skills:     structured.Skills(),
	}
}

// Flat renders a skimmable view: a "### NAME" marker per section followed by
// its content, sections separated by a blank line.
func Flat(r StructuredResume) string {
	var lines []string
	for _, name := range r.names {
		lines = append(lines, "### "+name)

		switch v := r.values[name].(type) {
		case Text:
			lines = append(lines, string(v))
		case Experience:
			for _, entry := range v {
				if header := experienceHeader(entry); header != "" {
					lines = append(lines, header)
				}
				for _, point := range entry.Points {
					lines = append(lines, "- "+point)
				}
			}
		case Education:
			for _, entry := range v {
				lines = append(lines, "- "+joinNonEmpty(entry.Institution, entry.Note))
			}
		case SkillSet:
			lines = appendItems(lines, v)
		case Items:
			lines = appendItems(lines, v)
		}

		lines = append(lines, "")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func appendItems(lines, items []string) []string {
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return lines
}

// experienceHeader keeps role, company and duration in fixed positions so an
// empty field still leaves its separator. Only the ends are trimmed.
func experienceHeader(entry ExperienceEntry) string {
	role := strings.TrimSpace(entry.Role)
	company := strings.TrimSpace(entry.Company)
	duration := strings.TrimSpace(entry.Duration)
	if role == "" && company == "" && duration == "" {
		return ""
	}
	return strings.TrimSpace(role + " | " + company + " | " + duration)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " | ")
}
