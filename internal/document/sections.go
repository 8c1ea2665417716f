package document

import "slices"

// Column places a section in one of the modern template's two columns. The
// professional template ignores columns and uses the flat enabled order.
type Column string

// Layout columns.
const (
	ColumnLeft  Column = "left"
	ColumnRight Column = "right"
)

// Known section ids. The id set is fixed; unknown ids render nothing.
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionSkills         = "skills"
)

// Section is one entry of a resume's section list: its display label,
// whether it renders at all, and which column it occupies.
type Section struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Column  Column `json:"column,omitempty"`
}

// DefaultSections returns the built-in section set in its default order.
// Documents created without customization must reproduce this exactly so
// template previews match dashboard thumbnails.
func DefaultSections() []Section {
	return []Section{
		{ID: SectionSummary, Label: "Professional Summary", Enabled: true, Column: ColumnLeft},
		{ID: SectionExperience, Label: "Work Experience", Enabled: true, Column: ColumnRight},
		{ID: SectionEducation, Label: "Education", Enabled: true, Column: ColumnLeft},
		{ID: SectionProjects, Label: "Projects", Enabled: true, Column: ColumnRight},
		{ID: SectionCertifications, Label: "Certifications", Enabled: true, Column: ColumnRight},
		{ID: SectionSkills, Label: "Skills", Enabled: true, Column: ColumnLeft},
	}
}

// ActiveSections returns the document's section list, falling back to the
// default set when the list is empty or missing.
func ActiveSections(r *Resume) []Section {
	if r != nil && len(r.Sections) > 0 {
		return r.Sections
	}
	return DefaultSections()
}

// Resolve returns the effective descriptor for a section id. Ids absent from
// the list resolve to the built-in default; ids outside the fixed set resolve
// to a disabled placeholder so callers never have to special-case them.
func Resolve(sections []Section, id string) Section {
	for _, s := range sections {
		if s.ID == id {
			return s
		}
	}
	for _, s := range DefaultSections() {
		if s.ID == id {
			return s
		}
	}
	return Section{ID: id, Label: id}
}

// Toggle flips the enabled flag of the section with the given id.
// No-op when the id is absent.
func Toggle(sections []Section, id string) {
	for i := range sections {
		if sections[i].ID == id {
			sections[i].Enabled = !sections[i].Enabled
			return
		}
	}
}

// Reorder moves the section with id to the position targetID currently
// occupies: remove the source, insert at the destination index. Relative
// order of all other sections is preserved. Moving onto itself or naming an
// absent id is a no-op.
func Reorder(sections []Section, id, targetID string) []Section {
	from := indexOf(sections, id)
	to := indexOf(sections, targetID)
	if from < 0 || to < 0 || from == to {
		return sections
	}
	moved := sections[from]
	out := slices.Delete(slices.Clone(sections), from, from+1)
	return slices.Insert(out, to, moved)
}

// Enabled returns the ordered subsequence of enabled sections.
func Enabled(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// SplitColumns partitions the enabled sections by column for two-column
// layouts, preserving sequence order within each column.
func SplitColumns(sections []Section) (left, right []Section) {
	for _, s := range Enabled(sections) {
		if s.Column == ColumnLeft {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return left, right
}

func indexOf(sections []Section, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}
