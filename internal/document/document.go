// Package document defines the resume document model shared by the editor,
// renderer, persistence layer and HTTP API.
package document

// TemplateID selects the visual template a resume is rendered with.
type TemplateID string

// Known template identifiers.
const (
	TemplateModern       TemplateID = "modern"
	TemplateProfessional TemplateID = "professional"
)

// Valid reports whether the template id is one of the known variants.
func (t TemplateID) Valid() bool {
	return t == TemplateModern || t == TemplateProfessional
}

// PersonalInfo holds the contact block of a resume. Every field is optional;
// the renderer omits empty values instead of treating them as errors.
type PersonalInfo struct {
	FullName     string `json:"fullName,omitempty"`
	JobTitle     string `json:"jobTitle,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	Website      string `json:"website,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Experience is a single work history entry. Description is plain text with
// embedded line breaks; each non-blank line becomes one bullet when rendered.
type Experience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Education is a single education entry.
type Education struct {
	School         string `json:"school"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduationDate"`
}

// Project is a single project entry. Subtitle and Link are optional.
type Project struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// Certification is a single certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// Resume is the editable unit. List fields keep insertion order, which is
// also display order. Sections is both the visual order and the enablement
// mask; an id absent from it resolves to the built-in default descriptor.
type Resume struct {
	Title          string          `json:"title"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Summary        string          `json:"summary"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Skills         []string        `json:"skills"`
	TemplateID     TemplateID      `json:"templateId"`
	Sections       []Section       `json:"sections"`
}

// NewDraft returns a fresh resume for the given template with one empty
// placeholder entry per list field, so forms always have an editable row,
// and the full default section set.
func NewDraft(template TemplateID) *Resume {
	if !template.Valid() {
		template = TemplateModern
	}
	return &Resume{
		Title:          "Untitled Resume",
		Experience:     []Experience{{}},
		Education:      []Education{{}},
		Projects:       []Project{{}},
		Certifications: []Certification{{}},
		Skills:         []string{},
		TemplateID:     template,
		Sections:       DefaultSections(),
	}
}

// Clone returns a deep copy of the resume. Empty lists stay non-nil so they
// keep marshaling as [] rather than null.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	out.Experience = cloneSlice(r.Experience)
	out.Education = cloneSlice(r.Education)
	out.Projects = cloneSlice(r.Projects)
	out.Certifications = cloneSlice(r.Certifications)
	out.Skills = cloneSlice(r.Skills)
	out.Sections = cloneSlice(r.Sections)
	return &out
}

// cloneSlice copies a slice, preserving nil-ness: a nil source stays nil and
// a non-nil empty source stays non-nil and empty.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
