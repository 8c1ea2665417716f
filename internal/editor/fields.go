package editor

import (
	"strings"

	"github.com/maya/resume-studio/internal/document"
)

// Field setters and list operations. All of them are synchronous, pure
// transitions on the in-memory draft; update-at-index with a bad index is a
// programmer error and a silent no-op, never a user-facing failure.

// SetTitle replaces the document title.
func (e *Editor) SetTitle(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Title = title
}

// SetSummary replaces the summary text.
func (e *Editor) SetSummary(summary string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Summary = summary
}

// SetTemplate switches the rendering template. Unknown ids are ignored.
func (e *Editor) SetTemplate(template document.TemplateID) {
	if !template.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.TemplateID = template
}

// SetPersonalInfo replaces the contact block, preserving all other fields.
func (e *Editor) SetPersonalInfo(info document.PersonalInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.PersonalInfo = info
}

// AddExperience appends an empty experience row.
func (e *Editor) AddExperience() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Experience = append(e.doc.Experience, document.Experience{})
}

// UpdateExperience replaces the entry at index i.
func (e *Editor) UpdateExperience(i int, exp document.Experience) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Experience) {
		e.doc.Experience[i] = exp
	}
}

// RemoveExperience deletes the entry at index i. Removing the last entry
// leaves the list empty; the renderer then omits the section entirely.
func (e *Editor) RemoveExperience(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Experience) {
		e.doc.Experience = append(e.doc.Experience[:i], e.doc.Experience[i+1:]...)
	}
}

// AddEducation appends an empty education row.
func (e *Editor) AddEducation() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Education = append(e.doc.Education, document.Education{})
}

// UpdateEducation replaces the entry at index i.
func (e *Editor) UpdateEducation(i int, edu document.Education) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Education) {
		e.doc.Education[i] = edu
	}
}

// RemoveEducation deletes the entry at index i.
func (e *Editor) RemoveEducation(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Education) {
		e.doc.Education = append(e.doc.Education[:i], e.doc.Education[i+1:]...)
	}
}

// AddProject appends an empty project row.
func (e *Editor) AddProject() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Projects = append(e.doc.Projects, document.Project{})
}

// UpdateProject replaces the entry at index i.
func (e *Editor) UpdateProject(i int, proj document.Project) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Projects) {
		e.doc.Projects[i] = proj
	}
}

// RemoveProject deletes the entry at index i.
func (e *Editor) RemoveProject(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Projects) {
		e.doc.Projects = append(e.doc.Projects[:i], e.doc.Projects[i+1:]...)
	}
}

// AddCertification appends an empty certification row.
func (e *Editor) AddCertification() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Certifications = append(e.doc.Certifications, document.Certification{})
}

// UpdateCertification replaces the entry at index i.
func (e *Editor) UpdateCertification(i int, cert document.Certification) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Certifications) {
		e.doc.Certifications[i] = cert
	}
}

// RemoveCertification deletes the entry at index i.
func (e *Editor) RemoveCertification(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Certifications) {
		e.doc.Certifications = append(e.doc.Certifications[:i], e.doc.Certifications[i+1:]...)
	}
}

// AddSkill appends a trimmed skill; blank input is ignored.
func (e *Editor) AddSkill(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Skills = append(e.doc.Skills, skill)
}

// RemoveSkill deletes the skill at index i.
func (e *Editor) RemoveSkill(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= 0 && i < len(e.doc.Skills) {
		e.doc.Skills = append(e.doc.Skills[:i], e.doc.Skills[i+1:]...)
	}
}

// ToggleSection flips a section's enabled flag.
func (e *Editor) ToggleSection(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	document.Toggle(e.doc.Sections, id)
}

// ReorderSections moves a section to the position another currently holds,
// the drag-and-drop array move.
func (e *Editor) ReorderSections(id, targetID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Sections = document.Reorder(e.doc.Sections, id, targetID)
}
