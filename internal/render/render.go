package render

import (
	"strings"

	"github.com/maya/resume-studio/internal/document"
)

// Render produces the visual tree for a resume. It performs no I/O and holds
// no state; rendering a section that is disabled or absent from the section
// list never emits output for it.
func Render(doc *document.Resume) *Tree {
	sections := document.ActiveSections(doc)

	tree := &Tree{
		Template: doc.TemplateID,
		Header:   buildHeader(doc),
	}

	if doc.TemplateID == document.TemplateProfessional {
		for _, s := range document.Enabled(sections) {
			if block := professionalSection(doc, s.ID); block != nil {
				tree.Body = append(tree.Body, *block)
			}
		}
		return tree
	}

	tree.ProfileImage = doc.PersonalInfo.ProfileImage
	left, right := document.SplitColumns(sections)
	for _, s := range left {
		if block := modernSection(doc, s.ID); block != nil {
			tree.Left = append(tree.Left, *block)
		}
	}
	for _, s := range right {
		if block := modernSection(doc, s.ID); block != nil {
			tree.Right = append(tree.Right, *block)
		}
	}
	return tree
}

// SplitBullets splits a plain-text description on line breaks, trims each
// line and drops blank ones, yielding one bullet per remaining line.
func SplitBullets(description string) []string {
	var bullets []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	return bullets
}

func buildHeader(doc *document.Resume) Header {
	h := Header{
		FullName: doc.PersonalInfo.FullName,
		JobTitle: doc.PersonalInfo.JobTitle,
		Contact:  contactItems(doc.PersonalInfo),
	}
	if doc.TemplateID == document.TemplateProfessional {
		// The professional header shows placeholder text instead of collapsing.
		if h.FullName == "" {
			h.FullName = "YOUR NAME"
		}
		if h.JobTitle == "" {
			h.JobTitle = "Professional Title"
		}
	}
	return h
}

// contactItems assembles the contact line in its fixed priority order,
// omitting empty fields.
func contactItems(pi document.PersonalInfo) []ContactItem {
	fields := []ContactItem{
		{Kind: "phone", Value: pi.Phone},
		{Kind: "email", Value: pi.Email},
		{Kind: "location", Value: pi.Location},
		{Kind: "linkedin", Value: pi.LinkedIn},
		{Kind: "website", Value: pi.Website},
	}
	var items []ContactItem
	for _, f := range fields {
		if f.Value != "" {
			items = append(items, f)
		}
	}
	return items
}

// modernSection renders one section for the two-column template. Unknown ids
// yield nil. Education intentionally carries no empty-guard here: the block
// renders with whatever entries exist, matching the template's look before
// any data is entered.
func modernSection(doc *document.Resume, id string) *SectionBlock {
	switch id {
	case document.SectionSummary:
		if doc.Summary == "" {
			return nil
		}
		return &SectionBlock{ID: id, Title: "About Me", Text: doc.Summary}
	case document.SectionEducation:
		block := &SectionBlock{ID: id, Title: "Education"}
		for _, edu := range doc.Education {
			block.Entries = append(block.Entries, Entry{
				Heading:    edu.Degree,
				Subheading: edu.School,
				Meta:       edu.GraduationDate,
			})
		}
		return block
	case document.SectionSkills:
		if len(doc.Skills) == 0 {
			return nil
		}
		return &SectionBlock{ID: id, Title: "Skills", Tags: append([]string(nil), doc.Skills...)}
	case document.SectionExperience:
		if len(doc.Experience) == 0 {
			return nil
		}
		block := &SectionBlock{ID: id, Title: "Work Experience"}
		for _, exp := range doc.Experience {
			block.Entries = append(block.Entries, Entry{
				Heading:    exp.Position,
				Subheading: exp.Company + " | " + exp.Location,
				Meta:       exp.StartDate + " – " + exp.EndDate,
				Bullets:    SplitBullets(exp.Description),
			})
		}
		return block
	case document.SectionProjects:
		if len(doc.Projects) == 0 {
			return nil
		}
		block := &SectionBlock{ID: id, Title: "Projects"}
		for _, proj := range doc.Projects {
			block.Entries = append(block.Entries, Entry{
				Heading:    proj.Title,
				Subheading: proj.Subtitle,
				Link:       proj.Link,
				Bullets:    SplitBullets(proj.Description),
			})
		}
		return block
	case document.SectionCertifications:
		if len(doc.Certifications) == 0 {
			return nil
		}
		block := &SectionBlock{ID: id, Title: "Certifications"}
		for _, cert := range doc.Certifications {
			sub := cert.Issuer
			if cert.Date != "" {
				sub += " (" + cert.Date + ")"
			}
			block.Entries = append(block.Entries, Entry{
				Heading:    cert.Name,
				Subheading: sub,
			})
		}
		return block
	default:
		return nil
	}
}

// professionalSection renders one section for the single-column template.
// Every section is guarded on non-empty content; unknown ids yield nil.
func professionalSection(doc *document.Resume, id string) *SectionBlock {
	switch id {
	case document.SectionSummary:
		if doc.Summary == "" {
			return nil
		}
		return &SectionBlock{ID: id, Title: "Professional Summary", Text: doc.Summary}
	case document.SectionExperience:
		if len(doc.Experience) == 0 {
			return nil
		}
		block := &SectionBlock{ID: id, Title: "Experience"}
		for _, exp := range doc.Experience {
			meta := exp.StartDate
			if exp.EndDate != "" {
				meta += " – " + exp.EndDate
			}
			block.Entries = append(block.Entries, Entry{
				Heading:    exp.Position,
				Subheading: exp.Company,
				Meta:       meta,
				Bullets:    SplitBullets(exp.Description),
			})
		}
		return block
	case document.SectionEducation:
		if len(doc.Education) == 0 {
			return nil
		}
		block := &SectionBlock{ID: id, Title: "Education"}
		for _, edu := range doc.Education {
			sub := edu.Degree
			if edu.Field != "" {
				sub += " in " + edu.Field
			}
			block.Entries = append(block.Entries, Entry{
				Heading:    edu.School,
				Subheading: sub,
				Meta:       edu.GraduationDate,
			})
		}
		return block
	case document.SectionProjects:
		if len(doc.Projects) == 0 {
			return nil
		}
		block := &SectionBlock{ID: id, Title: "Projects"}
		for _, proj := range doc.Projects {
			block.Entries = append(block.Entries, Entry{
				Heading:    proj.Title,
				Subheading: proj.Subtitle,
				Link:       proj.Link,
				Bullets:    SplitBullets(proj.Description),
			})
		}
		return block
	case document.SectionCertifications:
		if len(doc.Certifications) == 0 {
			return nil
		}
		block := &SectionBlock{ID: id, Title: "Certifications"}
		for _, cert := range doc.Certifications {
			block.Entries = append(block.Entries, Entry{
				Heading:    cert.Name,
				Subheading: cert.Issuer,
				Meta:       cert.Date,
			})
		}
		return block
	case document.SectionSkills:
		if len(doc.Skills) == 0 {
			return nil
		}
		return &SectionBlock{ID: id, Title: "Skills", Tags: append([]string(nil), doc.Skills...)}
	default:
		return nil
	}
}
