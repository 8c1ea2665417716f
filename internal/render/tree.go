// Package render turns a resume document into a visual tree and emits it as
// A4-sized HTML for preview and export.
package render

import "github.com/maya/resume-studio/internal/document"

// Tree is the rendered form of a resume. It is a pure function of the
// document: same input, structurally identical output.
type Tree struct {
	Template document.TemplateID
	Header   Header

	// Modern template: two columns plus a profile image slot.
	ProfileImage string
	Left         []SectionBlock
	Right        []SectionBlock

	// Professional template: flat section sequence.
	Body []SectionBlock
}

// Header is the name/job-title/contact block.
type Header struct {
	FullName string
	JobTitle string
	Contact  []ContactItem
}

// ContactItem is one entry of the contact line. Kind identifies the field
// (phone, email, location, linkedin, website); items appear in that fixed
// priority order with empty fields omitted.
type ContactItem struct {
	Kind  string
	Value string
}

// SectionBlock is one rendered section.
type SectionBlock struct {
	ID      string
	Title   string
	Text    string   // summary body
	Tags    []string // skills
	Entries []Entry
}

// Entry is one rendered list item within a section.
type Entry struct {
	Heading    string
	Subheading string
	Meta       string
	Link       string
	Bullets    []string
}
