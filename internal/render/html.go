package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/maya/resume-studio/internal/document"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// HTML renders a visual tree into a standalone A4-sized HTML page. The page
// is self-contained (inline styles, no external assets) so it can be handed
// to a headless browser or served as a live preview.
func HTML(tree *Tree) (string, error) {
	name := "modern.html.tmpl"
	if tree.Template == document.TemplateProfessional {
		name = "professional.html.tmpl"
	}

	var sb strings.Builder
	if err := pageTemplates.ExecuteTemplate(&sb, name, tree); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return sb.String(), nil
}

// DocumentHTML renders a document end to end: visual tree, then HTML.
func DocumentHTML(doc *document.Resume) (string, error) {
	return HTML(Render(doc))
}
