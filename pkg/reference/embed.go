package reference

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const (
	templateLink     = "templates/link.tmpl"
	templateProgress = "templates/progress.tmpl"
)

// TemplatesFS exposes the embedded link and progress templates so callers can
// copy them as a starting point for theme overrides.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
