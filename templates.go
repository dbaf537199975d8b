package refs

import (
	"io/fs"

	"github.com/goliatone/go-refs/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in component templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
