// Package runtime ships the browser script that hydrates reference fields
// whose fetch was deferred during server rendering.
package runtime

import (
	"embed"
	"io/fs"
)

const (
	// ScriptName is the hydration script.
	ScriptName = "refs-runtime.js"
	// StylesheetName styles standalone pages and hydrated fields.
	StylesheetName = "refs.css"
)

//go:embed assets/*.js assets/*.css
var embeddedAssets embed.FS

// AssetsFS exposes the runtime bundle rooted at the asset names.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
