package vanilla

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-refs/pkg/renderers/vanilla/components"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName     = components.StylesheetName
	DatagridScriptName = components.DatagridScriptName
)

// TemplatesFS exposes the embedded template bundle for consumers that want to
// use the built-in child components out of the box.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded asset bundle (CSS/JS) so callers can serve
// them over HTTP or copy them into their own asset pipeline.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
