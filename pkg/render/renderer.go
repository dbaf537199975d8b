package render

import (
	"context"
)

// Result is the outcome of rendering one reference field, handed to an output
// Renderer for formatting.
type Result struct {
	Field       string   `json:"field"`
	Kind        string   `json:"kind"`
	Resource    string   `json:"resource,omitempty"`
	Reference   string   `json:"reference"`
	Loaded      bool     `json:"loaded"`
	HTML        string   `json:"html"`
	Stylesheets []string `json:"stylesheets,omitempty"`
	Scripts     []string `json:"scripts,omitempty"`
}

// Renderer formats a Result into a byte representation (HTML page fragment,
// JSON debug dump, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, result Result) ([]byte, error)
}
