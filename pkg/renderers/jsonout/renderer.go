// Package jsonout formats a rendered reference field as JSON, for API
// responses and debugging.
package jsonout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-refs/pkg/render"
)

// Renderer emits render.Result as indented JSON.
type Renderer struct {
	indent string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent sets the indentation. An empty string produces compact output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New constructs the renderer. Output is indented with two spaces by default.
func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(_ context.Context, result render.Result) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if r.indent == "" {
		out, err = json.Marshal(result)
	} else {
		out, err = json.MarshalIndent(result, "", r.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: marshal result: %w", err)
	}
	return out, nil
}
