package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-refs/pkg/schema"
)

// Transformer adjusts a field definition for one request before rendering,
// for example to drop links for read-only users. Top-level fields are a copy
// of the stored definition; the child props map is shared and must not be
// mutated.
type Transformer interface {
	Transform(ctx context.Context, def *schema.Definition) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, def *schema.Definition) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, def *schema.Definition) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, def)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON
// document keyed by definition name:
//
//	{
//	  "fields": {
//	    "posts.author": {"label": "Written by", "link": "show", "className": "author"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label      string `json:"label"`
	ClassName  string `json:"className"`
	Link       any    `json:"link"`
	AllowEmpty *bool  `json:"allowEmpty"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for name, patch := range document.Fields {
		if patch.Link == nil {
			continue
		}
		if _, err := schema.ParseLink(patch.Link); err != nil {
			return nil, fmt.Errorf("json preset transformer: field %q: %w", name, err)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patch registered for def.Name, if any.
func (t *JSONPresetTransformer) Transform(ctx context.Context, def *schema.Definition) error {
	if def == nil {
		return errors.New("json preset transformer: definition is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	patch, ok := t.document.Fields[def.Name]
	if !ok {
		return nil
	}
	if patch.Label != "" {
		def.Label = patch.Label
	}
	if patch.ClassName != "" {
		def.ClassName = patch.ClassName
	}
	if patch.Link != nil {
		link, err := schema.ParseLink(patch.Link)
		if err != nil {
			return fmt.Errorf("json preset transformer: field %q: %w", def.Name, err)
		}
		def.Link = link
	}
	if patch.AllowEmpty != nil {
		def.AllowEmpty = *patch.AllowEmpty
	}
	return nil
}
