package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-refs/pkg/controller"
)

// LoadFS walks fsys and parses every JSON/YAML definition file. When fsys is
// nil or holds no definition files, the returned set is empty.
func LoadFS(fsys fs.FS) (*Set, error) {
	set, _ := NewSet()
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		return set.addDocument(data, path)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Parse reads a single definition document.
func Parse(data []byte, origin string) (*Set, error) {
	set, _ := NewSet()
	if err := set.addDocument(data, origin); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Set) addDocument(data []byte, origin string) error {
	doc, err := parseDocument(data, origin)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(doc.Fields))
	for name := range doc.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("schema: file %s defines an empty field name", origin)
		}
		def, err := normaliseField(doc.Fields[name], trimmed, origin)
		if err != nil {
			return err
		}
		if err := s.add(def); err != nil {
			return err
		}
	}
	return nil
}

type documentFile struct {
	Fields map[string]fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Kind            string    `json:"kind" yaml:"kind"`
	Resource        string    `json:"resource" yaml:"resource"`
	Source          string    `json:"source" yaml:"source"`
	Reference       string    `json:"reference" yaml:"reference"`
	Link            any       `json:"link" yaml:"link"`
	AllowEmpty      bool      `json:"allowEmpty" yaml:"allowEmpty"`
	TranslateChoice bool      `json:"translateChoice" yaml:"translateChoice"`
	ClassName       string    `json:"className" yaml:"className"`
	Label           string    `json:"label" yaml:"label"`
	Child           childFile `json:"child" yaml:"child"`
}

type childFile struct {
	Component string         `json:"component" yaml:"component"`
	Props     map[string]any `json:"props" yaml:"props"`
	Children  []childFile    `json:"children" yaml:"children"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
}

func normaliseField(raw fieldFile, name, origin string) (Definition, error) {
	kind := KindReference
	if strings.TrimSpace(raw.Kind) != "" {
		parsed, err := ParseKind(raw.Kind)
		if err != nil {
			return Definition{}, fmt.Errorf("schema: field %q (file %s): %w", name, origin, err)
		}
		kind = parsed
	}

	link, err := ParseLink(raw.Link)
	if err != nil {
		return Definition{}, fmt.Errorf("schema: field %q (file %s): %w", name, origin, err)
	}

	return Definition{
		Name:            name,
		Kind:            kind,
		Resource:        strings.TrimSpace(raw.Resource),
		Source:          strings.TrimSpace(raw.Source),
		Reference:       strings.TrimSpace(raw.Reference),
		Link:            link,
		AllowEmpty:      raw.AllowEmpty,
		TranslateChoice: raw.TranslateChoice,
		ClassName:       strings.TrimSpace(raw.ClassName),
		Label:           strings.TrimSpace(raw.Label),
		Child:           normaliseChild(raw.Child),
		Origin:          origin,
	}, nil
}

func normaliseChild(raw childFile) ChildDefinition {
	child := ChildDefinition{
		Component: strings.TrimSpace(raw.Component),
		Props:     cloneProps(raw.Props),
	}
	for _, nested := range raw.Children {
		child.Children = append(child.Children, normaliseChild(nested))
	}
	return child
}

// ParseLink accepts the link setting as a string or a boolean. A missing
// value means the edit page.
func ParseLink(value any) (controller.LinkType, error) {
	switch v := value.(type) {
	case nil:
		return controller.LinkEdit, nil
	case bool:
		if v {
			return controller.LinkEdit, nil
		}
		return controller.LinkNone, nil
	case string:
		return ParseLinkType(v)
	default:
		return "", fmt.Errorf("link must be a string or boolean, got %T", value)
	}
}

func cloneProps(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
