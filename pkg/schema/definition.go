// Package schema describes reference field definitions: which source field of
// a resource points at which reference resource, how the link is built, and
// which child component renders the resolved record(s).
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-refs/pkg/controller"
)

// Kind selects the reference wrapper.
type Kind string

const (
	KindReference      Kind = "reference"
	KindReferenceArray Kind = "reference_array"
)

// ParseKind accepts the canonical kinds plus the relationship vocabulary used
// in OpenAPI documents (belongsTo, hasOne, hasMany).
func ParseKind(raw string) (Kind, error) {
	switch normaliseKey(raw) {
	case "reference", "belongsto", "hasone", "one":
		return KindReference, nil
	case "referencearray", "hasmany", "many":
		return KindReferenceArray, nil
	default:
		return "", fmt.Errorf("schema: unknown kind %q", raw)
	}
}

// Definition configures one reference field.
type Definition struct {
	Name            string
	Kind            Kind
	Resource        string
	Source          string
	Reference       string
	Link            controller.LinkType
	AllowEmpty      bool
	TranslateChoice bool
	ClassName       string
	Label           string
	Child           ChildDefinition
	// Origin records the file or document the definition was read from.
	Origin string
}

// ChildDefinition describes the element tree rendered inside a reference
// field. Component names a vanilla component, or "reference" /
// "reference_array" for nested reference fields configured through Props.
type ChildDefinition struct {
	Component string
	Props     map[string]any
	Children  []ChildDefinition
}

// IsReference reports whether the child is itself a reference field.
func (c ChildDefinition) IsReference() bool {
	_, err := ParseKind(c.Component)
	return err == nil && strings.TrimSpace(c.Component) != ""
}

// Validate checks the required configuration.
func (d Definition) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("schema: definition name is required")
	case d.Kind != KindReference && d.Kind != KindReferenceArray:
		return fmt.Errorf("schema: definition %q has unknown kind %q", d.Name, d.Kind)
	case strings.TrimSpace(d.Source) == "":
		return fmt.Errorf("schema: definition %q requires a source", d.Name)
	case strings.TrimSpace(d.Reference) == "":
		return fmt.Errorf("schema: definition %q requires a reference", d.Name)
	case strings.TrimSpace(d.Child.Component) == "":
		return fmt.Errorf("schema: definition %q requires a child component", d.Name)
	}
	return validateChild(d.Name, d.Child)
}

func validateChild(name string, child ChildDefinition) error {
	if strings.TrimSpace(child.Component) == "" {
		return fmt.Errorf("schema: definition %q has a child without component", name)
	}
	for _, nested := range child.Children {
		if err := validateChild(name, nested); err != nil {
			return err
		}
	}
	return nil
}

// Set holds definitions keyed by name.
type Set struct {
	definitions map[string]Definition
}

// NewSet builds a set, rejecting invalid and duplicate definitions.
func NewSet(definitions ...Definition) (*Set, error) {
	set := &Set{definitions: make(map[string]Definition, len(definitions))}
	for _, def := range definitions {
		if err := set.add(def); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *Set) add(def Definition) error {
	def.Name = strings.TrimSpace(def.Name)
	if err := def.Validate(); err != nil {
		return err
	}
	if existing, exists := s.definitions[def.Name]; exists {
		return fmt.Errorf("schema: duplicate definition %q (%s and %s)", def.Name, existing.Origin, def.Origin)
	}
	s.definitions[def.Name] = def
	return nil
}

// Definition returns the definition named name.
func (s *Set) Definition(name string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.definitions[strings.TrimSpace(name)]
	return def, ok
}

// Names returns the sorted definition names.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.definitions))
	for name := range s.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the set holds any definitions.
func (s *Set) Empty() bool {
	return s == nil || len(s.definitions) == 0
}

// Merge returns a new set containing both sets. Duplicate names fail.
func (s *Set) Merge(other *Set) (*Set, error) {
	out, _ := NewSet()
	for _, src := range []*Set{s, other} {
		if src == nil {
			continue
		}
		for _, name := range src.Names() {
			if err := out.add(src.definitions[name]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// ParseLinkType accepts "edit", "show", "none", "false" and "".
func ParseLinkType(raw string) (controller.LinkType, error) {
	return controller.ParseLinkType(raw)
}

func normaliseKey(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
