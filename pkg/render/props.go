package render

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/goliatone/go-refs/pkg/record"
)

// Canonical prop keys shared by the reference views and child components.
const (
	PropRecord          = "record"
	PropResource        = "resource"
	PropSource          = "source"
	PropBasePath        = "basePath"
	PropClassName       = "className"
	PropAllowEmpty      = "allowEmpty"
	PropTranslateChoice = "translateChoice"
	PropIDs             = "ids"
	PropData            = "data"
	PropLoaded          = "loaded"
	PropCurrentSort     = "currentSort"
	PropChildren        = "children"
	PropLabel           = "label"
	PropLinkType        = "linkType"
)

// Props is the prop bag passed to a component.
type Props map[string]any

// Clone returns a shallow copy.
func (p Props) Clone() Props {
	if p == nil {
		return Props{}
	}
	return maps.Clone(p)
}

// Merge returns a copy of p with overrides applied on top. The receiver is not
// modified.
func (p Props) Merge(overrides Props) Props {
	out := p.Clone()
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

// String returns the prop formatted as a string.
func (p Props) String(key string) string {
	value, ok := p[key]
	if !ok || value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return record.Format(value)
}

// Bool returns the prop as a bool. Strings "true"/"1" count as true.
func (p Props) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		v = strings.ToLower(strings.TrimSpace(v))
		return v == "true" || v == "1"
	default:
		return false
	}
}

// Record returns the injected record, or nil when absent.
func (p Props) Record() record.Record {
	switch v := p[PropRecord].(type) {
	case record.Record:
		return v
	case map[string]any:
		return record.Record(v)
	default:
		return nil
	}
}

// IDs returns the injected identifier list.
func (p Props) IDs() []record.Identifier {
	return record.Identifiers(p[PropIDs])
}

// Data returns the injected identifier -> record mapping.
func (p Props) Data() map[string]record.Record {
	switch v := p[PropData].(type) {
	case map[string]record.Record:
		return v
	case map[string]any:
		out := make(map[string]record.Record, len(v))
		for key, item := range v {
			switch rec := item.(type) {
			case record.Record:
				out[key] = rec
			case map[string]any:
				out[key] = record.Record(rec)
			}
		}
		return out
	default:
		return nil
	}
}

// Children returns the child elements stored under PropChildren.
func (p Props) Children() []Element {
	switch v := p[PropChildren].(type) {
	case []Element:
		return v
	case Element:
		return []Element{v}
	default:
		return nil
	}
}

// Sort describes the current list ordering handed to list children.
type Sort struct {
	Field string `json:"field,omitempty"`
	Order string `json:"order,omitempty"`
}

// Component renders props into an HTML fragment.
type Component interface {
	Render(ctx context.Context, props Props) (string, error)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, props Props) (string, error)

// Render implements Component.
func (fn ComponentFunc) Render(ctx context.Context, props Props) (string, error) {
	return fn(ctx, props)
}

// Element is a component paired with the props it renders with.
type Element struct {
	Type      string
	Component Component
	Props     Props
}

// NewElement builds an element. Children, when provided, are stored under
// PropChildren.
func NewElement(typ string, component Component, props Props, children ...Element) Element {
	props = props.Clone()
	if len(children) > 0 {
		props[PropChildren] = children
	}
	return Element{Type: typ, Component: component, Props: props}
}

// IsZero reports whether the element has nothing to render.
func (e Element) IsZero() bool {
	return e.Component == nil
}

// Clone returns a new element whose props are the original props with
// overrides merged on top. The original element is left untouched.
func (e Element) Clone(overrides Props) Element {
	return Element{
		Type:      e.Type,
		Component: e.Component,
		Props:     e.Props.Merge(overrides),
	}
}

// Render renders the element.
func (e Element) Render(ctx context.Context) (string, error) {
	if e.Component == nil {
		return "", fmt.Errorf("render: element %q has no component", e.Type)
	}
	return e.Component.Render(ctx, e.Props)
}

// CountChildren counts the renderable elements.
func CountChildren(children []Element) int {
	count := 0
	for _, child := range children {
		if !child.IsZero() {
			count++
		}
	}
	return count
}

// OnlyChild returns the single renderable child or a ConfigurationError naming
// component.
func OnlyChild(component string, children []Element) (Element, error) {
	if count := CountChildren(children); count != 1 {
		return Element{}, &ConfigurationError{
			Component: component,
			Reason:    ReasonSingleChild,
			Count:     count,
		}
	}
	for _, child := range children {
		if !child.IsZero() {
			return child, nil
		}
	}
	return Element{}, &ConfigurationError{Component: component, Reason: ReasonSingleChild}
}
