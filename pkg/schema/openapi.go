package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-refs/pkg/controller"
)

const (
	relationshipExtensionKey = "x-relationships"
	referenceExtensionKey    = "x-reference"
	resourceExtensionKey     = "x-resource"

	componentSchemaPrefix = "#/components/schemas/"

	defaultDisplaySource = "id"
)

var relationshipKeyLookup = map[string]string{
	"type":        "type",
	"kind":        "type",
	"target":      "target",
	"cardinality": "cardinality",
	"sourcefield": "sourceField",
	"foreignkey":  "sourceField",
}

// FromOpenAPI derives reference definitions from the x-relationships
// extensions of component schema properties. Definitions are named
// "<resource>.<property>". The optional x-reference extension on the same
// property overrides link, allowEmpty, translateChoice, label, className,
// display and child.
func FromOpenAPI(ctx context.Context, data []byte) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}

	set, _ := NewSet()
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return set, nil
	}

	schemas := spec.Components.Schemas
	resources := make(map[string]string, len(schemas))
	for name, ref := range schemas {
		resources[name] = resourceName(name, ref)
	}

	schemaNames := make([]string, 0, len(schemas))
	for name := range schemas {
		schemaNames = append(schemaNames, name)
	}
	sort.Strings(schemaNames)

	for _, schemaName := range schemaNames {
		ref := schemas[schemaName]
		if ref == nil || ref.Value == nil {
			continue
		}
		resource := resources[schemaName]

		propNames := make([]string, 0, len(ref.Value.Properties))
		for name := range ref.Value.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, propName := range propNames {
			prop := ref.Value.Properties[propName]
			if prop == nil || prop.Value == nil {
				continue
			}
			rel := relationshipFromExtension(prop.Value.Extensions[relationshipExtensionKey])
			if len(rel) == 0 {
				continue
			}
			def, err := definitionFromProperty(resource, propName, prop.Value, rel, resources)
			if err != nil {
				return nil, fmt.Errorf("schema: %s.%s: %w", schemaName, propName, err)
			}
			def.Origin = "openapi:" + schemaName
			if err := set.add(def); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func definitionFromProperty(resource, propName string, prop *openapi3.Schema, rel map[string]string, resources map[string]string) (Definition, error) {
	kind, err := relationshipKind(rel, prop)
	if err != nil {
		return Definition{}, err
	}

	target := strings.TrimSpace(rel["target"])
	if target == "" {
		return Definition{}, errors.New("relationship target is required")
	}
	if strings.HasPrefix(target, componentSchemaPrefix) {
		target = strings.TrimPrefix(target, componentSchemaPrefix)
	}
	if mapped, ok := resources[target]; ok {
		target = mapped
	}

	source := strings.TrimSpace(rel["sourceField"])
	if source == "" {
		source = propName
	}

	def := Definition{
		Name:      resource + "." + propName,
		Kind:      kind,
		Resource:  resource,
		Source:    source,
		Reference: target,
		Link:      controller.LinkEdit,
	}

	settings, _ := prop.Extensions[referenceExtensionKey].(map[string]any)
	if err := applyReferenceSettings(&def, settings); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func relationshipKind(rel map[string]string, prop *openapi3.Schema) (Kind, error) {
	if raw := rel["type"]; raw != "" {
		return ParseKind(raw)
	}
	if raw := rel["cardinality"]; raw != "" {
		return ParseKind(raw)
	}
	if prop.Type != nil && prop.Type.Is(openapi3.TypeArray) {
		return KindReferenceArray, nil
	}
	return KindReference, nil
}

func applyReferenceSettings(def *Definition, settings map[string]any) error {
	display := defaultDisplaySource
	if len(settings) > 0 {
		link, err := ParseLink(settings["link"])
		if err != nil {
			return err
		}
		def.Link = link
		def.AllowEmpty, _ = settings["allowEmpty"].(bool)
		def.TranslateChoice, _ = settings["translateChoice"].(bool)
		def.Label, _ = settings["label"].(string)
		def.ClassName, _ = settings["className"].(string)
		if value, ok := settings["display"].(string); ok && strings.TrimSpace(value) != "" {
			display = strings.TrimSpace(value)
		}
		if raw, ok := settings["child"].(map[string]any); ok {
			child, err := childFromMap(raw)
			if err != nil {
				return err
			}
			def.Child = child
			return nil
		}
	}
	def.Child = defaultChild(def.Kind, display)
	return nil
}

func defaultChild(kind Kind, display string) ChildDefinition {
	if kind == KindReferenceArray {
		return ChildDefinition{
			Component: "single_field_list",
			Children: []ChildDefinition{{
				Component: "chip",
				Props:     map[string]any{"source": display},
			}},
		}
	}
	return ChildDefinition{
		Component: "text",
		Props:     map[string]any{"source": display},
	}
}

func childFromMap(raw map[string]any) (ChildDefinition, error) {
	component, _ := raw["component"].(string)
	if strings.TrimSpace(component) == "" {
		return ChildDefinition{}, errors.New("x-reference child requires a component")
	}
	child := ChildDefinition{Component: strings.TrimSpace(component)}
	if props, ok := raw["props"].(map[string]any); ok {
		child.Props = cloneProps(props)
	}
	if nested, ok := raw["children"].([]any); ok {
		for _, item := range nested {
			entry, ok := item.(map[string]any)
			if !ok {
				return ChildDefinition{}, fmt.Errorf("x-reference child entry must be an object, got %T", item)
			}
			parsed, err := childFromMap(entry)
			if err != nil {
				return ChildDefinition{}, err
			}
			child.Children = append(child.Children, parsed)
		}
	}
	return child, nil
}

func resourceName(schemaName string, ref *openapi3.SchemaRef) string {
	if ref != nil && ref.Value != nil {
		if value, ok := ref.Value.Extensions[resourceExtensionKey].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return strings.ToLower(schemaName)
}

// relationshipFromExtension canonicalises the x-relationships keys so
// "source_field", "sourceField" and "SourceField" all land on sourceField.
func relationshipFromExtension(raw any) map[string]string {
	mapped, ok := raw.(map[string]any)
	if !ok || len(mapped) == 0 {
		return nil
	}
	result := make(map[string]string, len(mapped))
	for key, value := range mapped {
		canonical, ok := relationshipKeyLookup[normaliseKey(key)]
		if !ok {
			continue
		}
		str, ok := value.(string)
		if !ok || strings.TrimSpace(str) == "" {
			continue
		}
		result[canonical] = strings.TrimSpace(str)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
