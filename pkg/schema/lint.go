package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var referenceSettingKeys = map[string]string{
	"link":            "",
	"allowEmpty":      "bool",
	"translateChoice": "bool",
	"label":           "string",
	"className":       "string",
	"display":         "string",
	"child":           "object",
}

// Issue is a problem found in a definition source.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	return i.Location + " -> " + i.Message
}

// LintOpenAPI reports unsupported or malformed x-relationships and
// x-reference extensions on component schema properties. A document that
// loads but cannot produce definitions yields a single issue with the build
// error.
func LintOpenAPI(ctx context.Context, data []byte) ([]Issue, error) {
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}

	var issues []Issue
	if spec.Components != nil {
		for schemaName, ref := range spec.Components.Schemas {
			if ref == nil || ref.Value == nil {
				continue
			}
			for propName, prop := range ref.Value.Properties {
				if prop == nil || prop.Value == nil {
					continue
				}
				location := schemaName + " > properties." + propName
				issues = append(issues, lintRelationship(location, prop.Value.Extensions)...)
				issues = append(issues, lintReferenceSettings(location, prop.Value.Extensions)...)
			}
		}
	}

	if _, err := FromOpenAPI(ctx, data); err != nil {
		issues = append(issues, Issue{Location: "document", Message: err.Error()})
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Location == issues[j].Location {
			return issues[i].Message < issues[j].Message
		}
		return issues[i].Location < issues[j].Location
	})
	return issues, nil
}

func lintRelationship(location string, extensions map[string]any) []Issue {
	raw, ok := extensions[relationshipExtensionKey]
	if !ok {
		if _, hasSettings := extensions[referenceExtensionKey]; hasSettings {
			return []Issue{{Location: location, Message: referenceExtensionKey + " without " + relationshipExtensionKey + " is ignored"}}
		}
		return nil
	}
	mapped, ok := raw.(map[string]any)
	if !ok {
		return []Issue{{Location: location, Message: fmt.Sprintf("%s must be an object, found %T", relationshipExtensionKey, raw)}}
	}

	var issues []Issue
	for key, value := range mapped {
		if _, known := relationshipKeyLookup[normaliseKey(key)]; !known {
			issues = append(issues, Issue{Location: location, Message: fmt.Sprintf("unsupported %s key %q", relationshipExtensionKey, key)})
			continue
		}
		if _, isString := value.(string); !isString {
			issues = append(issues, Issue{Location: location, Message: fmt.Sprintf("%s key %q must be a string (got %T)", relationshipExtensionKey, key, value)})
		}
	}
	if rel := relationshipFromExtension(raw); rel["target"] == "" {
		issues = append(issues, Issue{Location: location, Message: relationshipExtensionKey + " requires a target"})
	}
	return issues
}

func lintReferenceSettings(location string, extensions map[string]any) []Issue {
	raw, ok := extensions[referenceExtensionKey]
	if !ok {
		return nil
	}
	settings, ok := raw.(map[string]any)
	if !ok {
		return []Issue{{Location: location, Message: fmt.Sprintf("%s must be an object, found %T", referenceExtensionKey, raw)}}
	}

	var issues []Issue
	for key, value := range settings {
		want, known := referenceSettingKeys[key]
		if !known {
			issues = append(issues, Issue{Location: location, Message: fmt.Sprintf("unsupported %s key %q (supported: %s)", referenceExtensionKey, key, supportedSettingKeys())})
			continue
		}
		if key == "link" {
			if _, err := ParseLink(value); err != nil {
				issues = append(issues, Issue{Location: location, Message: err.Error()})
			}
			continue
		}
		if got := valueKind(value); got != want {
			issues = append(issues, Issue{Location: location, Message: fmt.Sprintf("%s key %q must be a %s (got %T)", referenceExtensionKey, key, want, value)})
		}
	}
	return issues
}

func supportedSettingKeys() string {
	keys := make([]string, 0, len(referenceSettingKeys))
	for key := range referenceSettingKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func valueKind(value any) string {
	switch value.(type) {
	case bool:
		return "bool"
	case string:
		return "string"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
