package gotemplate

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// toContext flattens template data into plain maps, slices and JSON scalars
// so pongo2 can resolve dotted lookups on records and structs alike. Func
// values pass through untouched.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	top, ok := asMap(data)
	if !ok {
		decoded, err := roundTrip(data)
		if err != nil {
			return nil, err
		}
		top, _ = decoded.(map[string]any)
	}

	ctx := make(pongo2.Context, len(top))
	for key, value := range top {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		plain, err := plainValue(value)
		if err != nil {
			return nil, err
		}
		ctx[key] = plain
	}
	return ctx, nil
}

func plainValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if reflect.TypeOf(value).Kind() == reflect.Func {
		return value, nil
	}
	if m, ok := asMap(value); ok {
		out := make(map[string]any, len(m))
		for key, item := range m {
			plain, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = plain
		}
		return out, nil
	}
	if list, ok := value.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			plain, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = plain
		}
		return out, nil
	}

	decoded, err := roundTrip(value)
	if err != nil {
		return nil, err
	}
	switch decoded.(type) {
	case map[string]any, []any:
		return plainValue(decoded)
	default:
		return decoded, nil
	}
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case pongo2.Context:
		return map[string]any(v), true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

func roundTrip(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
