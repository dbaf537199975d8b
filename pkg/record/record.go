// Package record holds the loosely typed records references resolve to and
// the identifier helpers that key them (Key, Keys, Identifiers).
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// IDField is the key holding a record identifier.
const IDField = "id"

// Identifier is a string or number uniquely identifying a Record within a
// resource.
type Identifier = any

// Record is an arbitrary keyed mapping representing one entity of a resource.
type Record map[string]any

// ID returns the record identifier and whether it was present.
func (r Record) ID() (Identifier, bool) {
	if r == nil {
		return nil, false
	}
	id, ok := r[IDField]
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}

// Key returns the canonical key of the record identifier, or "" when the record
// has no identifier.
func (r Record) Key() string {
	id, ok := r.ID()
	if !ok {
		return ""
	}
	return Key(id)
}

// Get resolves a dotted path ("author.id") against the record. Missing
// segments and nil values report false.
func (r Record) Get(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if r == nil || path == "" {
		return nil, false
	}
	if value, ok := r[path]; ok {
		return value, value != nil
	}

	var current any = map[string]any(r)
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, false
		}
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, current != nil
}

// String returns the value at path formatted for display.
func (r Record) String(path string) string {
	value, ok := r.Get(path)
	if !ok {
		return ""
	}
	return Format(value)
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

func step(current any, segment string) (any, bool) {
	switch typed := current.(type) {
	case Record:
		value, ok := typed[segment]
		return value, ok
	case map[string]any:
		value, ok := typed[segment]
		return value, ok
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(typed) {
			return nil, false
		}
		return typed[idx], true
	}

	value := reflect.ValueOf(current)
	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := value.MapIndex(reflect.ValueOf(segment).Convert(value.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= value.Len() {
			return nil, false
		}
		return value.Index(idx).Interface(), true
	}
	return nil, false
}

// Key returns the canonical map key for an identifier. Numbers and their
// decimal string form share a key, so 456, 456.0 and "456" all map to "456".
func Key(id Identifier) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format renders a value for display: identifiers through Key, everything
// else through fmt.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return Key(v)
	default:
		return fmt.Sprint(v)
	}
}

// Identifiers coerces a source value into an ordered identifier list. Slices of
// any element type are accepted, nil entries are dropped, and a scalar becomes
// a one-element list.
func Identifiers(value any) []Identifier {
	switch v := value.(type) {
	case nil:
		return nil
	case []Identifier:
		return compact(v)
	case []string:
		out := make([]Identifier, 0, len(v))
		for _, id := range v {
			out = append(out, id)
		}
		return compact(out)
	case []int:
		out := make([]Identifier, 0, len(v))
		for _, id := range v {
			out = append(out, id)
		}
		return out
	case []float64:
		out := make([]Identifier, 0, len(v))
		for _, id := range v {
			out = append(out, id)
		}
		return out
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]Identifier, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, rv.Index(i).Interface())
		}
		return compact(out)
	}
	if Key(value) == "" {
		return nil
	}
	return []Identifier{value}
}

func compact(ids []Identifier) []Identifier {
	out := make([]Identifier, 0, len(ids))
	for _, id := range ids {
		if id == nil || Key(id) == "" {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Keys maps identifiers to their canonical keys.
func Keys(ids []Identifier) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, Key(id))
	}
	return out
}
