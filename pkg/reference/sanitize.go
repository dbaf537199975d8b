package reference

import "github.com/goliatone/go-refs/pkg/render"

var internalProps = map[string]struct{}{
	"addLabel":         {},
	"allowEmpty":       {},
	"basePath":         {},
	"cellClassName":    {},
	"className":        {},
	"formClassName":    {},
	"headerClassName":  {},
	"label":            {},
	"linkType":         {},
	"link":             {},
	"locale":           {},
	"record":           {},
	"resource":         {},
	"sortable":         {},
	"sortBy":           {},
	"source":           {},
	"textAlign":        {},
	"translateChoice":  {},
	"children":         {},
	"classes":          {},
	"loaded":           {},
	"reference":        {},
	"referenceRecord":  {},
	"resourceLinkPath": {},
}

// SanitizeRestProps returns a copy of props without the keys reserved for
// field wrappers, so only caller-specific extras reach the child.
func SanitizeRestProps(props render.Props) render.Props {
	out := make(render.Props, len(props))
	for key, value := range props {
		if _, internal := internalProps[key]; internal {
			continue
		}
		out[key] = value
	}
	return out
}
