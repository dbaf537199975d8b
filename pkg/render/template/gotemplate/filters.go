package gotemplate

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var filtersOnce sync.Once

func registerFilters() {
	filtersOnce.Do(func() {
		for name, fn := range map[string]pongo2.FilterFunction{
			"classnames": classNames,
			"trim":       trim,
		} {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}
	})
}

// classNames merges class lists, keeping the first occurrence of each token:
//
//	{{ className|classnames:"refs-link" }}
func classNames(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	seen := map[string]bool{}
	var tokens []string
	for _, v := range []*pongo2.Value{in, param} {
		if v == nil || v.IsNil() {
			continue
		}
		for _, token := range strings.Fields(v.String()) {
			if !seen[token] {
				seen[token] = true
				tokens = append(tokens, token)
			}
		}
	}
	return pongo2.AsValue(strings.Join(tokens, " ")), nil
}

func trim(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in == nil || in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}
