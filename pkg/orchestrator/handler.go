package orchestrator

import (
	"net/http"

	"github.com/goliatone/go-refs/components/references"
	"github.com/goliatone/go-refs/pkg/schema"
)

// ReferencesComponent returns the lookup endpoint the browser runtime calls to
// hydrate deferred fields. Lookups share the orchestrator's accumulator and
// store, and are limited to resources named by the loaded definitions unless
// fns override the allow list.
func (o *Orchestrator) ReferencesComponent(fns ...references.OptionFn) *references.Component {
	base := []references.OptionFn{references.WithResources(o.resources()...)}
	if o.accumulator != nil {
		base = append(base, references.WithFetcher(o.accumulator))
	}
	return references.New(append(base, fns...)...)
}

// ReferencesHandler is shorthand for ReferencesComponent(fns...).Handler().
func (o *Orchestrator) ReferencesHandler(fns ...references.OptionFn) http.Handler {
	return o.ReferencesComponent(fns...).Handler()
}

// resources lists every resource a definition can reference, nested children
// included.
func (o *Orchestrator) resources() []string {
	seen := map[string]struct{}{}
	out := []string{}
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if o.definitions == nil {
		return out
	}
	for _, name := range o.definitions.Names() {
		def, ok := o.definitions.Definition(name)
		if !ok {
			continue
		}
		add(def.Reference)
		collectChildReferences(def.Child, add)
	}
	return out
}

func collectChildReferences(child schema.ChildDefinition, add func(string)) {
	if child.IsReference() {
		if reference, ok := child.Props["reference"].(string); ok {
			add(reference)
		}
	}
	for _, nested := range child.Children {
		collectChildReferences(nested, add)
	}
}
