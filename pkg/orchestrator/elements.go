package orchestrator

import (
	"fmt"

	"github.com/goliatone/go-refs/pkg/reference"
	"github.com/goliatone/go-refs/pkg/render"
	"github.com/goliatone/go-refs/pkg/schema"
)

// Element builds the element tree for a child definition. Children named
// "reference" or "reference_array" become nested reference fields configured
// through their props (source, reference, link, allowEmpty, translateChoice,
// className, label); everything else resolves against the component registry.
func (o *Orchestrator) Element(def schema.ChildDefinition) (render.Element, error) {
	children := make([]render.Element, 0, len(def.Children))
	for _, nested := range def.Children {
		child, err := o.Element(nested)
		if err != nil {
			return render.Element{}, err
		}
		children = append(children, child)
	}

	props := render.Props(def.Props).Clone()
	if !def.IsReference() {
		return o.components.Element(def.Component, props, children...)
	}

	kind, _ := schema.ParseKind(def.Component)
	if kind == schema.KindReferenceArray {
		return o.references.ArrayFieldElement(reference.ArrayFieldProps{
			Source:    props.String(render.PropSource),
			Reference: props.String("reference"),
			ClassName: props.String(render.PropClassName),
			Label:     props.String(render.PropLabel),
		}, children...), nil
	}

	link, err := schema.ParseLink(linkSetting(props))
	if err != nil {
		return render.Element{}, fmt.Errorf("nested reference %q: %w", props.String(render.PropSource), err)
	}
	return o.references.FieldElement(reference.FieldProps{
		Source:          props.String(render.PropSource),
		Reference:       props.String("reference"),
		ClassName:       props.String(render.PropClassName),
		Label:           props.String(render.PropLabel),
		LinkType:        link,
		AllowEmpty:      props.Bool(render.PropAllowEmpty),
		TranslateChoice: props.Bool(render.PropTranslateChoice),
	}, children...), nil
}

func linkSetting(props render.Props) any {
	if value, ok := props["link"]; ok {
		return value
	}
	if value, ok := props[render.PropLinkType]; ok {
		return value
	}
	return nil
}
