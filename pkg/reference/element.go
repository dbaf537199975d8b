package reference

import (
	"context"

	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
)

// FieldElement wraps a ReferenceField as an element so it can be nested inside
// list children. The record, basePath and resource injected by the parent at
// render time take precedence over the ones in props; any other injected prop
// is forwarded through Rest.
func (r *Renderer) FieldElement(props FieldProps, children ...render.Element) render.Element {
	component := render.ComponentFunc(func(ctx context.Context, injected render.Props) (string, error) {
		p := props
		applyInjected(&p.Record, &p.BasePath, &p.Resource, injected)
		p.Rest = props.Rest.Merge(injected)
		return r.ReferenceField(ctx, p, injected.Children()...)
	})
	return render.NewElement(NameReferenceField, component, elementProps(props.Source, props.Label, props.ClassName, render.Props{
		render.PropLinkType: string(props.LinkType),
	}), children...)
}

// ArrayFieldElement wraps a ReferenceArrayField as an element.
func (r *Renderer) ArrayFieldElement(props ArrayFieldProps, children ...render.Element) render.Element {
	component := render.ComponentFunc(func(ctx context.Context, injected render.Props) (string, error) {
		p := props
		applyInjected(&p.Record, &p.BasePath, &p.Resource, injected)
		return r.ReferenceArrayField(ctx, p, injected.Children()...)
	})
	return render.NewElement(NameReferenceArrayField, component, elementProps(props.Source, props.Label, props.ClassName, nil), children...)
}

func applyInjected(rec *record.Record, basePath, resource *string, injected render.Props) {
	if injectedRecord := injected.Record(); injectedRecord != nil {
		*rec = injectedRecord
	}
	if value := injected.String(render.PropBasePath); value != "" {
		*basePath = value
	}
	if value := injected.String(render.PropResource); value != "" {
		*resource = value
	}
}

func elementProps(source, label, className string, extra render.Props) render.Props {
	props := render.Props{render.PropSource: source}
	if label != "" {
		props[render.PropLabel] = label
	}
	if className != "" {
		props[render.PropClassName] = className
	}
	for key, value := range extra {
		if value != "" {
			props[key] = value
		}
	}
	return props
}
