package reference

import (
	"context"

	"github.com/goliatone/go-refs/pkg/controller"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
)

// ArrayFieldProps configure a ReferenceArrayField.
type ArrayFieldProps struct {
	Record record.Record
	// Source names the field of Record holding the identifier list. Required.
	Source string
	// Reference is the resource the identifiers point to. Required.
	Reference string
	Resource  string
	BasePath  string
	ClassName string
	Label     string
}

// ArrayViewProps is the input of ReferenceArrayFieldView.
type ArrayViewProps struct {
	Children          []render.Element
	Loaded            bool
	Deferred          bool
	IDs               []record.Identifier
	Data              map[string]record.Record
	Reference         string
	Source            string
	ReferenceBasePath string
	ClassName         string
}

// ReferenceArrayField fetches the records listed in props.Source and hands
// them to the single child, typically a list such as a datagrid.
func (r *Renderer) ReferenceArrayField(ctx context.Context, props ArrayFieldProps, children ...render.Element) (string, error) {
	if _, err := render.OnlyChild(NameReferenceArrayField, children); err != nil {
		return "", err
	}
	if err := render.RequireProp(NameReferenceArrayField, "reference", props.Reference); err != nil {
		return "", err
	}
	if err := render.RequireProp(NameReferenceArrayField, "source", props.Source); err != nil {
		return "", err
	}

	state := r.controller.ReferenceArray(ctx, controller.ArrayInput{
		Record:    props.Record,
		Source:    props.Source,
		Reference: props.Reference,
		Resource:  props.Resource,
		BasePath:  props.BasePath,
	})
	if !state.State.Loaded() {
		r.logger.Debug("reference array not loaded",
			"reference", props.Reference,
			"source", props.Source,
			"resolved", state.Resolved,
			"requested", state.Requested,
			"deferred", state.Deferred,
		)
	}

	return r.ReferenceArrayFieldView(ctx, ArrayViewProps{
		Children:          children,
		Loaded:            state.State.Loaded(),
		Deferred:          state.Deferred,
		IDs:               state.IDs,
		Data:              state.Data,
		Reference:         props.Reference,
		Source:            props.Source,
		ReferenceBasePath: state.BasePath,
		ClassName:         props.ClassName,
	})
}

// ReferenceArrayFieldView renders the progress indicator until loaded, then
// the single child with the resolved ids and data. Only the list props are
// injected; nothing else from the parent reaches the child.
func (r *Renderer) ReferenceArrayFieldView(ctx context.Context, props ArrayViewProps) (string, error) {
	child, err := render.OnlyChild(NameReferenceArrayField, props.Children)
	if err != nil {
		return "", err
	}

	if !props.Loaded {
		return r.renderProgress(ctx, progressData{
			className: arrayProgressClass,
			pending:   props.Deferred,
			reference: props.Reference,
			source:    props.Source,
			ids:       props.IDs,
		})
	}

	ids := props.IDs
	if ids == nil {
		ids = []record.Identifier{}
	}
	data := props.Data
	if data == nil {
		data = map[string]record.Record{}
	}

	return renderChild(ctx, child, render.Props{
		render.PropIDs:         ids,
		render.PropData:        data,
		render.PropLoaded:      props.Loaded,
		render.PropBasePath:    props.ReferenceBasePath,
		render.PropCurrentSort: render.Sort{},
		render.PropClassName:   props.ClassName,
		render.PropResource:    props.Reference,
	})
}
