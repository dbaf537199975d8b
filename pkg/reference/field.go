package reference

import (
	"context"
	"fmt"

	"github.com/goliatone/go-refs/pkg/controller"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
)

// FieldProps configure a ReferenceField.
type FieldProps struct {
	// Record is the current record holding the identifier.
	Record record.Record
	// Source names the field of Record holding the identifier. Required.
	Source string
	// Reference is the resource the identifier points to. Required.
	Reference string
	// Resource is the resource of Record; used to derive the link path.
	Resource  string
	BasePath  string
	ClassName string
	Label     string
	// LinkType defaults to LinkEdit.
	LinkType        LinkType
	AllowEmpty      bool
	TranslateChoice bool
	// Rest is forwarded to the child after SanitizeRestProps.
	Rest render.Props
}

// FieldViewProps is the input of ReferenceFieldView: the wrapper props
// combined with the controller outcome.
type FieldViewProps struct {
	Children         []render.Element
	State            controller.LoadState
	Deferred         bool
	ID               record.Identifier
	ReferenceRecord  record.Record
	Reference        string
	Source           string
	BasePath         string
	ResourceLinkPath string
	ClassName        string
	AllowEmpty       bool
	TranslateChoice  bool
	Rest             render.Props
}

// ReferenceField fetches the record referenced by props.Source and renders the
// single child with it.
func (r *Renderer) ReferenceField(ctx context.Context, props FieldProps, children ...render.Element) (string, error) {
	if _, err := render.OnlyChild(NameReferenceField, children); err != nil {
		return "", err
	}
	if err := render.RequireProp(NameReferenceField, "reference", props.Reference); err != nil {
		return "", err
	}
	if err := render.RequireProp(NameReferenceField, "source", props.Source); err != nil {
		return "", err
	}

	state := r.controller.Reference(ctx, controller.ReferenceInput{
		Record:     props.Record,
		Source:     props.Source,
		Reference:  props.Reference,
		Resource:   props.Resource,
		BasePath:   props.BasePath,
		LinkType:   props.LinkType,
		AllowEmpty: props.AllowEmpty,
	})
	if !state.State.Loaded() {
		r.logger.Debug("reference not loaded",
			"reference", props.Reference,
			"source", props.Source,
			"state", state.State.String(),
			"deferred", state.Deferred,
		)
	}

	return r.ReferenceFieldView(ctx, FieldViewProps{
		Children:         children,
		State:            state.State,
		Deferred:         state.Deferred,
		ID:               state.ID,
		ReferenceRecord:  state.Record,
		Reference:        props.Reference,
		Source:           props.Source,
		BasePath:         props.BasePath,
		ResourceLinkPath: state.LinkPath,
		ClassName:        props.ClassName,
		AllowEmpty:       props.AllowEmpty,
		TranslateChoice:  props.TranslateChoice,
		Rest:             props.Rest,
	})
}

// ReferenceFieldView renders the progress indicator until the reference is
// loaded, then the single child, wrapped in a link when ResourceLinkPath is
// set.
func (r *Renderer) ReferenceFieldView(ctx context.Context, props FieldViewProps) (string, error) {
	child, err := render.OnlyChild(NameReferenceField, props.Children)
	if err != nil {
		return "", err
	}

	if !props.State.Loaded() {
		data := progressData{
			pending:   props.Deferred,
			reference: props.Reference,
			source:    props.Source,
			linkPath:  props.ResourceLinkPath,
			display:   child.Props.String(render.PropSource),
		}
		if record.Key(props.ID) != "" {
			data.ids = []record.Identifier{props.ID}
		}
		return r.renderProgress(ctx, data)
	}

	injected := SanitizeRestProps(props.Rest)
	injected[render.PropRecord] = props.ReferenceRecord
	injected[render.PropResource] = props.Reference
	injected[render.PropAllowEmpty] = props.AllowEmpty
	injected[render.PropBasePath] = props.BasePath
	injected[render.PropTranslateChoice] = props.TranslateChoice

	if props.ResourceLinkPath == "" {
		return renderChild(ctx, child, injected)
	}

	linkClass := render.OptionsFrom(ctx).Token(TokenLinkClass, DefaultLinkClass)
	injected[render.PropClassName] = joinClasses(child.Props.String(render.PropClassName), linkClass)

	inner, err := renderChild(ctx, child, injected)
	if err != nil {
		return "", err
	}
	return r.renderLink(ctx, props.ResourceLinkPath, props.ClassName, inner)
}

func renderChild(ctx context.Context, child render.Element, injected render.Props) (string, error) {
	out, err := child.Clone(injected).Render(ctx)
	if err != nil {
		return "", fmt.Errorf("reference: render child %q: %w", child.Type, err)
	}
	return out, nil
}
