package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-refs/pkg/render"
)

const (
	templatePrefix = "templates/components/"

	// StylesheetName is the shared stylesheet every built-in component declares.
	StylesheetName = "refs-vanilla.css"
	// DatagridScriptName handles data-row-click navigation.
	DatagridScriptName = "refs-datagrid.js"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// child components.
func NewDefaultRegistry() *Registry {
	registry := New()
	styles := []string{StylesheetName}

	registry.MustRegister(NameText, Descriptor{
		Renderer:    valueRenderer("refs.text", templatePrefix+"text.tmpl", "refs-text"),
		Stylesheets: styles,
	})
	registry.MustRegister(NameChip, Descriptor{
		Renderer:    valueRenderer("refs.chip", templatePrefix+"chip.tmpl", "refs-chip"),
		Stylesheets: styles,
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer:    selectRenderer,
		Stylesheets: styles,
	})
	registry.MustRegister(NameRichText, Descriptor{
		Renderer:    richTextRenderer,
		Stylesheets: styles,
	})
	registry.MustRegister(NameSingleFieldList, Descriptor{
		Renderer:    singleFieldListRenderer,
		Stylesheets: styles,
	})
	registry.MustRegister(NameDatagrid, Descriptor{
		Renderer:    datagridRenderer,
		Stylesheets: styles,
		Scripts:     []Script{{Src: DatagridScriptName, Defer: true}},
	})

	return registry
}

func renderTemplate(buf *bytes.Buffer, data ComponentData, partialKey, templateName string, payload map[string]any) error {
	if data.Template == nil {
		return fmt.Errorf("components: template renderer not configured for %q", templateName)
	}

	resolvedTemplate := templateName
	if data.ThemePartials != nil {
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}
	}

	rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
	if err != nil {
		return fmt.Errorf("components: render template %q: %w", templateName, err)
	}
	buf.WriteString(strings.TrimSpace(rendered))
	return nil
}

// valueRenderer renders the value at props["source"] of the injected record.
func valueRenderer(partialKey, templateName, baseClass string) Renderer {
	return func(buf *bytes.Buffer, props render.Props, data ComponentData) error {
		value := props.Record().String(props.String(render.PropSource))
		if value == "" {
			value = props.String("emptyText")
		}
		return renderTemplate(buf, data, partialKey, templateName, map[string]any{
			"value":     value,
			"className": classList(baseClass, props.String(render.PropClassName)),
			"source":    props.String(render.PropSource),
		})
	}
}

func selectRenderer(buf *bytes.Buffer, props render.Props, data ComponentData) error {
	source := props.String(render.PropSource)
	value, ok := props.Record().Get(source)

	label := ""
	if ok {
		if choice, found := findChoice(props, value); found {
			label = choice
			if props.Bool(render.PropTranslateChoice) {
				label = data.translate(choice, choice)
			}
		}
	}
	if label == "" {
		label = props.String("emptyText")
	}

	return renderTemplate(buf, data, "refs.select", templatePrefix+"select.tmpl", map[string]any{
		"value":     label,
		"className": classList("refs-select", props.String(render.PropClassName)),
		"source":    source,
	})
}

func richTextRenderer(buf *bytes.Buffer, props render.Props, data ComponentData) error {
	raw := props.Record().String(props.String(render.PropSource))

	policy := ugcSanitizer()
	if props.Bool("stripTags") {
		policy = strictSanitizer()
	}
	cleaned := strings.TrimSpace(policy.Sanitize(raw))

	return renderTemplate(buf, data, "refs.rich_text", templatePrefix+"rich_text.tmpl", map[string]any{
		"html":      cleaned,
		"className": classList("refs-rich-text", props.String(render.PropClassName)),
	})
}
