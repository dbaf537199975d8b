package components

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-refs/pkg/controller"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
)

// listRow is one resolved entry of a list component.
type listRow struct {
	id     record.Identifier
	record record.Record
}

// listRows walks ids in order, skipping identifiers without data.
func listRows(props render.Props) []listRow {
	data := props.Data()
	ids := props.IDs()
	rows := make([]listRow, 0, len(ids))
	for _, id := range ids {
		rec, ok := data[record.Key(id)]
		if !ok {
			continue
		}
		rows = append(rows, listRow{id: id, record: rec})
	}
	return rows
}

func rowOverrides(props render.Props, row listRow) render.Props {
	return render.Props{
		render.PropRecord:   row.record,
		render.PropResource: props.String(render.PropResource),
		render.PropBasePath: props.String(render.PropBasePath),
	}
}

// maxCellWorkers bounds the cells rendered at once by a list component.
const maxCellWorkers = 64

// renderCells renders n cells concurrently and returns them in index order.
// Reference fields in different rows then reach the fetch accumulator within
// the same window and share one batch.
func renderCells(n int, cell func(i int) (string, error)) ([]string, error) {
	out := make([]string, n)
	if n == 1 {
		markup, err := cell(0)
		out[0] = markup
		return out, err
	}

	var g errgroup.Group
	g.SetLimit(maxCellWorkers)
	for i := range n {
		g.Go(func() error {
			markup, err := cell(i)
			if err != nil {
				return err
			}
			out[i] = markup
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func renderChild(data ComponentData, child render.Element, overrides render.Props) (string, error) {
	if data.RenderChild != nil {
		return data.RenderChild(child, overrides)
	}
	return child.Clone(overrides).Render(data.Context)
}

// singleFieldListRenderer renders its single child once per record, each
// wrapped in a link unless linkType is "none"/"false".
func singleFieldListRenderer(buf *bytes.Buffer, props render.Props, data ComponentData) error {
	child, err := render.OnlyChild("SingleFieldList", props.Children())
	if err != nil {
		return err
	}
	linkType, err := controller.ParseLinkType(props.String(render.PropLinkType))
	if err != nil {
		return fmt.Errorf("components: single_field_list: %w", err)
	}
	basePath := props.String(render.PropBasePath)

	var builder strings.Builder
	builder.WriteString(`<div`)
	writeAttr(&builder, "class", classList("refs-single-field-list", props.String(render.PropClassName)))
	builder.WriteString(`>`)

	rows := listRows(props)
	cells, err := renderCells(len(rows), func(i int) (string, error) {
		return renderChild(data, child, rowOverrides(props, rows[i]))
	})
	if err != nil {
		return err
	}

	for i, row := range rows {
		inner := cells[i]
		if !linkType.Enabled() {
			builder.WriteString(inner)
			continue
		}
		builder.WriteString(`<a`)
		writeAttr(&builder, "href", controller.LinkToRecord(basePath, row.id, linkType))
		writeAttr(&builder, "class", "refs-list-link")
		builder.WriteString(` onclick="event.stopPropagation()" data-stop-propagation="true">`)
		builder.WriteString(inner)
		builder.WriteString(`</a>`)
	}

	builder.WriteString(`</div>`)
	buf.WriteString(builder.String())
	return nil
}

// datagridRenderer renders a table whose columns are the child elements.
func datagridRenderer(buf *bytes.Buffer, props render.Props, data ComponentData) error {
	columns := make([]render.Element, 0, len(props.Children()))
	for _, column := range props.Children() {
		if !column.IsZero() {
			columns = append(columns, column)
		}
	}
	if len(columns) == 0 {
		return &render.ConfigurationError{Component: "Datagrid", Reason: render.ReasonRequiredProp, Prop: render.PropChildren}
	}

	rows := listRows(props)
	if len(rows) == 0 {
		fmt.Fprintf(buf, `<p class="refs-datagrid-empty">%s</p>`, html.EscapeString(data.translate("refs.datagrid.empty", "No results")))
		return nil
	}

	var rowLink controller.LinkType
	if rowClick := props.String("rowClick"); rowClick != "" {
		parsed, err := controller.ParseLinkType(rowClick)
		if err != nil {
			return fmt.Errorf("components: datagrid: %w", err)
		}
		rowLink = parsed
	}
	basePath := props.String(render.PropBasePath)

	var builder strings.Builder
	builder.WriteString(`<table`)
	writeAttr(&builder, "class", classList("refs-datagrid", props.String(render.PropClassName)))
	builder.WriteString(`><thead><tr>`)
	for _, column := range columns {
		header := column.Props.String(render.PropLabel)
		if header == "" {
			header = column.Props.String(render.PropSource)
		}
		builder.WriteString(`<th`)
		writeAttr(&builder, "class", column.Props.String("headerClassName"))
		builder.WriteString(`>`)
		builder.WriteString(html.EscapeString(header))
		builder.WriteString(`</th>`)
	}
	builder.WriteString(`</tr></thead><tbody>`)

	cells, err := renderCells(len(rows)*len(columns), func(i int) (string, error) {
		return renderChild(data, columns[i%len(columns)], rowOverrides(props, rows[i/len(columns)]))
	})
	if err != nil {
		return err
	}

	for r, row := range rows {
		builder.WriteString(`<tr`)
		writeAttr(&builder, "data-id", record.Key(row.id))
		if rowLink != "" && rowLink.Enabled() {
			writeAttr(&builder, "data-row-click", controller.LinkToRecord(basePath, row.id, rowLink))
		}
		builder.WriteString(`>`)
		for c, column := range columns {
			builder.WriteString(`<td`)
			writeAttr(&builder, "class", column.Props.String("cellClassName"))
			builder.WriteString(`>`)
			builder.WriteString(cells[r*len(columns)+c])
			builder.WriteString(`</td>`)
		}
		builder.WriteString(`</tr>`)
	}

	builder.WriteString(`</tbody></table>`)
	buf.WriteString(builder.String())
	return nil
}
