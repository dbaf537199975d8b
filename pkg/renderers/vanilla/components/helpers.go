package components

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
)

var (
	ugcPolicyOnce    sync.Once
	ugcPolicy        *bluemonday.Policy
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func ugcSanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.RequireNoFollowOnLinks(true)
		ugcPolicy = policy
	})
	return ugcPolicy
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// classList joins the base class with caller supplied classes, dropping
// duplicates.
func classList(base string, extra ...string) string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, value := range append([]string{base}, extra...) {
		for _, token := range strings.Fields(value) {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, " ")
}

// findChoice returns the label of the choice whose value matches value.
// Choices are read from props["choices"] using optionValue (default "id") and
// optionText (default "name").
func findChoice(props render.Props, value any) (string, bool) {
	optionValue := props.String("optionValue")
	if optionValue == "" {
		optionValue = "id"
	}
	optionText := props.String("optionText")
	if optionText == "" {
		optionText = "name"
	}

	want := record.Key(value)
	for _, choice := range choiceRecords(props["choices"]) {
		candidate, ok := choice.Get(optionValue)
		if !ok || record.Key(candidate) != want {
			continue
		}
		return choice.String(optionText), true
	}
	return "", false
}

func choiceRecords(value any) []record.Record {
	switch choices := value.(type) {
	case []record.Record:
		return choices
	case []map[string]any:
		out := make([]record.Record, 0, len(choices))
		for _, choice := range choices {
			out = append(out, record.Record(choice))
		}
		return out
	case []any:
		out := make([]record.Record, 0, len(choices))
		for _, item := range choices {
			switch choice := item.(type) {
			case record.Record:
				out = append(out, choice)
			case map[string]any:
				out = append(out, record.Record(choice))
			}
		}
		return out
	default:
		return nil
	}
}

func writeAttr(builder *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	builder.WriteByte(' ')
	builder.WriteString(name)
	builder.WriteString(`="`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteByte('"')
}
