package main

import (
	"context"
	"fmt"

	"github.com/goliatone/go-refs/internal/prompt"
	"github.com/goliatone/go-refs/pkg/schema"
)

var rendererChoices = []string{"html", "page", "json"}

const (
	recordByID   = "Fetch the record by id"
	recordByJSON = "Type the record as JSON"
)

// askInteractive fills the field, record and renderer options that were not
// given as flags.
func askInteractive(ctx context.Context, driver prompt.Driver, defs *schema.Set, opts *cliOptions) error {
	if opts.field == "" {
		names := defs.Names()
		idx, err := driver.Select(ctx, prompt.SelectConfig{
			Message:  "Field",
			Options:  names,
			PageSize: 12,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(names) {
			return fmt.Errorf("invalid field selection")
		}
		opts.field = names[idx]
	}

	def, ok := defs.Definition(opts.field)
	if !ok {
		return fmt.Errorf("unknown field %q", opts.field)
	}

	if opts.recordID == "" && opts.recordJSON == "" {
		modes := []string{recordByID, recordByJSON}
		idx, err := driver.Select(ctx, prompt.SelectConfig{Message: "Record", Options: modes})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			id, err := driver.Input(ctx, prompt.InputConfig{
				Message:   fmt.Sprintf("%s id", def.Resource),
				Validator: requireValue,
			})
			if err != nil {
				return err
			}
			opts.recordID = id
		default:
			raw, err := driver.TextArea(ctx, prompt.TextAreaConfig{
				Message: "Record JSON",
				Default: fmt.Sprintf(`{"id": 1, %q: null}`, def.Source),
			})
			if err != nil {
				return err
			}
			if _, err := decodeRecord(raw); err != nil {
				return err
			}
			opts.recordJSON = raw
		}
	}

	idx, err := driver.Select(ctx, prompt.SelectConfig{
		Message:      "Output",
		Options:      rendererChoices,
		DefaultIndex: indexOfRenderer(opts.renderer),
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(rendererChoices) {
		opts.renderer = rendererChoices[idx]
	}
	return driver.Info(ctx, fmt.Sprintf("Rendering %s with %s", opts.field, opts.renderer))
}

func requireValue(value string) error {
	if value == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func indexOfRenderer(name string) int {
	for i, choice := range rendererChoices {
		if choice == name {
			return i
		}
	}
	return 0
}
