package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/goliatone/go-refs/internal/prompt"
	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/dataprovider/restprovider"
	"github.com/goliatone/go-refs/pkg/orchestrator"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
	"github.com/goliatone/go-refs/pkg/schema"
)

type cliOptions struct {
	field       string
	recordJSON  string
	recordID    string
	definitions string
	openapi     string
	fixtures    string
	api         string
	renderer    string
	basePath    string
	locale      string
	output      string
	interactive bool
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, prompt.NewSurvey()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "refs-cli: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("refs-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.field, "field", "", "definition name to render, e.g. posts.author")
	fs.StringVar(&opts.recordJSON, "record", "", "record JSON holding the reference value")
	fs.StringVar(&opts.recordID, "id", "", "fetch the record by id from the field's resource instead of -record")
	fs.StringVar(&opts.definitions, "definitions", "", "directory of JSON/YAML field definitions")
	fs.StringVar(&opts.openapi, "openapi", "", "OpenAPI document declaring x-relationships")
	fs.StringVar(&opts.fixtures, "fixtures", "", "JSON fixtures file used as the data provider")
	fs.StringVar(&opts.api, "api", "", "REST endpoint used as the data provider")
	fs.StringVar(&opts.renderer, "renderer", "html", "renderer to use (html, page, json)")
	fs.StringVar(&opts.basePath, "base-path", "", "base path for record links")
	fs.StringVar(&opts.locale, "locale", "", "render locale")
	fs.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	fs.BoolVar(&opts.interactive, "interactive", false, "pick the field and record interactively")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    w != os.Stderr,
	}))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, opts.verbose)

	provider, closeProvider, err := buildProvider(opts)
	if err != nil {
		return err
	}
	defer closeProvider()

	orchOpts := []orchestrator.Option{
		orchestrator.WithProvider(provider),
		orchestrator.WithLogger(logger),
	}
	if opts.definitions != "" {
		orchOpts = append(orchOpts, orchestrator.WithDefinitionsFS(os.DirFS(opts.definitions)))
	}
	if opts.openapi != "" {
		set, err := loadOpenAPI(ctx, opts.openapi)
		if err != nil {
			return err
		}
		orchOpts = append(orchOpts, orchestrator.WithDefinitions(set))
	}

	gen := orchestrator.New(orchOpts...)
	defer gen.Close()
	if err := gen.Err(); err != nil {
		return err
	}
	if gen.Definitions().Empty() {
		return errors.New("no field definitions loaded; pass -definitions or -openapi")
	}

	if opts.interactive {
		if err := askInteractive(ctx, driver, gen.Definitions(), &opts); err != nil {
			return err
		}
	}
	if opts.field == "" {
		return errors.New("missing -field")
	}

	def, ok := gen.Definitions().Definition(opts.field)
	if !ok {
		return fmt.Errorf("unknown field %q (known: %s)", opts.field, strings.Join(gen.Definitions().Names(), ", "))
	}

	rec, err := resolveRecord(ctx, provider, def, opts)
	if err != nil {
		return err
	}
	logger.Debug("rendering field", "field", def.Name, "renderer", opts.renderer, "record", rec.Key())

	out, err := gen.Render(ctx, orchestrator.Request{
		Field:         def.Name,
		Record:        rec,
		BasePath:      opts.basePath,
		Renderer:      opts.renderer,
		RenderOptions: render.RenderOptions{Locale: opts.locale},
	})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := fmt.Fprintln(stdout, string(out))
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("field written", "path", opts.output)
	return nil
}

func buildProvider(opts cliOptions) (dataprovider.Provider, func(), error) {
	noop := func() {}
	switch {
	case opts.fixtures != "" && opts.api != "":
		return nil, noop, errors.New("-fixtures and -api are mutually exclusive")
	case opts.fixtures != "":
		file, err := os.Open(opts.fixtures)
		if err != nil {
			return nil, noop, fmt.Errorf("open fixtures: %w", err)
		}
		defer file.Close()
		provider, err := dataprovider.DecodeFixtures(file)
		if err != nil {
			return nil, noop, err
		}
		return provider, noop, nil
	case opts.api != "":
		provider, err := restprovider.New(opts.api)
		if err != nil {
			return nil, noop, err
		}
		return provider, func() { _ = provider.Close() }, nil
	default:
		return nil, noop, errors.New("missing data provider; pass -fixtures or -api")
	}
}

func loadOpenAPI(ctx context.Context, path string) (*schema.Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi document: %w", err)
	}
	return schema.FromOpenAPI(ctx, raw)
}

func resolveRecord(ctx context.Context, provider dataprovider.Provider, def schema.Definition, opts cliOptions) (record.Record, error) {
	if opts.recordID != "" {
		records, err := provider.GetMany(ctx, def.Resource, []record.Identifier{opts.recordID})
		if err != nil {
			return nil, fmt.Errorf("fetch %s %s: %w", def.Resource, opts.recordID, err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%s %s not found", def.Resource, opts.recordID)
		}
		return records[0], nil
	}
	if strings.TrimSpace(opts.recordJSON) == "" {
		return nil, errors.New("missing record; pass -record or -id")
	}
	return decodeRecord(opts.recordJSON)
}

func decodeRecord(raw string) (record.Record, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var rec record.Record
	if err := decoder.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if rec == nil {
		return nil, errors.New("decode record: expected a JSON object")
	}
	return rec, nil
}
