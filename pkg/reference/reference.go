// Package reference renders the relationship between a record and one or many
// records of another resource. Each field is split in three parts: the
// controller resolves identifiers, a pure view picks between the progress
// indicator and the child, and a wrapper validates the single child and wires
// the two together.
package reference

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-refs/pkg/controller"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/render"
	rendertemplate "github.com/goliatone/go-refs/pkg/render/template"
	"github.com/goliatone/go-refs/pkg/render/template/gotemplate"
)

// Component names reported by ConfigurationError.
const (
	NameReferenceField      = "ReferenceField"
	NameReferenceArrayField = "ReferenceArrayField"
)

// Theme tokens and partial keys read from render.RenderOptions.Theme.
const (
	TokenLinkClass     = "reference-link-class"
	TokenProgressClass = "reference-progress-class"
	PartialLink        = "reference.link"
	PartialProgress    = "reference.progress"
)

// Default classes used when the theme does not override them.
const (
	DefaultLinkClass     = "refs-link"
	DefaultProgressClass = "refs-progress"
	arrayProgressClass   = "refs-progress--array"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate link/progress template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads the link/progress templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders ReferenceField and ReferenceArrayField.
type Renderer struct {
	controller *controller.Controller
	templates  rendertemplate.TemplateRenderer
	logger     *slog.Logger
}

// New constructs a Renderer resolving references through ctrl.
func New(ctrl *controller.Controller, options ...Option) (*Renderer, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("reference renderer: controller is required")
	}
	cfg := config{
		templateFS: TemplatesFS(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("reference renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		controller: ctrl,
		templates:  templates,
		logger:     cfg.logger,
	}, nil
}

type progressData struct {
	className string
	pending   bool
	reference string
	source    string
	ids       []record.Identifier
	linkPath  string
	// display is the record field the hydration runtime prints.
	display string
}

func (r *Renderer) renderProgress(ctx context.Context, data progressData) (string, error) {
	opts := render.OptionsFrom(ctx)

	classes := opts.Token(TokenProgressClass, DefaultProgressClass)
	if data.className != "" {
		classes += " " + data.className
	}

	payload := map[string]any{
		"progressClass": classes,
		"label":         opts.Translate("refs.loading", "Loading"),
		"pending":       data.pending,
		"reference":     data.reference,
		"source":        data.source,
		"ids":           strings.Join(record.Keys(data.ids), ","),
		"linkPath":      data.linkPath,
		"display":       data.display,
	}
	out, err := r.templates.RenderTemplate(opts.Partial(PartialProgress, templateProgress), payload)
	if err != nil {
		return "", fmt.Errorf("reference renderer: render progress: %w", err)
	}
	markProgress(ctx, data.pending)
	return strings.TrimSpace(out), nil
}

func (r *Renderer) renderLink(ctx context.Context, href, className, child string) (string, error) {
	opts := render.OptionsFrom(ctx)
	payload := map[string]any{
		"href":      href,
		"className": className,
		"child":     child,
	}
	out, err := r.templates.RenderTemplate(opts.Partial(PartialLink, templateLink), payload)
	if err != nil {
		return "", fmt.Errorf("reference renderer: render link: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func joinClasses(values ...string) string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, value := range values {
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
