package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-refs/pkg/accumulate"
	"github.com/goliatone/go-refs/pkg/controller"
	"github.com/goliatone/go-refs/pkg/dataprovider"
	"github.com/goliatone/go-refs/pkg/record"
	"github.com/goliatone/go-refs/pkg/reference"
	"github.com/goliatone/go-refs/pkg/render"
	"github.com/goliatone/go-refs/pkg/renderers/jsonout"
	"github.com/goliatone/go-refs/pkg/renderers/page"
	"github.com/goliatone/go-refs/pkg/renderers/vanilla"
	"github.com/goliatone/go-refs/pkg/schema"
	"github.com/goliatone/go-refs/pkg/store"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithProvider sets the data provider references are fetched from. Required.
func WithProvider(provider dataprovider.Provider) Option {
	return func(o *Orchestrator) {
		o.provider = provider
	}
}

// WithStore shares a record store across orchestrators.
func WithStore(st *store.Store) Option {
	return func(o *Orchestrator) {
		o.store = st
	}
}

// WithDefinitions adds field definitions. Repeated calls merge; duplicate
// names fail at construction.
func WithDefinitions(set *schema.Set) Option {
	return func(o *Orchestrator) {
		if set != nil {
			o.definitionSets = append(o.definitionSets, set)
		}
	}
}

// WithDefinitionsFS loads field definitions from JSON/YAML files in fsys.
func WithDefinitionsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		if fsys != nil {
			o.definitionFS = append(o.definitionFS, fsys)
		}
	}
}

// WithRegistry injects an output renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the output used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithComponents injects the child component renderer.
func WithComponents(components *vanilla.Renderer) Option {
	return func(o *Orchestrator) {
		o.components = components
	}
}

// WithReferenceOptions forwards options to the reference renderer.
func WithReferenceOptions(options ...reference.Option) Option {
	return func(o *Orchestrator) {
		o.referenceOptions = append(o.referenceOptions, options...)
	}
}

// WithPageOptions configures the built-in page renderer. Ignored when
// WithRegistry supplies the renderers.
func WithPageOptions(options ...page.Option) Option {
	return func(o *Orchestrator) {
		o.pageOptions = append(o.pageOptions, options...)
	}
}

// WithAccumulatorOptions forwards options to the request accumulator.
func WithAccumulatorOptions(options ...accumulate.Option) Option {
	return func(o *Orchestrator) {
		o.accumulatorOptions = append(o.accumulatorOptions, options...)
	}
}

// WithTransformer registers a Transformer applied to the definition of every
// request before rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithTranslator sets the translator used when a request does not carry one.
// The default components also receive it as template helpers.
func WithTranslator(t render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = t
	}
}

// WithLogger sets the logger shared by the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator renders named reference fields. It applies sensible defaults
// (vanilla components, html/page/json outputs, embedded templates) while
// remaining open to dependency injection.
type Orchestrator struct {
	provider           dataprovider.Provider
	store              *store.Store
	definitionSets     []*schema.Set
	definitionFS       []fs.FS
	definitions        *schema.Set
	registry           *render.Registry
	defaultRenderer    string
	components         *vanilla.Renderer
	referenceOptions   []reference.Option
	accumulatorOptions []accumulate.Option
	pageOptions        []page.Option
	transformer        Transformer
	translator         render.Translator
	themeSelector      theme.ThemeSelector
	themeFallbacks     map[string]string
	logger             *slog.Logger

	accumulator *accumulate.Accumulator
	controller  *controller.Controller
	references  *reference.Renderer

	initialiseErr error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations. A
// configuration error is reported by every Render call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.initialiseErr = o.applyDefaults()
	return o
}

// Err reports the construction error, if any.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Close stops the accumulator. In-flight fetches complete first.
func (o *Orchestrator) Close() {
	if o.accumulator != nil {
		o.accumulator.Close()
	}
}

// Definitions returns the loaded field definitions.
func (o *Orchestrator) Definitions() *schema.Set {
	return o.definitions
}

// Store returns the record store shared by all fields.
func (o *Orchestrator) Store() *store.Store {
	return o.store
}

// Accumulator returns the batching layer so other surfaces (HTTP handlers)
// share fetches with rendering.
func (o *Orchestrator) Accumulator() *accumulate.Accumulator {
	return o.accumulator
}

// Request describes one field render.
type Request struct {
	// Field names the definition to render. Required.
	Field string
	// Record is the current record holding the identifier(s).
	Record record.Record
	// Resource overrides the definition resource.
	Resource string
	// BasePath overrides the base path, "/<resource>" by default.
	BasePath string
	// Renderer names the output. If empty the default output is used.
	Renderer string
	// RenderOptions carries locale, translator and theme.
	RenderOptions render.RenderOptions
	// ThemeName and ThemeVariant select a theme when a selector is configured
	// and RenderOptions.Theme is nil. Empty values use the selector defaults.
	ThemeName    string
	ThemeVariant string
}

// Render renders the field and formats it with the selected output.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}
	req.RenderOptions, err = o.renderOptions(req)
	if err != nil {
		return nil, err
	}
	result, err := o.RenderField(ctx, req)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(render.WithOptions(ctx, req.RenderOptions), result)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// RenderField renders the field HTML and collects the assets it needs.
func (o *Orchestrator) RenderField(ctx context.Context, req Request) (render.Result, error) {
	if ctx == nil {
		return render.Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return render.Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return render.Result{}, err
	}
	if strings.TrimSpace(req.Field) == "" {
		return render.Result{}, errors.New("orchestrator: field is required")
	}

	def, ok := o.definitions.Definition(req.Field)
	if !ok {
		return render.Result{}, fmt.Errorf("orchestrator: field %q not defined", req.Field)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &def); err != nil {
			return render.Result{}, fmt.Errorf("orchestrator: transform definition: %w", err)
		}
	}

	child, err := o.Element(def.Child)
	if err != nil {
		return render.Result{}, fmt.Errorf("orchestrator: field %q: %w", def.Name, err)
	}

	resource := firstNonEmpty(req.Resource, def.Resource)
	basePath := req.BasePath
	if basePath == "" && resource != "" {
		basePath = "/" + resource
	}

	opts, err := o.renderOptions(req)
	if err != nil {
		return render.Result{}, err
	}
	renderCtx := render.WithOptions(ctx, opts)
	renderCtx = vanilla.WithUsage(renderCtx)
	renderCtx = reference.WithTracking(renderCtx)

	var html string
	switch def.Kind {
	case schema.KindReferenceArray:
		html, err = o.references.ReferenceArrayField(renderCtx, reference.ArrayFieldProps{
			Record:    req.Record,
			Source:    def.Source,
			Reference: def.Reference,
			Resource:  resource,
			BasePath:  basePath,
			ClassName: def.ClassName,
			Label:     def.Label,
		}, child)
	default:
		html, err = o.references.ReferenceField(renderCtx, reference.FieldProps{
			Record:          req.Record,
			Source:          def.Source,
			Reference:       def.Reference,
			Resource:        resource,
			BasePath:        basePath,
			ClassName:       def.ClassName,
			Label:           def.Label,
			LinkType:        def.Link,
			AllowEmpty:      def.AllowEmpty,
			TranslateChoice: def.TranslateChoice,
		}, child)
	}
	if err != nil {
		return render.Result{}, fmt.Errorf("orchestrator: render field %q: %w", def.Name, err)
	}

	progress, deferred := reference.Pending(renderCtx)
	used := vanilla.UsedComponents(renderCtx)
	stylesheets, scripts := o.components.Assets(renderCtx, used)

	o.logger.Debug("field rendered",
		"field", def.Name,
		"kind", string(def.Kind),
		"reference", def.Reference,
		"progress", progress,
		"deferred", deferred,
		"components", strings.Join(used, ","),
	)

	return render.Result{
		Field:       def.Name,
		Kind:        string(def.Kind),
		Resource:    resource,
		Reference:   def.Reference,
		Loaded:      progress == 0,
		HTML:        html,
		Stylesheets: stylesheets,
		Scripts:     scripts,
	}, nil
}

// Renderer resolves an output renderer by name, falling back to the default.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() error {
	if o.provider == nil {
		return errors.New("orchestrator: data provider is required")
	}
	if o.store == nil {
		o.store = store.New()
	}

	definitions, _ := schema.NewSet()
	for _, fsys := range o.definitionFS {
		loaded, err := schema.LoadFS(fsys)
		if err != nil {
			return fmt.Errorf("orchestrator: load definitions: %w", err)
		}
		o.definitionSets = append(o.definitionSets, loaded)
	}
	for _, set := range o.definitionSets {
		merged, err := definitions.Merge(set)
		if err != nil {
			return fmt.Errorf("orchestrator: merge definitions: %w", err)
		}
		definitions = merged
	}
	o.definitions = definitions

	if o.components == nil {
		componentOptions := []vanilla.Option{vanilla.WithLogger(o.logger)}
		if o.translator != nil {
			componentOptions = append(componentOptions,
				vanilla.WithTemplateFuncs(render.TemplateI18nFuncs(o.translator, render.TemplateI18nConfig{})))
		}
		components, err := vanilla.New(componentOptions...)
		if err != nil {
			return fmt.Errorf("orchestrator: default components: %w", err)
		}
		o.components = components
	}

	accumulatorOptions := append([]accumulate.Option{accumulate.WithLogger(o.logger)}, o.accumulatorOptions...)
	acc, err := accumulate.New(o.provider, o.store, accumulatorOptions...)
	if err != nil {
		return fmt.Errorf("orchestrator: accumulator: %w", err)
	}
	o.accumulator = acc

	ctrl, err := controller.FromAccumulator(acc, controller.WithLogger(o.logger))
	if err != nil {
		return fmt.Errorf("orchestrator: controller: %w", err)
	}
	o.controller = ctrl

	referenceOptions := append([]reference.Option{reference.WithLogger(o.logger)}, o.referenceOptions...)
	references, err := reference.New(ctrl, referenceOptions...)
	if err != nil {
		return fmt.Errorf("orchestrator: reference renderer: %w", err)
	}
	o.references = references

	if o.registry == nil {
		o.registry = render.NewRegistry()
		pageRenderer, err := page.New(o.pageOptions...)
		if err != nil {
			return fmt.Errorf("orchestrator: page renderer: %w", err)
		}
		for _, renderer := range []render.Renderer{o.components, pageRenderer, jsonout.New()} {
			if err := o.registry.Register(renderer); err != nil {
				return fmt.Errorf("orchestrator: register renderer: %w", err)
			}
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	return nil
}

func (o *Orchestrator) renderOptions(req Request) (render.RenderOptions, error) {
	opts := req.RenderOptions
	if opts.Translator == nil {
		opts.Translator = o.translator
	}
	return o.resolveTheme(opts, req.ThemeName, req.ThemeVariant)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
