package component

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/vdirective/pkg/client"
	"github.com/vango-dev/vdirective/pkg/compiler"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/dom"
	"github.com/vango-dev/vdirective/pkg/parity"
	"github.com/vango-dev/vdirective/pkg/render"
	"github.com/vango-dev/vdirective/pkg/vdom"
)

// Render path labels passed to an Observer.
const (
	PathServer = "server"
	PathClient = "client"
)

// AppMarker is set on the container of every client mount.
const AppMarker = "data-v-app"

// ErrNoTemplate is returned when a component has neither a Template nor a
// Render function.
var ErrNoTemplate = errors.New("component has no template or render function")

// ErrNotFound is returned by App.Get for an unknown component name.
var ErrNotFound = errors.New("component not found")

// Component is a named template plus its local directives.
type Component struct {
	Name string

	// Template is the template source. Ignored when Render is set.
	Template string

	// Directives are registered in the component's local scope. Keys may
	// be camelCase or kebab-case.
	Directives map[string]*directive.Definition

	// Render builds the tree directly, bypassing template compilation.
	// Directives attached with vdom.Dir skip name resolution and the SSR
	// policy.
	Render func(rc *directive.Context) *vdom.VNode
}

// Observer receives render and compile outcomes. *middleware.Metrics
// implements it.
type Observer interface {
	ObserveRender(component, path string, d time.Duration, err error)
	ObserveCompile(component string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveRender(string, string, time.Duration, error) {}
func (nopObserver) ObserveCompile(string, error)                        {}

// App holds the shared state for a set of components.
type App struct {
	global   *directive.Registry
	cache    *compiler.Cache
	renderer *render.Renderer
	policy   compiler.Policy
	logger   *slog.Logger
	observer Observer
	clientOp []client.Option

	mu         sync.RWMutex
	components map[string]*Bound
}

// Option configures an App.
type Option func(*appConfig)

type appConfig struct {
	global    *directive.Registry
	cacheSize int
	renderer  render.RendererConfig
	policy    compiler.Policy
	logger    *slog.Logger
	observer  Observer
}

// WithRegistry sets the global registry. Defaults to
// directive.NewGlobalRegistry().
func WithRegistry(r *directive.Registry) Option {
	return func(c *appConfig) { c.global = r }
}

// WithPolicy sets the SSR policy for server compiles.
func WithPolicy(p compiler.Policy) Option {
	return func(c *appConfig) { c.policy = p }
}

// WithCacheSize sets the compiled template cache size.
func WithCacheSize(n int) Option {
	return func(c *appConfig) { c.cacheSize = n }
}

// WithRenderer sets the server renderer configuration.
func WithRenderer(cfg render.RendererConfig) Option {
	return func(c *appConfig) { c.renderer = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *appConfig) { c.logger = l }
}

// WithObserver sets the render observer.
func WithObserver(o Observer) Option {
	return func(c *appConfig) { c.observer = o }
}

// NewApp creates an App.
func NewApp(opts ...Option) (*App, error) {
	cfg := appConfig{
		cacheSize: compiler.DefaultCacheSize,
		policy:    compiler.PolicyStrict,
		logger:    slog.Default(),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.global == nil {
		cfg.global = directive.NewGlobalRegistry()
	}
	cache, err := compiler.NewCache(cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	return &App{
		global:     cfg.global,
		cache:      cache,
		renderer:   render.NewRenderer(cfg.renderer),
		policy:     cfg.policy,
		logger:     cfg.logger,
		observer:   cfg.observer,
		clientOp:   []client.Option{client.WithEvaluator(cfg.renderer.Evaluator), client.WithLogger(cfg.logger)},
		components: make(map[string]*Bound),
	}, nil
}

// Global returns the App's global directive registry.
func (a *App) Global() *directive.Registry { return a.global }

// Policy returns the SSR policy applied to server compiles.
func (a *App) Policy() compiler.Policy { return a.policy }

// Directive registers a directive in the global scope.
func (a *App) Directive(name string, def *directive.Definition) error {
	return a.global.Register(name, def)
}

// Add prepares c and stores it under c.Name, replacing any component of
// the same name. Local directives are registered in a fresh scope whose
// parent is the global registry.
func (a *App) Add(c Component) (*Bound, error) {
	if c.Template == "" && c.Render == nil {
		return nil, fmt.Errorf("%s: %w", c.Name, ErrNoTemplate)
	}
	local := directive.NewRegistry(c.Name, a.global)

	names := make([]string, 0, len(c.Directives))
	for name := range c.Directives {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := local.Register(name, c.Directives[name]); err != nil {
			return nil, err
		}
	}

	b := &Bound{app: a, comp: c, reg: local}
	if c.Name != "" {
		a.mu.Lock()
		a.components[c.Name] = b
		a.mu.Unlock()
	}
	return b, nil
}

// Get returns the component stored under name.
func (a *App) Get(name string) (*Bound, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	b, ok := a.components[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return b, nil
}

// Remove deletes the component stored under name.
func (a *App) Remove(name string) {
	a.mu.Lock()
	delete(a.components, name)
	a.mu.Unlock()
}

// Names returns the stored component names in sorted order.
func (a *App) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, 0, len(a.components))
	for name := range a.components {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bound is a component attached to an App.
type Bound struct {
	app  *App
	comp Component
	reg  *directive.Registry
}

// Name returns the component name.
func (b *Bound) Name() string { return b.comp.Name }

// Registry returns the component's local directive scope.
func (b *Bound) Registry() *directive.Registry { return b.reg }

// Tree returns the compiled tree for target. Render-function components
// build a fresh tree from rc on every call.
func (b *Bound) Tree(target compiler.Target, rc *directive.Context) (*vdom.VNode, error) {
	if b.comp.Render != nil {
		return b.comp.Render(rc), nil
	}
	tree, err := b.app.cache.Compile(b.comp.Template, b.reg,
		compiler.WithPolicy(b.app.policy),
		compiler.WithTarget(target),
		compiler.WithLogger(b.app.logger.With("component", b.comp.Name)),
	)
	b.app.observer.ObserveCompile(b.comp.Name, err)
	return tree, err
}

// RenderToString renders the component on the server path.
func (b *Bound) RenderToString(ctx context.Context, data map[string]any) (out string, err error) {
	start := time.Now()
	defer func() { b.app.observer.ObserveRender(b.comp.Name, PathServer, time.Since(start), err) }()

	rc := &directive.Context{Context: ctx, Data: data}
	tree, err := b.Tree(compiler.TargetServer, rc)
	if err != nil {
		return "", err
	}
	return b.app.renderer.RenderToString(ctx, tree, rc)
}

// Mount renders the component on the client path into container, which
// is marked with data-v-app. A nil container is created.
func (b *Bound) Mount(ctx context.Context, container *dom.Node, data map[string]any) (inst *client.Instance, err error) {
	start := time.Now()
	defer func() { b.app.observer.ObserveRender(b.comp.Name, PathClient, time.Since(start), err) }()

	if container == nil {
		container = dom.NewElement("div")
	}
	container.SetAttribute(AppMarker, "")

	rc := &directive.Context{Context: ctx, Data: data}
	tree, err := b.Tree(compiler.TargetClient, rc)
	if err != nil {
		return nil, err
	}
	return client.Mount(tree, rc, container, b.app.clientOp...)
}

// RenderPage renders the component as a full HTML document on the server
// path. The body is wrapped in a data-v-app container so a client mount
// into the same container produces matching markup.
func (b *Bound) RenderPage(ctx context.Context, w io.Writer, title string, data map[string]any) (err error) {
	start := time.Now()
	defer func() { b.app.observer.ObserveRender(b.comp.Name, PathServer, time.Since(start), err) }()

	rc := &directive.Context{Context: ctx, Data: data}
	tree, err := b.Tree(compiler.TargetServer, rc)
	if err != nil {
		return err
	}
	return b.app.renderer.RenderPage(ctx, w, render.PageData{
		Body:    tree,
		Context: rc,
		Title:   title,
		AppAttr: AppMarker,
	})
}

// Parity renders the component on both paths with the same data and
// compares the results. The client instance is unmounted before return.
func (b *Bound) Parity(ctx context.Context, data map[string]any) (parity.Result, error) {
	server, err := b.RenderToString(ctx, data)
	if err != nil {
		return parity.Result{}, fmt.Errorf("server render: %w", err)
	}
	inst, err := b.Mount(ctx, nil, data)
	if err != nil {
		return parity.Result{}, fmt.Errorf("client mount: %w", err)
	}
	clientHTML := inst.Container().InnerHTML()
	if err := inst.Unmount(); err != nil {
		return parity.Result{}, fmt.Errorf("client unmount: %w", err)
	}
	return parity.Compare(clientHTML, server)
}
