package main

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdirective/internal/config"
	"github.com/vango-dev/vdirective/internal/errors"
	"github.com/vango-dev/vdirective/pkg/compiler"
	"github.com/vango-dev/vdirective/pkg/component"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/render"
	"github.com/vango-dev/vdirective/pkg/server"
	"github.com/vango-dev/vdirective/pkg/template"
)

// renderFlags are shared by the commands that render a template.
type renderFlags struct {
	data   string
	policy string
	pretty bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "Template data as a JSON object")
	cmd.Flags().StringVar(&f.policy, "policy", "", "SSR policy: strict or lenient (default from config)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Indent server output")
}

// loadConfig loads vdirective.yaml from the working directory or its
// parents, falling back to defaults when there is none.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Code == "E210" {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.LogLevel()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// globalRegistry returns the built-in directives. With sanitizing turned
// off v-html trusts its markup.
func globalRegistry(cfg *config.Config) *directive.Registry {
	if cfg.SanitizeHTML() {
		return directive.NewGlobalRegistry()
	}
	r := directive.NewRegistry("global", nil)
	r.MustRegister("show", directive.Show())
	r.MustRegister("text", directive.Text())
	r.MustRegister("html", directive.HTML(nil))
	r.MustRegister("on", directive.On())
	return r
}

// newApp builds an App from cfg with command-line overrides applied.
func newApp(cfg *config.Config, f *renderFlags, logger *slog.Logger, opts ...component.Option) (*component.App, error) {
	policy := cfg.Policy()
	pretty := cfg.Render.Pretty
	if f != nil {
		if f.policy != "" {
			p, err := compiler.ParsePolicy(f.policy)
			if err != nil {
				return nil, errors.New("E212").Wrap(err)
			}
			policy = p
		}
		pretty = pretty || f.pretty
	}
	base := []component.Option{
		component.WithRegistry(globalRegistry(cfg)),
		component.WithPolicy(policy),
		component.WithCacheSize(cfg.Render.CacheSize),
		component.WithRenderer(render.RendererConfig{Pretty: pretty}),
		component.WithLogger(logger),
	}
	return component.NewApp(append(base, opts...)...)
}

// loadTemplate parses the template at path and adds it to app.
func loadTemplate(app *component.App, path string) (*component.Bound, error) {
	if _, err := template.ParseFile(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return app.Add(component.Component{Name: server.ComponentName(filepath.Dir(path), path), Template: string(src)})
}

func parseData(raw string) (map[string]any, error) {
	data := map[string]any{}
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.New("E220").Wrap(err)
	}
	return data, nil
}
