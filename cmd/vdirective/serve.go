package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vdirective/internal/config"
	"github.com/vango-dev/vdirective/internal/errors"
	"github.com/vango-dev/vdirective/pkg/component"
	"github.com/vango-dev/vdirective/pkg/middleware"
	"github.com/vango-dev/vdirective/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		addr  string
		dir   string
		watch bool
		flags renderFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a template directory over HTTP",
		Long: `Serve every template in a directory. Each file is a component named
after the file.

Routes:
  GET  /components           list components
  GET  /render/{name}        server render (?data= JSON, or POST a body)
  GET  /page/{name}          full HTML document
  GET  /parity/{name}        compare server and client output
  GET  /live/{name}          websocket live preview on the client path
  GET  /metrics              Prometheus metrics

Examples:
  vdirective serve
  vdirective serve --dir templates --addr :9000 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dir != "" {
				cfg.Templates.Dir = dir
			}
			if watch {
				cfg.Templates.Watch = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, &flags)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&dir, "dir", "", "Template directory (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload templates on change")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "SSR policy: strict or lenient (default from config)")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "Indent server output")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, flags *renderFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))

	app, err := newApp(cfg, flags, logger, component.WithObserver(metrics))
	if err != nil {
		return err
	}

	store := server.NewStore(app, cfg.TemplatesPath(), cfg.Templates.Ext, logger)
	if err := store.LoadAll(); err != nil {
		warn("some templates failed to load")
		errors.PrintError(errors.Classify(err))
	}
	if cfg.Templates.Watch {
		if err := store.Watch(ctx); err != nil {
			return err
		}
	}

	srv := server.New(app, &server.Config{
		Addr:        cfg.Server.Addr,
		MetricsPath: cfg.Server.MetricsPath,
		Logger:      logger,
	}, server.WithMetrics(metrics, reg))

	success("Serving %d components on http://%s", len(app.Names()), cfg.Server.Addr)
	info("templates: %s", cfg.TemplatesPath())
	info("metrics:   %s", cfg.Server.MetricsPath)
	return srv.Run(ctx)
}
