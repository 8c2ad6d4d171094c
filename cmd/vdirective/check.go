package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdirective/internal/config"
	"github.com/vango-dev/vdirective/internal/errors"
	"github.com/vango-dev/vdirective/pkg/compiler"
	"github.com/vango-dev/vdirective/pkg/component"
	"github.com/vango-dev/vdirective/pkg/server"
)

func checkCmd() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "check [dir|file]",
		Short: "Compile templates for both render paths",
		Long: `Compile every template for the server and the client path. Under the
strict policy a directive that changes the client DOM but has no SSR
hook fails the check.

With no argument the configured template directory is checked.

Examples:
  vdirective check
  vdirective check templates/
  vdirective check card.html --policy=lenient`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			target := cfg.TemplatesPath()
			if len(args) == 1 {
				target = args[0]
			}
			return runCheck(cfg, target, policy)
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "SSR policy: strict or lenient (default from config)")

	return cmd
}

func runCheck(cfg *config.Config, target, policy string) error {
	app, err := newApp(cfg, &renderFlags{policy: policy}, newLogger(cfg))
	if err != nil {
		return err
	}

	files := []string{target}
	st, err := os.Stat(target)
	if err != nil {
		return err
	}
	if st.IsDir() {
		files, err = server.NewStore(app, target, cfg.Templates.Ext, newLogger(cfg)).Files()
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, path := range files {
		if err := checkFile(app, path); err != nil {
			failed++
			errorMsg("%s", path)
			errors.PrintError(errors.Classify(err))
			continue
		}
		success("%s", path)
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed", failed, len(files))
	}
	success("%d templates compiled for both paths (%s policy)", len(files), app.Policy())
	return nil
}

func checkFile(app *component.App, path string) error {
	c, err := loadTemplate(app, path)
	if err != nil {
		return err
	}
	if _, err := c.Tree(compiler.TargetServer, nil); err != nil {
		return err
	}
	_, err = c.Tree(compiler.TargetClient, nil)
	return err
}
