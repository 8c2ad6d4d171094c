package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var (
		flags renderFlags
		page  bool
		title string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a template on the server path",
		Long: `Render a template to HTML the way a server would. Only directive SSR
hooks contribute to the output.

Examples:
  vdirective render card.html
  vdirective render card.html --data '{"visible": false}'
  vdirective render card.html --page --title Card`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := newApp(cfg, &flags, newLogger(cfg))
			if err != nil {
				return err
			}
			c, err := loadTemplate(app, args[0])
			if err != nil {
				return err
			}
			data, err := parseData(flags.data)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if page {
				return c.RenderPage(ctx, os.Stdout, title, data)
			}
			out, err := c.RenderToString(ctx, data)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&page, "page", false, "Render a complete HTML document")
	cmd.Flags().StringVar(&title, "title", "", "Page title (with --page)")

	return cmd
}

func mountCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "mount <file>",
		Short: "Mount a template on the client path and print the DOM",
		Long: `Mount a template into a detached DOM container, running the client
hooks of every directive, then print the resulting markup and unmount.

Examples:
  vdirective mount card.html --data '{"visible": false}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := newApp(cfg, &flags, newLogger(cfg))
			if err != nil {
				return err
			}
			c, err := loadTemplate(app, args[0])
			if err != nil {
				return err
			}
			data, err := parseData(flags.data)
			if err != nil {
				return err
			}

			inst, err := c.Mount(context.Background(), nil, data)
			if inst == nil {
				return err
			}
			if err != nil {
				warn("%s", err)
			}
			fmt.Println(inst.Container().InnerHTML())
			return inst.Unmount()
		},
	}

	flags.register(cmd)

	return cmd
}
