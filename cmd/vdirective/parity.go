package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdirective/internal/errors"
)

func parityCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "parity <file>",
		Short: "Compare server and client output for a template",
		Long: `Render a template on both paths with the same data and compare the
results structurally. Style declarations and class tokens are compared
independent of formatting and order.

Exits non-zero when the outputs differ.

Examples:
  vdirective parity card.html --data '{"visible": false}'`,
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

			res, err := c.Parity(context.Background(), data)
			if err != nil {
				return err
			}
			if !res.Equal() {
				return errors.New("E221").WithDetail(res.String())
			}
			success("%s: server and client output match", args[0])
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
