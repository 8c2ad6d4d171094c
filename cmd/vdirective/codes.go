package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdirective/internal/errors"
)

func codesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes [code]",
		Short: "List error codes",
		Long: `List every error code, or explain one.

Examples:
  vdirective codes
  vdirective codes E202`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if _, ok := errors.GetTemplate(args[0]); !ok {
					return fmt.Errorf("unknown error code %q", args[0])
				}
				fmt.Print(errors.New(args[0]).Format())
				return nil
			}
			for _, code := range errors.GetAllCodes() {
				tmpl, _ := errors.GetTemplate(code)
				info("%s  %-8s %s", code, tmpl.Category, tmpl.Message)
			}
			return nil
		},
	}
}
