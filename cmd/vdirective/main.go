package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdirective/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(errors.Classify(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "vdirective",
		Short: "Render directive templates on the server and the client",
		Long: `vdirective compiles HTML templates that use v-* directives and renders
them two ways: as an HTML string (server path) and as a mounted live
DOM (client path).

Commands:
  render   Render a template on the server path
  mount    Mount a template on the client path and print the DOM
  check    Compile templates for both paths under the strict policy
  parity   Compare server and client output for a template
  serve    Serve a template directory over HTTP
  codes    List error codes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		renderCmd(),
		mountCmd(),
		checkCmd(),
		parityCmd(),
		serveCmd(),
		codesCmd(),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Println(statusLine(errors.Green("✓"), format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Println(statusLine(errors.Yellow("⚠"), format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintln(os.Stderr, statusLine(errors.Red("✗"), format, args...))
}

func statusLine(mark, format string, args ...any) string {
	return mark + " " + fmt.Sprintf(format, args...)
}
