package main

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/vdirective/internal/config"
	"github.com/vango-dev/vdirective/internal/errors"
	"github.com/vango-dev/vdirective/pkg/directive"
)

func TestParseData(t *testing.T) {
	data, err := parseData(`{"visible": false}`)
	if err != nil {
		t.Fatalf("parseData: %v", err)
	}
	if data["visible"] != false {
		t.Errorf("visible = %v", data["visible"])
	}

	_, err = parseData(`[1]`)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E220" {
		t.Errorf("parseData([1]) error = %v, want E220", err)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		src      string
		policy   string
		wantCode string
	}{
		{name: "builtin", src: `<div v-show="ok"></div>`},
		{name: "unknown", src: `<div v-nope="1"></div>`, wantCode: directive.CodeUnresolved},
		{name: "parse", src: `<div>`, wantCode: "E204"},
	}

	cfg := config.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := newApp(cfg, &renderFlags{policy: tt.policy}, logger)
			if err != nil {
				t.Fatalf("newApp: %v", err)
			}
			path := filepath.Join(dir, tt.name+".html")
			if err := os.WriteFile(path, []byte(tt.src), 0o644); err != nil {
				t.Fatal(err)
			}
			err = checkFile(app, path)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("checkFile: %v", err)
				}
				return
			}
			if got := errors.Classify(err); got == nil || got.Code != tt.wantCode {
				t.Errorf("checkFile error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestGlobalRegistryWithoutSanitizer(t *testing.T) {
	cfg := config.New()
	off := false
	cfg.Render.Sanitize = &off

	reg := globalRegistry(cfg)
	for _, name := range []string{"show", "text", "html", "on"} {
		if _, err := reg.Resolve(name); err != nil {
			t.Errorf("Resolve(%q): %v", name, err)
		}
	}
}

func TestNoColorFlag(t *testing.T) {
	defer errors.EnableColors()

	root := newRootCmd()
	root.SetArgs([]string{"--no-color", "version"})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got, want := statusLine(errors.Green("✓"), "rendered %d", 2), "✓ rendered 2"; got != want {
		t.Errorf("statusLine = %q, want %q", got, want)
	}
	if got := statusLine(errors.Red("✗"), "x"); got != "✗ x" {
		t.Errorf("error line = %q", got)
	}
}
