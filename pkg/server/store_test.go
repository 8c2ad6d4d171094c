package server_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vdirective/pkg/component"
	"github.com/vango-dev/vdirective/pkg/server"
	"github.com/vango-dev/vdirective/pkg/template"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newStoreApp(t *testing.T) *component.App {
	t.Helper()
	app, err := component.NewApp(component.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want string
	}{
		{"templates", "templates/card.html", "card"},
		{"templates", filepath.Join("templates", "a", "b", "user-list.vue.html"), "a/b/user-list.vue"},
		{"templates", "elsewhere/plain", "plain"},
		{".", "plain", "plain"},
	}
	for _, tt := range tests {
		if got := server.ComponentName(tt.dir, tt.path); got != tt.want {
			t.Errorf("ComponentName(%q, %q) = %q, want %q", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestStoreLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "card.html"), `<div v-show="true">card</div>`)
	writeFile(t, filepath.Join(dir, "nested", "item.html"), `<li>item</li>`)
	writeFile(t, filepath.Join(dir, "notes.txt"), `ignored`)
	writeFile(t, filepath.Join(dir, ".hidden", "secret.html"), `<p></p>`)

	app := newStoreApp(t)
	store := server.NewStore(app, dir, "html", quietLogger())
	if err := store.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if diff := cmp.Diff([]string{"card", "nested/item"}, app.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreSameBaseNameInDifferentDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "card.html"), `<p>a</p>`)
	writeFile(t, filepath.Join(dir, "b", "card.html"), `<p>b</p>`)

	app := newStoreApp(t)
	store := server.NewStore(app, dir, ".html", quietLogger())
	if err := store.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if diff := cmp.Diff([]string{"a/card", "b/card"}, app.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	for name, want := range map[string]string{"a/card": "<p>a</p>", "b/card": "<p>b</p>"} {
		c, err := app.Get(name)
		if err != nil {
			t.Fatalf("Get %s: %v", name, err)
		}
		out, err := c.RenderToString(context.Background(), nil)
		if err != nil || out != want {
			t.Errorf("%s rendered %q, %v; want %q", name, out, err, want)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "a", "card.html")); err != nil {
		t.Fatal(err)
	}
	eventually(t, func() bool {
		_, err := app.Get("a/card")
		return errors.Is(err, component.ErrNotFound)
	})
	if _, err := app.Get("b/card"); err != nil {
		t.Errorf("removing a/card dropped b/card: %v", err)
	}
}

func TestStoreLoadAllReportsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.html"), `<p>ok</p>`)
	writeFile(t, filepath.Join(dir, "bad.html"), `<p>broken</span>`)

	app := newStoreApp(t)
	store := server.NewStore(app, dir, ".html", quietLogger())
	err := store.LoadAll()
	var perr *template.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("LoadAll error = %v, want *template.ParseError", err)
	}
	if want := filepath.Join(dir, "bad.html"); perr.File != want {
		t.Errorf("ParseError.File = %q, want %q", perr.File, want)
	}
	if _, err := app.Get("good"); err != nil {
		t.Errorf("good template not loaded: %v", err)
	}
}

func TestStoreWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.html")
	writeFile(t, path, `<p>one</p>`)

	app := newStoreApp(t)
	store := server.NewStore(app, dir, ".html", quietLogger())
	if err := store.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeFile(t, path, `<p>two</p>`)
	eventually(t, func() bool {
		c, err := app.Get("live")
		if err != nil {
			return false
		}
		out, err := c.RenderToString(ctx, nil)
		return err == nil && out == "<p>two</p>"
	})

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	eventually(t, func() bool {
		_, err := app.Get("live")
		return errors.Is(err, component.ErrNotFound)
	})
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
