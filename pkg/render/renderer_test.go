package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/dom"
	"github.com/vango-dev/vdirective/pkg/vdom"
)

func data(kv ...any) *directive.Context {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return &directive.Context{Data: m}
}

func ssr(name string, fn directive.ServerHook) *directive.Definition {
	return &directive.Definition{Name: name, SSR: fn}
}

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(context.Background(), vdom.Text("Hello, World!"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(context.Background(), vdom.Text("<script>alert('xss')</script>"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tests := []struct {
		name string
		node *vdom.VNode
		rc   *directive.Context
		want string
	}{
		{
			name: "nested",
			node: vdom.Div(vdom.Class("container"), vdom.H("h1", "Title"), vdom.P("Content")),
			want: `<div class="container"><h1>Title</h1><p>Content</p></div>`,
		},
		{
			name: "void element",
			node: vdom.Img(vdom.RawAttr("src", "/a.png")),
			want: `<img src="/a.png">`,
		},
		{
			name: "boolean attribute",
			node: vdom.Input(vdom.Disabled(), vdom.Type("text")),
			want: `<input disabled type="text">`,
		},
		{
			name: "attribute escaping",
			node: vdom.Div(vdom.TitleAttr(`"quoted" & <b>`)),
			want: `<div title="&quot;quoted&quot; &amp; &lt;b&gt;"></div>`,
		},
		{
			name: "fragment",
			node: vdom.Fragment(vdom.Span("a"), vdom.Span("b")),
			want: `<span>a</span><span>b</span>`,
		},
		{
			name: "interpolation and binding",
			node: vdom.Div(vdom.Bind("id", "id"), vdom.Interp("label")),
			rc:   data("id", "main", "label", "a<b"),
			want: `<div id="main">a&lt;b</div>`,
		},
		{
			name: "internal props are skipped",
			node: vdom.Div(vdom.RawAttr("key", "k1"), vdom.RawAttr("_ref", "x")),
			want: `<div></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.RenderToString(context.Background(), tt.node, tt.rc)
			if err != nil {
				t.Fatalf("RenderToString: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderShowDirective(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	show := directive.Show()

	hidden := vdom.WithDirectives(vdom.Div(), vdom.Dir(show, false, ""))
	got, err := renderer.RenderToString(context.Background(), hidden, nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if want := `<div style="display:none;"></div>`; got != want {
		t.Errorf("hidden = %q, want %q", got, want)
	}

	shown := vdom.WithDirectives(vdom.Div(), vdom.Dir(show, true, ""))
	got, err = renderer.RenderToString(context.Background(), shown, nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if want := `<div></div>`; got != want {
		t.Errorf("shown = %q, want %q", got, want)
	}
}

func TestRenderSkipsClientHooks(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	called := false
	def := &directive.Definition{
		Name: "focus",
		Hooks: directive.Hooks{
			Mounted: func(el *dom.Node, b *directive.Binding) error {
				called = true
				return nil
			},
		},
	}

	got, err := renderer.RenderToString(context.Background(), vdom.WithDirectives(vdom.Input(), vdom.Dir(def, nil, "")), nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if got != `<input>` {
		t.Errorf("got %q, want <input>", got)
	}
	if called {
		t.Error("client hook ran on the server path")
	}
}

func TestRenderMergeOrder(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	first := ssr("first", func(b *directive.Binding) (attrs.Props, error) {
		return attrs.Props{
			Style: map[string]string{"color": "red"},
			Class: "b",
			Attrs: map[string]any{"title": "from-first", "data-x": "1"},
		}, nil
	})
	second := ssr("second", func(b *directive.Binding) (attrs.Props, error) {
		return attrs.Props{
			Style: "color: blue; margin: 0",
			Class: []string{"a", "c"},
			Attrs: map[string]any{"title": "from-second", "data-x": nil},
		}, nil
	})

	node := vdom.WithDirectives(
		vdom.Div(vdom.Class("a"), vdom.StyleAttr("padding: 1px"), vdom.TitleAttr("static")),
		vdom.Dir(first, nil, ""),
		vdom.Dir(second, nil, ""),
	)

	got, err := renderer.RenderToString(context.Background(), node, nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	want := `<div class="a b c" style="padding:1px;color:blue;margin:0;" title="from-second"></div>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderContentDirectives(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	text := vdom.WithDirectives(vdom.P("old"), vdom.Dir(directive.Text(), "<b>x</b>", ""))
	got, err := renderer.RenderToString(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if want := `<p>&lt;b&gt;x&lt;/b&gt;</p>`; got != want {
		t.Errorf("v-text = %q, want %q", got, want)
	}

	html := vdom.WithDirectives(vdom.Div(), vdom.Dir(directive.HTML(nil), "<b>x</b>", ""))
	got, err = renderer.RenderToString(context.Background(), html, nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if want := `<div><b>x</b></div>`; got != want {
		t.Errorf("v-html = %q, want %q", got, want)
	}
}

func TestRenderHookError(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	boom := errors.New("boom")

	tests := []struct {
		name string
		hook directive.ServerHook
		want error
	}{
		{
			name: "error",
			hook: func(*directive.Binding) (attrs.Props, error) { return attrs.Props{}, boom },
			want: boom,
		},
		{
			name: "panic",
			hook: func(*directive.Binding) (attrs.Props, error) { panic("bad") },
		},
		{
			name: "invalid attribute name",
			hook: func(*directive.Binding) (attrs.Props, error) {
				return attrs.Props{Attrs: map[string]any{`x onmouseover="alert(1)" y`: "1"}}, nil
			},
			want: attrs.ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := vdom.Div(vdom.Span(), vdom.WithDirectives(vdom.Span(), vdom.Dir(ssr("fail", tt.hook), nil, "")))

			got, err := renderer.RenderToString(context.Background(), node, nil)
			if got != "" {
				t.Errorf("partial output %q returned", got)
			}
			var hookErr *directive.HookExecutionError
			if !errors.As(err, &hookErr) {
				t.Fatalf("error = %v, want *HookExecutionError", err)
			}
			if hookErr.Directive != "fail" || hookErr.Phase != directive.PhaseSSR {
				t.Errorf("hook error = %+v", hookErr)
			}
			if hookErr.Path != "div[0]>span[1]" {
				t.Errorf("Path = %q, want div[0]>span[1]", hookErr.Path)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error does not wrap %v", tt.want)
			}

			var buf bytes.Buffer
			buf.WriteString("prefix")
			if err := renderer.RenderToWriter(context.Background(), &buf, node, nil); err == nil {
				t.Fatal("RenderToWriter should fail")
			}
			if buf.String() != "prefix" {
				t.Errorf("RenderToWriter wrote %q on failure", buf.String())
			}
		})
	}
}

func TestRenderCancelledContext(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := renderer.RenderToString(ctx, vdom.Div(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	got, err := renderer.RenderToString(context.Background(), vdom.Div(vdom.P("a"), vdom.Span("b")), nil)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	want := "<div>\n  <p>a</p>\n  <span>b</span>\n</div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderConcurrent(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	tree := vdom.WithDirectives(vdom.Div(vdom.Interp("n")), vdom.Dir(directive.Show(), false, ""))

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := renderer.RenderToString(context.Background(), tree, data("n", i))
			if err != nil {
				errs <- err
				return
			}
			if want := fmt.Sprintf(`<div style="display:none;">%d</div>`, i); got != want {
				errs <- fmt.Errorf("got %q, want %q", got, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
