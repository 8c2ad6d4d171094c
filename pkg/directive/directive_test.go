package directive

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/dom"
)

func noop(*dom.Node, *Binding) error { return nil }

func TestShape(t *testing.T) {
	tests := []struct {
		name string
		def  *Definition
		want Shape
	}{
		{"nil", nil, Shape{}},
		{"empty", &Definition{}, Shape{}},
		{"client", &Definition{Hooks: Hooks{Updated: noop}}, Shape{HasClientHooks: true}},
		{"server", &Definition{SSR: func(*Binding) (attrs.Props, error) { return attrs.Props{}, nil }}, Shape{HasServerHook: true}},
		{"client only", &Definition{Hooks: Hooks{Mounted: noop}, ClientOnly: true}, Shape{HasClientHooks: true, ClientOnly: true}},
	}

	for _, tt := range tests {
		if got := tt.def.Shape(); got != tt.want {
			t.Errorf("%s: Shape = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestModifiers(t *testing.T) {
	var none Modifiers
	if none.Has("x") || len(none.Names()) != 0 {
		t.Error("nil set should be empty")
	}
	m := NewModifiers("stop", "once", "prevent")
	if diff := cmp.Diff([]string{"once", "prevent", "stop"}, m.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	b := NewBinding(&Definition{}, "x", 1, "", nil, nil)
	if b.Modifiers == nil {
		t.Error("binding modifiers must not be nil")
	}
}

func TestContext(t *testing.T) {
	var nilCtx *Context
	if nilCtx.Scope() != nil || nilCtx.StdContext() == nil {
		t.Error("nil context accessors")
	}
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, 1)
	c := &Context{Context: ctx, Data: map[string]any{"a": 1}}
	if c.StdContext() != ctx || c.Scope()["a"] != 1 {
		t.Error("context accessors")
	}
}

func TestCallHook(t *testing.T) {
	el := dom.NewElement("div")
	b := NewBinding(&Definition{}, "focus", nil, "", nil, nil)
	boom := errors.New("boom")

	if err := CallHook(nil, PhaseMounted, el, b, "div[0]"); err != nil {
		t.Errorf("nil hook = %v", err)
	}

	err := CallHook(func(*dom.Node, *Binding) error { return boom }, PhaseMounted, el, b, "div[0]")
	var hookErr *HookExecutionError
	if !errors.As(err, &hookErr) || !errors.Is(err, boom) {
		t.Fatalf("error = %v", err)
	}
	want := HookExecutionError{Directive: "focus", Phase: PhaseMounted, Path: "div[0]", Err: boom}
	if *hookErr != want {
		t.Errorf("error = %+v, want %+v", *hookErr, want)
	}
	if hookErr.Code() != CodeHookExecution {
		t.Errorf("Code = %q", hookErr.Code())
	}

	err = CallHook(func(*dom.Node, *Binding) error { panic("bad") }, PhaseUpdated, el, b, "div[0]")
	var p *PanicError
	if !errors.As(err, &p) || p.Value != "bad" {
		t.Errorf("panic error = %v", err)
	}
}

func TestCallServerHook(t *testing.T) {
	b := NewBinding(&Definition{}, "tint", nil, "", nil, nil)

	props, err := CallServerHook(nil, b, "p[0]")
	if err != nil || !props.IsZero() {
		t.Errorf("nil hook = %+v, %v", props, err)
	}

	_, err = CallServerHook(func(*Binding) (attrs.Props, error) { panic(7) }, b, "p[0]")
	var hookErr *HookExecutionError
	if !errors.As(err, &hookErr) || hookErr.Phase != PhaseSSR || hookErr.Path != "p[0]" {
		t.Errorf("error = %v", err)
	}
}

func TestBuiltinShow(t *testing.T) {
	show := Show()

	props, err := show.SSR(NewBinding(show, "show", false, "", nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	set, _ := attrs.Merge(nil, props)
	if got := set.String(); got != ` style="display:none;"` {
		t.Errorf("server = %q", got)
	}

	el := dom.NewElement("span")
	el.SetAttribute("style", "display: flex")
	if err := show.Hooks.BeforeMount(el, NewBinding(show, "show", 0, "", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if el.Style().Display() != "none" {
		t.Errorf("display = %q, want none", el.Style().Display())
	}

	up := NewBinding(show, "show", "yes", "", nil, nil)
	up.OldValue = 0
	if err := show.Hooks.Updated(el, up); err != nil {
		t.Fatal(err)
	}
	if el.Style().Display() != "flex" {
		t.Errorf("display = %q, want flex restored", el.Style().Display())
	}

	// A style rewrite while hidden keeps the element hidden, and the new
	// display applies once it is shown again.
	hide := NewBinding(show, "show", false, "", nil, nil)
	hide.OldValue = "yes"
	if err := show.Hooks.Updated(el, hide); err != nil {
		t.Fatal(err)
	}
	el.Style().Replace(attrs.ParseStyle("display: grid; color: red"))
	if got := el.Style().CSSText(); got != "display: none; color: red;" {
		t.Errorf("hidden after rewrite = %q", got)
	}
	reveal := NewBinding(show, "show", true, "", nil, nil)
	reveal.OldValue = false
	if err := show.Hooks.Updated(el, reveal); err != nil {
		t.Fatal(err)
	}
	if got := el.Style().CSSText(); got != "display: grid; color: red;" {
		t.Errorf("shown after rewrite = %q", got)
	}
}

func TestBuiltinTextAndHTML(t *testing.T) {
	text := Text()
	el := dom.NewElement("p")
	el.AppendChild(dom.NewElement("b"))
	if err := text.Hooks.BeforeMount(el, NewBinding(text, "text", 42, "", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if el.InnerHTML() != "42" {
		t.Errorf("v-text = %q", el.InnerHTML())
	}

	html := HTML(bluemonday.UGCPolicy())
	markup := `<b>ok</b><script>alert(1)</script>`
	props, err := html.SSR(NewBinding(html, "html", markup, "", nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := *props.InnerHTML; got != "<b>ok</b>" {
		t.Errorf("server markup = %q", got)
	}
	div := dom.NewElement("div")
	if err := html.Hooks.BeforeMount(div, NewBinding(html, "html", markup, "", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if got := div.InnerHTML(); got != "<b>ok</b>" {
		t.Errorf("client markup = %q", got)
	}
}

func TestBuiltinOn(t *testing.T) {
	on := On()
	el := dom.NewElement("button")
	calls := 0

	b := NewBinding(on, "on", func() { calls++ }, "click", NewModifiers("prevent"), nil)
	if err := on.Hooks.BeforeMount(el, b); err != nil {
		t.Fatal(err)
	}
	ev := &dom.Event{Type: "click"}
	el.DispatchEvent(ev)
	if calls != 1 || !ev.DefaultPrevented() {
		t.Errorf("calls = %d, prevented = %v", calls, ev.DefaultPrevented())
	}

	// Re-attaching replaces the listener instead of stacking a second one.
	if err := on.Hooks.Updated(el, b); err != nil {
		t.Fatal(err)
	}
	if el.ListenerCount("click") != 1 {
		t.Errorf("ListenerCount = %d, want 1", el.ListenerCount("click"))
	}

	if err := on.Hooks.Unmounted(el, b); err != nil {
		t.Fatal(err)
	}
	if el.ListenerCount("click") != 0 {
		t.Errorf("ListenerCount after unmount = %d", el.ListenerCount("click"))
	}

	if err := on.Hooks.BeforeMount(el, NewBinding(on, "on", "nope", "click", nil, nil)); err == nil {
		t.Error("non-function value should fail")
	}
	if err := on.Hooks.BeforeMount(el, NewBinding(on, "on", func() {}, "", nil, nil)); err == nil {
		t.Error("missing event argument should fail")
	}
}

func TestNewGlobalRegistry(t *testing.T) {
	r := NewGlobalRegistry()
	if diff := cmp.Diff([]string{"html", "on", "show", "text"}, r.Names()); diff != "" {
		t.Errorf("builtins mismatch (-want +got):\n%s", diff)
	}
	on, _ := r.Resolve("on")
	if !on.Shape().ClientOnly {
		t.Error("on should be ClientOnly")
	}
}
