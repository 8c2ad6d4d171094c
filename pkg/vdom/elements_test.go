package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/dom"
)

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
	})

	t.Run("mixed arguments", func(t *testing.T) {
		node := Div(
			ID("main"),
			[]Attr{Class("a"), Class("b")},
			Bind("title", "label"),
			nil,
			Span(),
			[]*VNode{P(), nil},
			"text",
		)

		if diff := cmp.Diff(Props{"id": "main", "class": "a b"}, node.Props); diff != "" {
			t.Errorf("props mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]DynamicAttr{{Name: "title", Expr: "label"}}, node.Dynamic); diff != "" {
			t.Errorf("dynamic mismatch (-want +got):\n%s", diff)
		}
		if len(node.Children) != 3 {
			t.Fatalf("children = %d, want 3", len(node.Children))
		}
		if node.Children[2].Kind != KindText {
			t.Errorf("string child Kind = %v, want KindText", node.Children[2].Kind)
		}
	})

	t.Run("style accumulates", func(t *testing.T) {
		node := Div(StyleAttr("color: red"), StyleAttr("margin: 0"))
		if got := node.Props["style"]; got != "color: red;margin: 0" {
			t.Errorf("style = %q", got)
		}
	})

	t.Run("AttrIf", func(t *testing.T) {
		node := Input(AttrIf(false, Disabled()), AttrIf(true, Checked()))
		if _, ok := node.Props["disabled"]; ok {
			t.Error("disabled should be absent")
		}
		if node.Props["checked"] != true {
			t.Error("checked should be true")
		}
	})
}

func TestFragment(t *testing.T) {
	frag := Fragment(Span(), nil, P())
	if frag.Kind != KindFragment {
		t.Errorf("Kind = %v, want KindFragment", frag.Kind)
	}
	if len(frag.Children) != 2 {
		t.Errorf("children = %d, want 2", len(frag.Children))
	}
}

func TestDir(t *testing.T) {
	def := &directive.Definition{
		Name: "focus",
		Hooks: directive.Hooks{
			Mounted: func(el *dom.Node, b *directive.Binding) error { return nil },
		},
	}

	use := Dir(def, true, "arg", "lazy")
	if use.Name != "focus" {
		t.Errorf("Name = %q, want focus", use.Name)
	}
	if !use.Shape.HasClientHooks || use.Shape.HasServerHook {
		t.Errorf("Shape = %+v", use.Shape)
	}
	if !use.Modifiers.Has("lazy") {
		t.Error("missing lazy modifier")
	}

	if got := Dir(&directive.Definition{}, nil, "").Name; got != "anonymous" {
		t.Errorf("unnamed definition Name = %q, want anonymous", got)
	}
}

func TestWithDirectivesDoesNotMutate(t *testing.T) {
	base := Div()
	def := &directive.Definition{Name: "x"}

	a := WithDirectives(base, Dir(def, 1, ""))
	b := WithDirectives(a, Dir(def, 2, ""))

	if len(base.Directives) != 0 {
		t.Errorf("base directives = %d, want 0", len(base.Directives))
	}
	if len(a.Directives) != 1 || len(b.Directives) != 2 {
		t.Errorf("directive counts = %d, %d, want 1, 2", len(a.Directives), len(b.Directives))
	}
	if WithDirectives(nil, Dir(def, 1, "")) != nil {
		t.Error("WithDirectives(nil) should be nil")
	}
}
