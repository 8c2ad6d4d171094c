package directive

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/dom"
	"github.com/vango-dev/vdirective/pkg/expr"
)

// NewGlobalRegistry returns a root scope named "global" holding the
// built-in directives: show, text, html and on.
func NewGlobalRegistry() *Registry {
	r := NewRegistry("global", nil)
	r.MustRegister("show", Show())
	r.MustRegister("text", Text())
	r.MustRegister("html", HTML(bluemonday.UGCPolicy()))
	r.MustRegister("on", On())
	return r
}

// Show returns the visibility directive. A falsy value forces
// display:none over the element's own style; a truthy value releases it so
// the element's display, static or bound, applies again.
func Show() *Definition {
	setDisplay := func(el *dom.Node, visible bool) {
		if visible {
			el.Style().Unforce("display")
			return
		}
		el.Style().Force("display", "none")
	}
	return &Definition{
		Name: "show",
		Hooks: Hooks{
			BeforeMount: func(el *dom.Node, b *Binding) error {
				setDisplay(el, expr.Truthy(b.Value))
				return nil
			},
			Updated: func(el *dom.Node, b *Binding) error {
				if expr.Truthy(b.Value) == expr.Truthy(b.OldValue) {
					return nil
				}
				setDisplay(el, expr.Truthy(b.Value))
				return nil
			},
		},
		SSR: func(b *Binding) (attrs.Props, error) {
			if expr.Truthy(b.Value) {
				return attrs.Props{}, nil
			}
			return attrs.Props{Style: map[string]string{"display": "none"}}, nil
		},
	}
}

// Text returns the directive that replaces an element's children with the
// value as text.
func Text() *Definition {
	set := func(el *dom.Node, b *Binding) error {
		el.SetTextContent(expr.DisplayString(b.Value))
		return nil
	}
	return &Definition{
		Name:  "text",
		Hooks: Hooks{BeforeMount: set, Updated: set},
		SSR: func(b *Binding) (attrs.Props, error) {
			return attrs.Props{TextContent: attrs.String(expr.DisplayString(b.Value))}, nil
		},
	}
}

// Sanitizer cleans untrusted markup. *bluemonday.Policy implements it.
type Sanitizer interface {
	Sanitize(s string) string
}

// HTML returns the directive that replaces an element's children with the
// value as markup. Both paths run the markup through the same sanitizer so
// their output stays equivalent. A nil sanitizer trusts the markup.
func HTML(s Sanitizer) *Definition {
	clean := func(v any) string {
		markup := expr.DisplayString(v)
		if s != nil {
			markup = s.Sanitize(markup)
		}
		return markup
	}
	set := func(el *dom.Node, b *Binding) error {
		return el.SetInnerHTML(clean(b.Value))
	}
	return &Definition{
		Name:  "html",
		Hooks: Hooks{BeforeMount: set, Updated: set},
		SSR: func(b *Binding) (attrs.Props, error) {
			return attrs.Props{InnerHTML: attrs.String(clean(b.Value))}, nil
		},
	}
}

// On returns the event listener directive (v-on:click, @click). The value
// must be a dom.Listener, func(*dom.Event) or func(). Supported modifiers:
// prevent, stop, once. Listeners have no server representation, so the
// directive is ClientOnly.
func On() *Definition {
	storeKey := func(b *Binding) string { return "on:" + b.Arg }
	attach := func(el *dom.Node, b *Binding) error {
		if b.Arg == "" {
			return fmt.Errorf("v-on requires an event argument")
		}
		fn, err := listenerOf(b.Value)
		if err != nil {
			return err
		}
		if remove, ok := el.Store()[storeKey(b)].(func()); ok {
			remove()
		}
		wrapped := func(ev *dom.Event) {
			if b.Modifiers.Has("prevent") {
				ev.PreventDefault()
			}
			if b.Modifiers.Has("stop") {
				ev.StopPropagation()
			}
			fn(ev)
		}
		var remove func()
		if b.Modifiers.Has("once") {
			remove = el.AddEventListenerOnce(b.Arg, wrapped)
		} else {
			remove = el.AddEventListener(b.Arg, wrapped)
		}
		el.Store()[storeKey(b)] = remove
		return nil
	}
	return &Definition{
		Name: "on",
		Hooks: Hooks{
			BeforeMount: attach,
			Updated:     attach,
			Unmounted: func(el *dom.Node, b *Binding) error {
				if remove, ok := el.Store()[storeKey(b)].(func()); ok {
					remove()
					delete(el.Store(), storeKey(b))
				}
				return nil
			},
		},
		ClientOnly: true,
	}
}

func listenerOf(v any) (dom.Listener, error) {
	switch fn := v.(type) {
	case dom.Listener:
		return fn, nil
	case func(*dom.Event):
		return fn, nil
	case func():
		return func(*dom.Event) { fn() }, nil
	default:
		return nil, fmt.Errorf("v-on value must be a function, got %T", v)
	}
}
