package directive

import (
	"context"
	"sort"
)

// Context is the render context supplied by the component system. It is
// passed by pointer into every hook through Binding.Instance.
type Context struct {
	// Context carries cancellation and tracing for the render pass.
	Context context.Context

	// Instance is the current component instance, if any.
	Instance any

	// Parents is the chain of ancestor instances, nearest first.
	Parents []any

	// Data is the scope that value expressions are evaluated against.
	Data map[string]any
}

// StdContext returns c.Context, or context.Background when unset.
func (c *Context) StdContext() context.Context {
	if c == nil || c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// Scope returns c.Data, tolerating a nil receiver.
func (c *Context) Scope() map[string]any {
	if c == nil {
		return nil
	}
	return c.Data
}

// Modifiers is a set of directive modifiers (v-name.trim.lazy).
// A nil set and an empty set are equivalent.
type Modifiers map[string]bool

// NewModifiers builds a set from names.
func NewModifiers(names ...string) Modifiers {
	if len(names) == 0 {
		return nil
	}
	m := make(Modifiers, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Has reports whether the modifier is set.
func (m Modifiers) Has(name string) bool { return m[name] }

// Names returns the modifiers in sorted order.
func (m Modifiers) Names() []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Binding pairs a directive usage site with its value for one render pass.
type Binding struct {
	// Name is the resolved directive name.
	Name string

	// Value is the evaluated value for this pass.
	Value any

	// OldValue is the value from the previous pass. It is nil on mount and
	// on the server.
	OldValue any

	// Arg is the argument after the colon (v-name:arg).
	Arg string

	// Modifiers is never nil inside a hook.
	Modifiers Modifiers

	// Instance is the render context of the pass.
	Instance *Context

	// Def is the resolved definition.
	Def *Definition
}

// NewBinding creates a binding with a non-nil modifier set.
func NewBinding(def *Definition, name string, value any, arg string, mods Modifiers, rc *Context) *Binding {
	if mods == nil {
		mods = Modifiers{}
	}
	return &Binding{
		Name:      name,
		Value:     value,
		Arg:       arg,
		Modifiers: mods,
		Instance:  rc,
		Def:       def,
	}
}
