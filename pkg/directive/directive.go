package directive

import (
	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/dom"
)

// HookFunc is a client lifecycle hook. It runs against the live node.
type HookFunc func(el *dom.Node, b *Binding) error

// ServerHook computes the props that reproduce a directive's effect in a
// server-rendered string. It never sees a live node.
type ServerHook func(b *Binding) (attrs.Props, error)

// Hooks is the client lifecycle hook set. Every hook is optional.
type Hooks struct {
	// BeforeMount runs after the element is created and its attributes
	// applied, before it is inserted into its parent.
	BeforeMount HookFunc

	// Mounted runs after the element is inserted. Parents run before
	// their children.
	Mounted HookFunc

	// Updated runs after a patch in which the bound value changed.
	Updated HookFunc

	// Unmounted runs once when the element is removed. Children run
	// before their parents.
	Unmounted HookFunc
}

// Empty reports whether no hook is set.
func (h Hooks) Empty() bool {
	return h.BeforeMount == nil && h.Mounted == nil && h.Updated == nil && h.Unmounted == nil
}

// Definition is a registered directive.
type Definition struct {
	// Name is filled in by Registry.Register when left empty.
	Name string

	Hooks Hooks

	// SSR is the server hook. Nil means the directive has no server effect.
	SSR ServerHook

	// ClientOnly declares that a missing SSR hook is intentional.
	ClientOnly bool
}

// Shape is the hook layout of a definition, computed once at compile time
// so render paths branch on a known shape instead of probing for hooks.
type Shape struct {
	HasClientHooks bool
	HasServerHook  bool
	ClientOnly     bool
}

// Shape returns the hook layout of d.
func (d *Definition) Shape() Shape {
	if d == nil {
		return Shape{}
	}
	return Shape{
		HasClientHooks: !d.Hooks.Empty(),
		HasServerHook:  d.SSR != nil,
		ClientOnly:     d.ClientOnly,
	}
}

// Phase names a lifecycle phase, used in errors and metrics.
type Phase string

const (
	PhaseBeforeMount Phase = "beforeMount"
	PhaseMounted     Phase = "mounted"
	PhaseUpdated     Phase = "updated"
	PhaseUnmounted   Phase = "unmounted"
	PhaseSSR         Phase = "ssr"
)

// Hook returns the client hook for a phase, or nil.
func (h Hooks) Hook(p Phase) HookFunc {
	switch p {
	case PhaseBeforeMount:
		return h.BeforeMount
	case PhaseMounted:
		return h.Mounted
	case PhaseUpdated:
		return h.Updated
	case PhaseUnmounted:
		return h.Unmounted
	}
	return nil
}
