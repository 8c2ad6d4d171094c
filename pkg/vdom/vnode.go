package vdom

import (
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/expr"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Text, possibly with interpolations
	KindFragment              // Grouping without wrapper
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// VNode is a compiled template node. Both render paths walk the same tree
// and neither mutates it, so one tree can serve any number of concurrent
// server renders and client mounts.
type VNode struct {
	Kind       VKind
	Tag        string         // Element tag name (e.g., "div")
	Props      Props          // Static attributes
	Dynamic    []DynamicAttr  // Expression-bound attributes
	Directives []DirectiveUse // In usage order
	Children   []*VNode
	Parts      []TextPart // For KindText
}

// Props holds static attributes.
type Props map[string]any

// Attr represents a single static attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// DynamicAttr is an attribute evaluated on every render pass.
type DynamicAttr struct {
	Name string
	Expr string
}

// TextPart is static text or an interpolated expression.
type TextPart struct {
	Static string
	Expr   string
	IsExpr bool
}

// DirectiveUse is a directive attached to an element with its definition
// already resolved.
type DirectiveUse struct {
	Name  string
	Def   *directive.Definition
	Shape directive.Shape

	// Expr is evaluated each pass. When empty, Value is used as is.
	Expr  string
	Value any

	Arg       string
	Modifiers directive.Modifiers
}

// Eval returns the value of the usage for one pass.
func (u DirectiveUse) Eval(ev expr.Evaluator, rc *directive.Context) (any, error) {
	if u.Expr == "" {
		return u.Value, nil
	}
	if ev == nil {
		ev = expr.Default
	}
	return ev.Eval(u.Expr, rc.Scope())
}

// Binding creates the per-pass binding for the usage.
func (u DirectiveUse) Binding(value any, rc *directive.Context) *directive.Binding {
	return directive.NewBinding(u.Def, u.Name, value, u.Arg, u.Modifiers, rc)
}

// IsStatic reports whether a text node has no interpolations.
func (v *VNode) IsStatic() bool {
	for _, p := range v.Parts {
		if p.IsExpr {
			return false
		}
	}
	return true
}

// EvalText returns the evaluated text of a KindText node.
func (v *VNode) EvalText(ev expr.Evaluator, rc *directive.Context) (string, error) {
	if ev == nil {
		ev = expr.Default
	}
	if len(v.Parts) == 1 && !v.Parts[0].IsExpr {
		return v.Parts[0].Static, nil
	}
	var out []byte
	for _, p := range v.Parts {
		if !p.IsExpr {
			out = append(out, p.Static...)
			continue
		}
		val, err := ev.Eval(p.Expr, rc.Scope())
		if err != nil {
			return "", err
		}
		out = append(out, expr.DisplayString(val)...)
	}
	return string(out), nil
}

// Walk calls fn for v and each descendant in document order. Returning
// false from fn skips the node's children.
func (v *VNode) Walk(fn func(*VNode) bool) {
	if v == nil || !fn(v) {
		return
	}
	for _, c := range v.Children {
		c.Walk(fn)
	}
}
