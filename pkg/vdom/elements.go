package vdom

import (
	"github.com/vango-dev/vdirective/pkg/directive"
)

// H creates an element. This is the render-function form of a template,
// for callers that build trees in Go instead of compiling markup.
// Arguments can be: nil, Attr, []Attr, DynamicAttr, DirectiveUse,
// *VNode, []*VNode, or string (a text child).
func H(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case DynamicAttr:
			node.Dynamic = append(node.Dynamic, v)
		case DirectiveUse:
			node.Directives = append(node.Directives, v)
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// setAttr stores a static attribute. Repeated class and style values are
// joined so H mirrors how markup accumulates them.
func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if prev, ok := v.Props[a.Key].(string); ok && prev != "" {
		if next, ok := a.Value.(string); ok {
			switch a.Key {
			case "class":
				v.Props[a.Key] = prev + " " + next
				return
			case "style":
				v.Props[a.Key] = prev + ";" + next
				return
			}
		}
	}
	v.Props[a.Key] = a.Value
}

// Text creates a static text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Parts: []TextPart{{Static: content}}}
}

// Interp creates a text node that renders an expression.
func Interp(expression string) *VNode {
	return &VNode{Kind: KindText, Parts: []TextPart{{Expr: expression, IsExpr: true}}}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*VNode) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, c := range children {
		if c != nil {
			node.Children = append(node.Children, c)
		}
	}
	return node
}

// Bind creates an expression-bound attribute.
func Bind(name, expression string) DynamicAttr {
	return DynamicAttr{Name: name, Expr: expression}
}

// Dir attaches a definition directly, bypassing name resolution. The value
// is used as is on every pass.
func Dir(def *directive.Definition, value any, arg string, modifiers ...string) DirectiveUse {
	name := ""
	if def != nil {
		name = def.Name
	}
	if name == "" {
		name = "anonymous"
	}
	return DirectiveUse{
		Name:      name,
		Def:       def,
		Shape:     def.Shape(),
		Value:     value,
		Arg:       arg,
		Modifiers: directive.NewModifiers(modifiers...),
	}
}

// WithDirectives returns a copy of node with uses appended to its
// directives. The input node is not modified.
func WithDirectives(node *VNode, uses ...DirectiveUse) *VNode {
	if node == nil {
		return nil
	}
	out := *node
	out.Directives = append(append([]DirectiveUse(nil), node.Directives...), uses...)
	return &out
}

// Element factories for the tags most templates use.

func Div(args ...any) *VNode     { return H("div", args...) }
func Span(args ...any) *VNode    { return H("span", args...) }
func P(args ...any) *VNode       { return H("p", args...) }
func A(args ...any) *VNode       { return H("a", args...) }
func Button(args ...any) *VNode  { return H("button", args...) }
func Input(args ...any) *VNode   { return H("input", args...) }
func Label(args ...any) *VNode   { return H("label", args...) }
func Ul(args ...any) *VNode      { return H("ul", args...) }
func Li(args ...any) *VNode      { return H("li", args...) }
func Section(args ...any) *VNode { return H("section", args...) }
func Img(args ...any) *VNode     { return H("img", args...) }
