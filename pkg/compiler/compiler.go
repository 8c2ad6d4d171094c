package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/template"
	"github.com/vango-dev/vdirective/pkg/vdom"
)

// Policy decides how a directive without a server hook is treated in a
// server-targeted compilation.
type Policy uint8

const (
	// PolicyStrict fails compilation with *directive.MissingServerHookError.
	PolicyStrict Policy = iota

	// PolicyLenient compiles the directive as a server no-op and logs a
	// warning.
	PolicyLenient
)

// String returns the policy name.
func (p Policy) String() string {
	if p == PolicyLenient {
		return "lenient"
	}
	return "strict"
}

// ParsePolicy parses "strict" or "lenient".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	}
	return PolicyStrict, fmt.Errorf("compiler: unknown policy %q", s)
}

// Target selects the render paths a compilation is for.
type Target uint8

const (
	TargetBoth Target = iota
	TargetClient
	TargetServer
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetClient:
		return "client"
	case TargetServer:
		return "server"
	}
	return "both"
}

func (t Target) includesServer() bool { return t != TargetClient }

type options struct {
	policy Policy
	target Target
	logger *slog.Logger
}

// Option configures a compilation.
type Option func(*options)

// WithPolicy sets the missing server hook policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithTarget sets the render paths the output is for.
func WithTarget(t Target) Option {
	return func(o *options) { o.target = t }
}

// WithLogger sets the logger used for lenient-policy warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{policy: PolicyStrict, target: TargetBoth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// CompileString parses src and compiles it.
func CompileString(src string, reg *directive.Registry, opts ...Option) (*vdom.VNode, error) {
	tree, err := template.Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(tree, reg, opts...)
}

// Compile resolves every directive usage in tree against reg and returns
// the compiled tree. A template with a single top-level element compiles
// to that element; otherwise the result is a fragment.
//
// All resolution failures are reported together, joined with errors.Join.
// The input tree is not modified.
func Compile(tree *template.Node, reg *directive.Registry, opts ...Option) (*vdom.VNode, error) {
	if tree == nil {
		return nil, errors.New("compiler: nil template")
	}
	if reg == nil {
		return nil, errors.New("compiler: nil registry")
	}
	c := &compilation{reg: reg, opts: buildOptions(opts)}

	var out *vdom.VNode
	if tree.Type == template.FragmentNode {
		frag := &vdom.VNode{Kind: vdom.KindFragment}
		c.children(frag, tree.Children, "")
		out = frag
		if len(frag.Children) == 1 && frag.Children[0].Kind == vdom.KindElement {
			out = frag.Children[0]
		}
	} else {
		out = c.node(tree, "", 0)
	}

	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}
	return out, nil
}

type compilation struct {
	reg  *directive.Registry
	opts options
	errs []error
}

func (c *compilation) children(parent *vdom.VNode, nodes []*template.Node, parentPath string) {
	idx := 0
	for _, n := range nodes {
		parent.Children = append(parent.Children, c.node(n, parentPath, idx))
		if n.Type == template.ElementNode {
			idx++
		}
	}
}

func (c *compilation) node(n *template.Node, parentPath string, idx int) *vdom.VNode {
	switch n.Type {
	case template.TextNode:
		parts := make([]vdom.TextPart, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = vdom.TextPart{Static: p.Static, Expr: p.Expr, IsExpr: p.IsExpr}
		}
		return &vdom.VNode{Kind: vdom.KindText, Parts: parts}
	case template.FragmentNode:
		frag := &vdom.VNode{Kind: vdom.KindFragment}
		c.children(frag, n.Children, parentPath)
		return frag
	}

	path := n.Tag + "[" + strconv.Itoa(idx) + "]"
	if parentPath != "" {
		path = parentPath + ">" + path
	}

	el := &vdom.VNode{
		Kind:  vdom.KindElement,
		Tag:   n.Tag,
		Props: make(vdom.Props, len(n.Attrs)),
	}
	for _, a := range n.Attrs {
		el.Props[a.Name] = staticValue(a)
	}
	for _, d := range n.Dynamic {
		el.Dynamic = append(el.Dynamic, vdom.DynamicAttr{Name: d.Name, Expr: d.Expr})
	}
	for _, u := range n.Directives {
		if use, ok := c.resolve(u, path); ok {
			el.Directives = append(el.Directives, use)
		}
	}
	c.children(el, n.Children, path)
	return el
}

// staticValue maps an attribute to its prop value. Boolean attributes
// written bare (<input disabled>) become true.
func staticValue(a template.Attr) any {
	if a.Value == "" && attrs.IsBooleanAttr(a.Name) {
		return true
	}
	return a.Value
}

func (c *compilation) resolve(u template.Usage, path string) (vdom.DirectiveUse, bool) {
	def, err := c.reg.Resolve(u.Name)
	if err != nil {
		var unresolved *directive.UnresolvedDirectiveError
		if errors.As(err, &unresolved) {
			unresolved.Path = path
		}
		c.errs = append(c.errs, err)
		return vdom.DirectiveUse{}, false
	}

	shape := def.Shape()
	name := directive.NormalizeName(u.Name)
	if c.opts.target.includesServer() && shape.HasClientHooks && !shape.HasServerHook && !shape.ClientOnly {
		if c.opts.policy == PolicyStrict {
			c.errs = append(c.errs, &directive.MissingServerHookError{Name: name, Path: path})
			return vdom.DirectiveUse{}, false
		}
		c.opts.logger.Warn("directive has no SSR hook; server output omits its effect",
			"directive", name,
			"path", path,
		)
	}

	return vdom.DirectiveUse{
		Name:      name,
		Def:       def,
		Shape:     shape,
		Expr:      u.Expr,
		Arg:       u.Arg,
		Modifiers: directive.NewModifiers(u.Modifiers...),
	}, true
}
