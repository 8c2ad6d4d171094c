package client

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/dom"
	"github.com/vango-dev/vdirective/pkg/expr"
	"github.com/vango-dev/vdirective/pkg/vdom"
)

// ErrUnmounted is returned by Patch after Unmount.
var ErrUnmounted = errors.New("client: instance is unmounted")

type options struct {
	evaluator expr.Evaluator
	logger    *slog.Logger
}

// Option configures a mount.
type Option func(*options)

// WithEvaluator sets the expression evaluator. A nil evaluator keeps the
// default.
func WithEvaluator(ev expr.Evaluator) Option {
	return func(o *options) {
		if ev != nil {
			o.evaluator = ev
		}
	}
}

// WithLogger sets the logger for hook failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type state uint8

const (
	stateUnmounted state = iota
	stateMounted
)

// mounted tracks one live node and the values it was last rendered with.
type mounted struct {
	vnode    *vdom.VNode
	el       *dom.Node
	path     string
	state    state
	dynamic  []any
	base     *attrs.Set
	values   []any
	children []*mounted
}

// unevaluated marks a dynamic attribute whose expression failed at mount.
var unevaluated = new(struct{})

// Instance is a mounted tree.
type Instance struct {
	mu        sync.Mutex
	container *dom.Node
	roots     []*mounted
	rc        *directive.Context
	opts      options
	done      bool
}

// Mount renders root into container and runs mount hooks. When container
// is nil a detached <div> is created.
//
// The returned Instance is usable even when err is non-nil: hook failures
// are reported but do not unwind the mount.
func Mount(root *vdom.VNode, rc *directive.Context, container *dom.Node, opts ...Option) (*Instance, error) {
	if root == nil {
		return nil, errors.New("client: nil tree")
	}
	o := options{evaluator: expr.Default, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if container == nil {
		container = dom.NewElement("div")
	}
	if rc == nil {
		rc = &directive.Context{}
	}

	inst := &Instance{container: container, rc: rc, opts: o}
	var errs []error
	inst.roots = inst.build(root, "", 0, &errs)
	for _, m := range inst.roots {
		container.AppendChild(m.el)
	}
	for _, m := range inst.roots {
		inst.walkPre(m, func(n *mounted) {
			n.state = stateMounted
			errs = appendErr(errs, inst.runPhase(n, directive.PhaseMounted, nil))
		})
	}
	return inst, inst.report(errs)
}

// Container returns the node the tree was mounted into.
func (i *Instance) Container() *dom.Node { return i.container }

// Root returns the first top-level element, or nil.
func (i *Instance) Root() *dom.Node {
	for _, m := range i.roots {
		if m.el.Type() == dom.ElementNode {
			return m.el
		}
	}
	return nil
}

// build creates live nodes for v. Fragments expand into their children.
func (i *Instance) build(v *vdom.VNode, parentPath string, idx int, errs *[]error) []*mounted {
	switch v.Kind {
	case vdom.KindFragment:
		return i.buildChildren(v.Children, parentPath, errs)
	case vdom.KindText:
		text, err := v.EvalText(i.opts.evaluator, i.rc)
		*errs = appendErr(*errs, err)
		return []*mounted{{vnode: v, el: dom.NewText(text), path: parentPath}}
	}

	path := v.Tag + "[" + strconv.Itoa(idx) + "]"
	if parentPath != "" {
		path = parentPath + ">" + path
	}
	m := &mounted{vnode: v, el: dom.NewElement(v.Tag), path: path}

	m.dynamic = make([]any, len(v.Dynamic))
	for j, d := range v.Dynamic {
		val, err := i.opts.evaluator.Eval(d.Expr, i.rc.Scope())
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: :%s=%q: %w", path, d.Name, d.Expr, err))
			val = unevaluated
		}
		m.dynamic[j] = val
	}
	base, err := baseAttrs(v, m.dynamic, path)
	if err != nil {
		*errs = append(*errs, err)
		base = attrs.NewSet()
	}
	applyBase(m.el, nil, base)
	m.base = base

	m.children = i.buildChildren(v.Children, path, errs)
	for _, c := range m.children {
		m.el.AppendChild(c.el)
	}

	m.values = make([]any, len(v.Directives))
	*errs = appendErr(*errs, i.runPhase(m, directive.PhaseBeforeMount, nil))
	// Children replaced by a hook (v-text, v-html) never enter the document.
	m.children, _ = splitAttached(m)
	return []*mounted{m}
}

// splitAttached separates the children still attached to m's element from
// those a hook detached.
func splitAttached(m *mounted) (attached, detached []*mounted) {
	for _, c := range m.children {
		if c.el.Parent() == m.el {
			attached = append(attached, c)
		} else {
			detached = append(detached, c)
		}
	}
	return attached, detached
}

// baseAttrs merges the static and dynamic attributes of v in the order the
// server renderer uses.
func baseAttrs(v *vdom.VNode, dynamic []any, path string) (*attrs.Set, error) {
	set := attrs.NewSet()
	keys := make([]string, 0, len(v.Props))
	for k := range v.Props {
		if k != "key" && !strings.HasPrefix(k, "_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := set.Put(k, v.Props[k]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	for j, d := range v.Dynamic {
		if dynamic[j] == unevaluated {
			continue
		}
		if err := set.Put(d.Name, dynamic[j]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return set, nil
}

// applyBase moves el from the attributes of prev to those of next. Only
// values that still hold what prev wrote are touched, so style, class and
// attribute changes made by directive hooks survive a re-render.
func applyBase(el *dom.Node, prev, next *attrs.Set) {
	if prev == nil {
		prev = attrs.NewSet()
	}

	_, prevStyled := prev.Get("style")
	_, nextStyled := next.Get("style")
	if prevStyled || nextStyled {
		inline := el.Style().Inline()
		out := inline
		for _, d := range prev.Style() {
			if next.Style().Get(d.Property) == "" && inline.Get(d.Property) == d.Value {
				out = out.Delete(d.Property)
			}
		}
		for _, d := range next.Style() {
			if inline.Get(d.Property) == prev.Style().Get(d.Property) {
				out = out.Set(d.Property, d.Value)
			}
		}
		switch {
		case !nextStyled && len(out) == 0:
			el.RemoveAttribute("style")
		case !el.HasAttribute("style") || out.CSSText() != inline.CSSText():
			el.Style().Replace(out)
		}
	}

	_, prevClassed := prev.Get("class")
	_, nextClassed := next.Get("class")
	if prevClassed || nextClassed {
		cl := el.ClassList()
		var drop, add []string
		for _, t := range prev.Class() {
			if !slices.Contains(next.Class(), t) {
				drop = append(drop, t)
			}
		}
		for _, t := range next.Class() {
			if !slices.Contains(prev.Class(), t) {
				add = append(add, t)
			}
		}
		if len(drop) > 0 {
			cl.Remove(drop...)
		}
		if len(add) > 0 || (nextClassed && !el.HasAttribute("class")) {
			cl.Add(add...)
		}
		if !nextClassed && len(cl.Values()) == 0 {
			el.RemoveAttribute("class")
		}
	}

	written := make(map[string]string)
	for _, a := range prev.Attrs() {
		if a.Name != "style" && a.Name != "class" {
			written[a.Name] = a.Value
		}
	}
	keep := make(map[string]bool)
	for _, a := range next.Attrs() {
		if a.Name == "style" || a.Name == "class" {
			continue
		}
		keep[a.Name] = true
		cur, has := el.GetAttribute(a.Name)
		if old, ok := written[a.Name]; ok && (!has || cur != old) {
			continue
		}
		if !has || cur != a.Value {
			el.SetAttribute(a.Name, a.Value)
		}
	}
	for name, old := range written {
		if keep[name] {
			continue
		}
		if cur, has := el.GetAttribute(name); has && cur == old {
			el.RemoveAttribute(name)
		}
	}
}

func (i *Instance) buildChildren(children []*vdom.VNode, parentPath string, errs *[]error) []*mounted {
	var out []*mounted
	idx := 0
	for _, c := range children {
		out = append(out, i.build(c, parentPath, idx, errs)...)
		if c.Kind == vdom.KindElement {
			idx++
		}
	}
	return out
}

// runPhase invokes the hook for phase on every directive of m, stopping at
// the first failure. For PhaseUpdated, changed selects which directives
// run; for other phases the current values are evaluated (BeforeMount) or
// reused.
func (i *Instance) runPhase(m *mounted, phase directive.Phase, changed []bool) error {
	for j, use := range m.vnode.Directives {
		if phase == directive.PhaseBeforeMount {
			val, err := use.Eval(i.opts.evaluator, i.rc)
			if err != nil {
				return fmt.Errorf("%s: v-%s=%q: %w", m.path, use.Name, use.Expr, err)
			}
			m.values[j] = val
		}
		if !use.Shape.HasClientHooks {
			continue
		}
		if phase == directive.PhaseUpdated && !changed[j] {
			continue
		}
		fn := use.Def.Hooks.Hook(phase)
		if fn == nil {
			continue
		}
		if err := directive.CallHook(fn, phase, m.el, use.Binding(m.values[j], i.rc), m.path); err != nil {
			return err
		}
	}
	return nil
}

// Patch re-renders the tree against rc. Dynamic attributes and text are
// re-applied when their values change, and Updated hooks run for changed
// directive values.
func (i *Instance) Patch(rc *directive.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.done {
		return ErrUnmounted
	}
	if rc == nil {
		rc = &directive.Context{}
	}
	i.rc = rc

	var errs []error
	for _, m := range i.roots {
		i.walkPre(m, func(n *mounted) {
			if n.state != stateMounted {
				return
			}
			errs = appendErr(errs, i.patchNode(n))
			// An Updated hook may have replaced the children.
			attached, detached := splitAttached(n)
			for _, c := range detached {
				errs = append(errs, i.unmount(c)...)
			}
			n.children = attached
		})
	}
	return i.report(errs)
}

func (i *Instance) patchNode(m *mounted) error {
	v := m.vnode
	if v.Kind == vdom.KindText {
		if v.IsStatic() {
			return nil
		}
		text, err := v.EvalText(i.opts.evaluator, i.rc)
		if err != nil {
			return err
		}
		if text != m.el.Data() {
			m.el.SetTextContent(text)
		}
		return nil
	}

	dirty := false
	for j, d := range v.Dynamic {
		val, err := i.opts.evaluator.Eval(d.Expr, i.rc.Scope())
		if err != nil {
			return fmt.Errorf("%s: :%s=%q: %w", m.path, d.Name, d.Expr, err)
		}
		if !reflect.DeepEqual(val, m.dynamic[j]) {
			m.dynamic[j] = val
			dirty = true
		}
	}
	if dirty {
		next, err := baseAttrs(v, m.dynamic, m.path)
		if err != nil {
			return err
		}
		applyBase(m.el, m.base, next)
		m.base = next
	}

	if len(v.Directives) == 0 {
		return nil
	}
	changed := make([]bool, len(v.Directives))
	olds := make([]any, len(v.Directives))
	for j, use := range v.Directives {
		val, err := use.Eval(i.opts.evaluator, i.rc)
		if err != nil {
			return fmt.Errorf("%s: v-%s=%q: %w", m.path, use.Name, use.Expr, err)
		}
		olds[j] = m.values[j]
		if !reflect.DeepEqual(val, m.values[j]) {
			changed[j] = true
			m.values[j] = val
		}
	}
	for j, use := range v.Directives {
		if !changed[j] || !use.Shape.HasClientHooks || use.Def.Hooks.Updated == nil {
			continue
		}
		b := use.Binding(m.values[j], i.rc)
		b.OldValue = olds[j]
		if err := directive.CallHook(use.Def.Hooks.Updated, directive.PhaseUpdated, m.el, b, m.path); err != nil {
			return err
		}
	}
	return nil
}

// Unmount runs Unmounted hooks children-first and detaches the tree from
// the container. Calling it again is a no-op.
func (i *Instance) Unmount() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.done {
		return nil
	}
	i.done = true

	var errs []error
	for _, m := range i.roots {
		errs = append(errs, i.unmount(m)...)
		m.el.Remove()
	}
	i.roots = nil
	return i.report(errs)
}

// Remove unmounts the subtree rooted at el and detaches it, as a
// structural removal would. Descendants receive their Unmounted hooks
// before el does.
func (i *Instance) Remove(el *dom.Node) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	parent, m, idx := i.find(el)
	if m == nil {
		return fmt.Errorf("client: node is not part of this instance")
	}
	errs := i.unmount(m)
	el.Remove()
	if parent == nil {
		i.roots = append(i.roots[:idx], i.roots[idx+1:]...)
	} else {
		parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	}
	return i.report(errs)
}

func (i *Instance) unmount(m *mounted) []error {
	var errs []error
	i.walkPost(m, func(n *mounted) {
		if n.state != stateMounted {
			return
		}
		n.state = stateUnmounted
		errs = appendErr(errs, i.runPhase(n, directive.PhaseUnmounted, nil))
	})
	return errs
}

func (i *Instance) find(el *dom.Node) (parent, found *mounted, idx int) {
	var search func(p *mounted, list []*mounted) bool
	search = func(p *mounted, list []*mounted) bool {
		for j, m := range list {
			if m.el == el {
				parent, found, idx = p, m, j
				return true
			}
			if search(m, m.children) {
				return true
			}
		}
		return false
	}
	search(nil, i.roots)
	return parent, found, idx
}

func (i *Instance) walkPre(m *mounted, fn func(*mounted)) {
	fn(m)
	for _, c := range m.children {
		i.walkPre(c, fn)
	}
}

func (i *Instance) walkPost(m *mounted, fn func(*mounted)) {
	for _, c := range m.children {
		i.walkPost(c, fn)
	}
	fn(m)
}

func (i *Instance) report(errs []error) error {
	for _, err := range errs {
		var herr *directive.HookExecutionError
		if errors.As(err, &herr) {
			i.opts.logger.Error("directive hook failed",
				"directive", herr.Directive,
				"phase", string(herr.Phase),
				"path", herr.Path,
				"error", herr.Err,
			)
		}
	}
	return errors.Join(errs...)
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		errs = append(errs, err)
	}
	return errs
}
