package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/expr"
	"github.com/vango-dev/vdirective/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for server renders.
const defaultTracerName = "vdirective/render"

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Escaper escapes attribute values. Defaults to attrs.DefaultEscaper.
	Escaper attrs.Escaper

	// Evaluator evaluates directive values, dynamic attributes and
	// interpolations. Defaults to expr.Default.
	Evaluator expr.Evaluator

	// TracerName names the OpenTelemetry tracer (default "vdirective/render").
	TracerName string
}

// Renderer renders compiled trees to HTML. It holds no per-render state,
// so one Renderer may serve concurrent renders of the same tree.
type Renderer struct {
	config RendererConfig
	tracer trace.Tracer
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.Escaper == nil {
		config.Escaper = attrs.DefaultEscaper
	}
	if config.Evaluator == nil {
		config.Evaluator = expr.Default
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}
	return &Renderer{
		config: config,
		tracer: otel.Tracer(config.TracerName),
	}
}

// RenderToString renders node to an HTML string. On error the returned
// string is empty; partial output is never returned.
func (r *Renderer) RenderToString(ctx context.Context, node *vdom.VNode, rc *directive.Context) (string, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, &buf, node, rc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter renders node into w. Output is buffered and written only
// after the whole tree rendered, so a failed render writes nothing.
func (r *Renderer) RenderToWriter(ctx context.Context, w io.Writer, node *vdom.VNode, rc *directive.Context) error {
	var buf bytes.Buffer
	if err := r.render(ctx, &buf, node, rc); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) render(ctx context.Context, buf *bytes.Buffer, node *vdom.VNode, rc *directive.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := r.tracer.Start(ctx, "vdirective.render",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	// The caller's context struct is copied so the pass can carry the span
	// context without mutating shared state.
	pc := directive.Context{}
	if rc != nil {
		pc = *rc
	}
	pc.Context = ctx

	p := &pass{r: r, ctx: ctx, rc: &pc, w: buf}
	err := p.node(node, "", 0, 0)
	span.SetAttributes(
		attribute.Int("vdirective.elements", p.elements),
		attribute.Int("vdirective.server_hooks", p.hooks),
	)
	if err != nil {
		buf.Reset()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// pass is the state of one render call.
type pass struct {
	r   *Renderer
	ctx context.Context
	rc  *directive.Context
	w   *bytes.Buffer

	elements int
	hooks    int
}

// node dispatches rendering based on node kind.
func (p *pass) node(node *vdom.VNode, parentPath string, idx, depth int) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case vdom.KindElement:
		return p.element(node, childPath(parentPath, node.Tag, idx), depth)
	case vdom.KindText:
		return p.text(node)
	case vdom.KindFragment:
		return p.children(node.Children, parentPath, depth)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func (p *pass) children(children []*vdom.VNode, parentPath string, depth int) error {
	idx := 0
	for _, child := range children {
		if err := p.node(child, parentPath, idx, depth); err != nil {
			return err
		}
		if child.Kind == vdom.KindElement {
			idx++
		}
	}
	return nil
}

// element renders an HTML element with its merged attributes and children.
func (p *pass) element(node *vdom.VNode, path string, depth int) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	p.elements++

	set, err := p.attributes(node, path)
	if err != nil {
		return err
	}

	cfg := p.r.config
	if cfg.Pretty && depth > 0 {
		p.writeIndent(depth)
	}
	p.w.WriteByte('<')
	p.w.WriteString(node.Tag)
	if err := set.Render(p.w, cfg.Escaper); err != nil {
		return err
	}
	p.w.WriteByte('>')

	if isVoidElement(node.Tag) {
		if cfg.Pretty {
			p.w.WriteByte('\n')
		}
		return nil
	}

	if markup, ok := set.InnerHTML(); ok {
		p.w.WriteString(markup)
	} else if text, ok := set.TextContent(); ok {
		p.w.WriteString(attrs.EscapeText(text))
	} else {
		hasBlockChildren := !isInlineElement(node.Tag) && hasElementChild(node)
		if cfg.Pretty && hasBlockChildren {
			p.w.WriteByte('\n')
		}
		if err := p.children(node.Children, path, depth+1); err != nil {
			return err
		}
		if cfg.Pretty && hasBlockChildren {
			p.writeIndent(depth)
		}
	}

	p.w.WriteString("</")
	p.w.WriteString(node.Tag)
	p.w.WriteByte('>')
	if cfg.Pretty {
		p.w.WriteByte('\n')
	}
	return nil
}

// attributes merges static attributes, dynamic attributes and directive
// server props, in that order.
func (p *pass) attributes(node *vdom.VNode, path string) (*attrs.Set, error) {
	set := attrs.NewSet()

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		// Internal props are never rendered.
		if key == "key" || strings.HasPrefix(key, "_") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := set.Put(key, node.Props[key]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	ev := p.r.config.Evaluator
	for _, dyn := range node.Dynamic {
		val, err := ev.Eval(dyn.Expr, p.rc.Scope())
		if err != nil {
			return nil, fmt.Errorf("%s: :%s=%q: %w", path, dyn.Name, dyn.Expr, err)
		}
		if err := set.Put(dyn.Name, val); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	for _, use := range node.Directives {
		// Client hooks are never consulted here; only the SSR hook is.
		if !use.Shape.HasServerHook {
			continue
		}
		val, err := use.Eval(ev, p.rc)
		if err != nil {
			return nil, fmt.Errorf("%s: v-%s=%q: %w", path, use.Name, use.Expr, err)
		}
		props, err := directive.CallServerHook(use.Def.SSR, use.Binding(val, p.rc), path)
		if err != nil {
			return nil, err
		}
		p.hooks++
		if err := set.Apply(props); err != nil {
			return nil, &directive.HookExecutionError{Directive: use.Name, Phase: directive.PhaseSSR, Path: path, Err: err}
		}
	}
	return set, nil
}

// text renders a text node with HTML escaping.
func (p *pass) text(node *vdom.VNode) error {
	s, err := node.EvalText(p.r.config.Evaluator, p.rc)
	if err != nil {
		return err
	}
	p.w.WriteString(attrs.EscapeText(s))
	return nil
}

func hasElementChild(node *vdom.VNode) bool {
	for _, c := range node.Children {
		if c.Kind == vdom.KindElement || (c.Kind == vdom.KindFragment && hasElementChild(c)) {
			return true
		}
	}
	return false
}

// writeIndent writes indentation for pretty printing.
func (p *pass) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		p.w.WriteString(p.r.config.Indent)
	}
}

func childPath(parent, tag string, idx int) string {
	seg := fmt.Sprintf("%s[%d]", tag, idx)
	if parent == "" {
		return seg
	}
	return parent + ">" + seg
}
