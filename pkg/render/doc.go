// Package render is the server render path: it serializes a compiled tree
// to an HTML string without constructing live nodes.
//
// For each element the renderer merges, in order:
//
//   - the static attributes from the template
//   - dynamic attributes evaluated against the render context
//   - the props returned by each directive's SSR hook, in usage order
//
// Directives whose Shape has no server hook contribute nothing; client
// hooks are never invoked because there is no node to pass them. The
// compiler has already rejected client-only effects under the strict
// policy, so reaching the renderer with one means the caller chose the
// lenient policy or declared the directive ClientOnly.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(ctx, compiled, &directive.Context{
//	    Data: map[string]any{"visible": false},
//	})
//
// # Errors
//
// A failing SSR hook aborts the render with a *directive.HookExecutionError
// naming the directive and element path. RenderToString returns "" and
// RenderToWriter writes nothing; partial markup never escapes.
//
// # Security
//
// All text content and attribute values are escaped. v-html content is
// sanitized by the directive itself so that both render paths insert the
// same markup.
package render
