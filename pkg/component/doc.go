// Package component binds templates to directive scopes and renders them
// on either path.
//
// An App owns the global directive registry, a compiled template cache
// and a server renderer. Each Component added to the App gets its own
// registry whose parent is the global one, so a component can register
// directives by camelCase name without leaking them to other components:
//
//	app, _ := component.NewApp()
//	c, err := app.Add(component.Component{
//	    Name:     "Banner",
//	    Template: `<div v-custom-show="open"></div>`,
//	    Directives: map[string]*directive.Definition{
//	        "customShow": myShow,
//	    },
//	})
//	html, err := c.RenderToString(ctx, map[string]any{"open": false})
//
// Server renders compile the template for the server target and apply the
// App's SSR policy. Client mounts compile for the client target, so a
// directive without a server hook still mounts even under the strict
// policy.
package component
