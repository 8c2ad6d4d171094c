// Package directive defines directives, the registry that resolves them,
// and the bindings handed to their hooks.
//
// A Definition bundles client lifecycle hooks, which run against a live
// dom.Node, with an optional server hook that returns the attribute props
// producing the same visual result in a server-rendered string:
//
//	hide := &directive.Definition{
//	    Hooks: directive.Hooks{
//	        BeforeMount: func(el *dom.Node, b *directive.Binding) error {
//	            el.Style().SetDisplay("none")
//	            return nil
//	        },
//	    },
//	    SSR: func(b *directive.Binding) (attrs.Props, error) {
//	        return attrs.Props{Style: map[string]string{"display": "none"}}, nil
//	    },
//	}
//
// # Registries
//
// Registries are explicit values. NewGlobalRegistry returns a root scope
// holding the built-in directives; component scopes are created with
// NewRegistry(parent) and shadow their parent without conflicting with it.
// Resolution happens once, at compile time, so render paths call hooks
// directly instead of looking names up.
//
// # Server hook policy
//
// A definition with client hooks and no SSR hook would silently render
// differently on the server. The compiler rejects such definitions in
// server-targeted templates unless the definition sets ClientOnly, which
// declares that the directive has no visual effect worth serializing
// (focus management, event listeners).
package directive
