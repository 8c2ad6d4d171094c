// Package compiler resolves the directives of a parsed template and emits
// the vdom tree both render paths execute.
//
// Resolution happens here, once per compilation: every usage is looked up
// in the registry and stored with its Definition and Shape. The server
// hook policy is also applied here. Under PolicyStrict, the default, a
// directive that has client hooks, no SSR hook and no ClientOnly
// declaration fails a server-targeted compilation with
// *directive.MissingServerHookError rather than rendering differently on
// the server. PolicyLenient accepts it as an explicit server no-op and
// logs a warning.
//
// Cache memoizes compilations in an LRU keyed by source, registry scope
// and options.
package compiler
