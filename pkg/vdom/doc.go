// Package vdom holds the compiled element tree shared by the client and
// server render paths.
//
// A VNode is produced once, either by the compiler from template markup or
// directly with H and WithDirectives, and then read by any number of render
// passes. Each DirectiveUse carries its resolved Definition and Shape so
// renderers dispatch hooks without name lookups.
//
//	hide := &directive.Definition{...}
//	node := vdom.WithDirectives(vdom.Div(vdom.Class("card")),
//	    vdom.Dir(hide, false, ""),
//	)
package vdom
