// Package attrs merges partial attribute contributions and serializes the
// result as an HTML attribute string.
//
// A Set is built from an element's static attributes and then receives the
// Props returned by each directive's server hook, in the order the
// directives appear on the element. Merging follows three rules:
//
//   - style declarations accumulate; a later declaration for the same
//     property replaces the earlier value in place
//   - class tokens accumulate and are deduplicated
//   - every other key is last-writer-wins, and a nil value removes the key
//
// Rendering sorts attribute names so that output is deterministic, renders
// true booleans as presence-only attributes, omits false booleans, and
// escapes values through an Escaper.
//
// The server path renders style as "prop:value;" pairs with no spaces
// (e.g. style="display:none;"). The live DOM in package dom uses the same
// Style type but formats it the way browsers serialize cssText
// ("display: none;").
package attrs
