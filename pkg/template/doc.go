// Package template is the template front end: it tokenizes markup and
// extracts directive usages, dynamic attributes and text interpolations
// into a Node tree for the compiler.
//
// Recognized attribute forms:
//
//	v-name="expr"             directive
//	v-name:arg.mod1.mod2="e"  directive with argument and modifiers
//	@event.mod="handler"      shorthand for v-on:event.mod
//	:attr="expr"              dynamic attribute (also v-bind:attr)
//	attr="value"              static attribute
//
// Text may contain {{ expr }} interpolations.
//
// Attribute names are lowercased by the HTML tokenizer, so directive names
// in templates are written in kebab-case (v-custom-show). Registries
// normalize camelCase registrations (customShow) to the same key.
package template
