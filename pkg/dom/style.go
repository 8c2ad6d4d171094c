package dom

import (
	"strings"

	"github.com/vango-dev/vdirective/pkg/attrs"
)

// Style is a CSSStyleDeclaration view over an element's style attribute.
// A mutation that changes a declaration rewrites the attribute in browser
// cssText form; a no-op mutation leaves the attribute untouched.
//
// Declarations set with Force win over the inline declarations until
// Unforce removes them. Inline mutations made meanwhile are kept and show
// through once the property is released.
type Style struct {
	owner *Node
}

func (s *Style) decls() attrs.Style {
	css, _ := s.owner.GetAttribute("style")
	return attrs.ParseStyle(css)
}

// Inline returns the declarations without forced ones.
func (s *Style) Inline() attrs.Style {
	if len(s.owner.forced) > 0 {
		return s.owner.inline
	}
	return s.decls()
}

func (s *Style) write(inline attrs.Style) {
	n := s.owner
	if len(n.forced) > 0 {
		n.inline = inline
		n.setAttr("style", inline.Merge(n.forced).CSSText())
		return
	}
	n.inline = nil
	n.setAttr("style", inline.CSSText())
}

// Get returns the effective value of a property, or "".
func (s *Style) Get(prop string) string { return s.decls().Get(prop) }

// SetProperty sets an inline property. An empty value removes it, as in
// browsers.
func (s *Style) SetProperty(prop, value string) {
	st := s.Inline()
	next := st.Set(prop, value)
	if next.CSSText() == st.CSSText() {
		return
	}
	s.write(next)
}

// RemoveProperty removes an inline property and returns its old value.
func (s *Style) RemoveProperty(prop string) string {
	st := s.Inline()
	old := st.Get(prop)
	if old == "" {
		return ""
	}
	s.write(st.Delete(prop))
	return old
}

// Replace overwrites all inline declarations.
func (s *Style) Replace(st attrs.Style) { s.write(st) }

// Force sets prop to value over whatever the inline style says. An empty
// value releases prop.
func (s *Style) Force(prop, value string) {
	inline := s.Inline()
	s.owner.forced = s.owner.forced.Set(prop, value)
	s.write(inline)
}

// Unforce releases prop so the inline value, if any, applies again.
func (s *Style) Unforce(prop string) {
	n := s.owner
	if n.forced.Get(prop) == "" {
		return
	}
	inline := s.Inline()
	n.forced = n.forced.Delete(prop)
	s.write(inline)
}

// Forced reports whether prop is currently forced.
func (s *Style) Forced(prop string) bool { return s.owner.forced.Get(prop) != "" }

// Display returns the display property.
func (s *Style) Display() string { return s.Get("display") }

// SetDisplay sets the display property.
func (s *Style) SetDisplay(v string) { s.SetProperty("display", v) }

// CSSText returns the declarations in browser form.
func (s *Style) CSSText() string { return s.decls().CSSText() }

// Len returns the number of declarations.
func (s *Style) Len() int { return len(s.decls()) }

// ClassList is a DOMTokenList view over an element's class attribute.
type ClassList struct {
	owner *Node
}

func (c *ClassList) tokens() []string {
	v, _ := c.owner.GetAttribute("class")
	return strings.Fields(v)
}

func (c *ClassList) write(tokens []string) {
	c.owner.SetAttribute("class", strings.Join(tokens, " "))
}

// Contains reports whether token is present.
func (c *ClassList) Contains(token string) bool {
	for _, t := range c.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add adds tokens that are not already present.
func (c *ClassList) Add(tokens ...string) {
	list := c.tokens()
	for _, t := range tokens {
		found := false
		for _, have := range list {
			if have == t {
				found = true
				break
			}
		}
		if !found {
			list = append(list, t)
		}
	}
	c.write(list)
}

// Remove removes tokens.
func (c *ClassList) Remove(tokens ...string) {
	list := c.tokens()
	out := list[:0]
	for _, have := range list {
		drop := false
		for _, t := range tokens {
			if have == t {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, have)
		}
	}
	c.write(out)
}

// Toggle adds or removes token depending on force.
func (c *ClassList) Toggle(token string, force bool) {
	if force {
		c.Add(token)
	} else {
		c.Remove(token)
	}
}

// Values returns the tokens in order.
func (c *ClassList) Values() []string { return c.tokens() }
