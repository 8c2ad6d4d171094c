package attrs

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
)

// Props is a partial attribute contribution, typically returned by a
// directive's server hook. Every field is optional.
type Props struct {
	// Style accepts string, Style, []Decl, map[string]string or map[string]any.
	Style any

	// Class accepts string, []string, []any or map[string]bool.
	Class any

	// Attrs holds scalar attributes. A nil value removes the attribute.
	Attrs map[string]any

	// TextContent replaces the element's children with escaped text.
	TextContent *string

	// InnerHTML replaces the element's children with raw markup.
	InnerHTML *string
}

// String returns a pointer to s, for Props.TextContent and Props.InnerHTML.
func String(s string) *string { return &s }

// IsZero reports whether p contributes nothing.
func (p Props) IsZero() bool {
	return p.Style == nil && p.Class == nil && len(p.Attrs) == 0 &&
		p.TextContent == nil && p.InnerHTML == nil
}

// Set is the normalized attribute set of one element for one render pass.
type Set struct {
	values map[string]any
	style  Style
	class  []string

	// styleSet and classSet record that the attribute was written at all, so
	// an explicitly empty style="" survives.
	styleSet bool
	classSet bool

	text *string
	html *string
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{values: make(map[string]any)}
}

// ErrInvalidName is returned by Put for a key that cannot be serialized as
// an attribute name.
var ErrInvalidName = errors.New("attrs: invalid attribute name")

// ValidName reports whether name can be written as an attribute name
// without changing the shape of the surrounding tag.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= ' ' || r == 0x7f || strings.ContainsRune(`"'>/=<`, r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Put writes one attribute. "style" and "class" accumulate; every other key
// is last-writer-wins. A nil value deletes the key, including style and
// class.
func (s *Set) Put(key string, value any) error {
	if !ValidName(key) {
		return fmt.Errorf("%w %q", ErrInvalidName, key)
	}
	switch key {
	case "style":
		if value == nil {
			s.style, s.styleSet = nil, false
			return nil
		}
		st, err := NormalizeStyle(value)
		if err != nil {
			return err
		}
		s.style = s.style.Merge(st)
		s.styleSet = true
	case "class", "className":
		if value == nil {
			s.class, s.classSet = nil, false
			return nil
		}
		tokens, err := NormalizeClass(value)
		if err != nil {
			return err
		}
		s.class = appendClass(s.class, tokens...)
		s.classSet = true
	default:
		if value == nil {
			delete(s.values, key)
			return nil
		}
		s.values[key] = value
	}
	return nil
}

// Apply merges one contribution into the set.
func (s *Set) Apply(p Props) error {
	if p.Style != nil {
		if err := s.Put("style", p.Style); err != nil {
			return err
		}
	}
	if p.Class != nil {
		if err := s.Put("class", p.Class); err != nil {
			return err
		}
	}
	for _, k := range sortedKeys(p.Attrs) {
		if err := s.Put(k, p.Attrs[k]); err != nil {
			return fmt.Errorf("attrs: %s: %w", k, err)
		}
	}
	if p.TextContent != nil {
		s.text, s.html = p.TextContent, nil
	}
	if p.InnerHTML != nil {
		s.html, s.text = p.InnerHTML, nil
	}
	return nil
}

// Merge applies contributions to base in order and returns base.
// A nil base starts from an empty set.
func Merge(base *Set, contributions ...Props) (*Set, error) {
	if base == nil {
		base = NewSet()
	}
	for _, p := range contributions {
		if err := base.Apply(p); err != nil {
			return nil, err
		}
	}
	return base, nil
}

// Get returns the raw value for key. Style and class return their
// normalized forms.
func (s *Set) Get(key string) (any, bool) {
	switch key {
	case "style":
		return s.style, s.styleSet
	case "class":
		return strings.Join(s.class, " "), s.classSet
	}
	v, ok := s.values[key]
	return v, ok
}

// Style returns the accumulated style declarations.
func (s *Set) Style() Style { return s.style }

// Class returns the accumulated class tokens.
func (s *Set) Class() []string { return s.class }

// TextContent returns the text that replaces the children, if any.
func (s *Set) TextContent() (string, bool) {
	if s.text == nil {
		return "", false
	}
	return *s.text, true
}

// InnerHTML returns the markup that replaces the children, if any.
func (s *Set) InnerHTML() (string, bool) {
	if s.html == nil {
		return "", false
	}
	return *s.html, true
}

// Attr is one serialized attribute. Bare attributes have Bare set and an
// empty Value.
type Attr struct {
	Name  string
	Value string
	Bare  bool
}

// Attrs returns the serialized attributes sorted by name.
func (s *Set) Attrs() []Attr {
	out := make([]Attr, 0, len(s.values)+2)
	if s.classSet {
		out = append(out, Attr{Name: "class", Value: strings.Join(s.class, " ")})
	}
	if s.styleSet {
		out = append(out, Attr{Name: "style", Value: s.style.String()})
	}
	for key, value := range s.values {
		str, ok := Stringify(key, value)
		if !ok {
			continue
		}
		if b, isBool := value.(bool); isBool && b && str == "" {
			out = append(out, Attr{Name: key, Bare: true})
			continue
		}
		out = append(out, Attr{Name: key, Value: str})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Render writes the attributes as ` name="value"` pairs. A nil esc uses
// DefaultEscaper.
func (s *Set) Render(w io.Writer, esc Escaper) error {
	if esc == nil {
		esc = DefaultEscaper
	}
	for _, a := range s.Attrs() {
		var err error
		if a.Bare {
			_, err = fmt.Fprintf(w, " %s", a.Name)
		} else {
			_, err = fmt.Fprintf(w, ` %s="%s"`, a.Name, esc.EscapeAttr(a.Value))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// String renders the attribute string with the default escaper.
func (s *Set) String() string {
	var b strings.Builder
	_ = s.Render(&b, nil)
	return b.String()
}
