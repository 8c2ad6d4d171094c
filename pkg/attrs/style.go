package attrs

import (
	"fmt"
	"sort"
	"strings"
)

// Decl is one CSS declaration.
type Decl struct {
	Property string
	Value    string
}

// Style is an ordered list of CSS declarations. Properties are unique.
type Style []Decl

// Get returns the value of prop, or "" when unset.
func (s Style) Get(prop string) string {
	prop = normalizeProp(prop)
	for _, d := range s {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// Set returns s with prop set to value. An existing declaration keeps its
// position; a new one is appended. An empty value removes the property.
func (s Style) Set(prop, value string) Style {
	prop = normalizeProp(prop)
	value = strings.TrimSpace(value)
	if prop == "" {
		return s
	}
	if value == "" {
		return s.Delete(prop)
	}
	for i, d := range s {
		if d.Property == prop {
			out := append(Style(nil), s...)
			out[i].Value = value
			return out
		}
	}
	return append(append(Style(nil), s...), Decl{Property: prop, Value: value})
}

// Delete returns s without prop.
func (s Style) Delete(prop string) Style {
	prop = normalizeProp(prop)
	out := make(Style, 0, len(s))
	for _, d := range s {
		if d.Property != prop {
			out = append(out, d)
		}
	}
	return out
}

// Merge returns s with every declaration of other applied in order.
func (s Style) Merge(other Style) Style {
	out := s
	for _, d := range other {
		out = out.Set(d.Property, d.Value)
	}
	return out
}

// String renders the server form: "display:none;color:red;".
func (s Style) String() string {
	var b strings.Builder
	for _, d := range s {
		b.WriteString(d.Property)
		b.WriteByte(':')
		b.WriteString(d.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// CSSText renders the browser form: "display: none; color: red;".
func (s Style) CSSText() string {
	parts := make([]string, 0, len(s))
	for _, d := range s {
		parts = append(parts, d.Property+": "+d.Value+";")
	}
	return strings.Join(parts, " ")
}

// ParseStyle parses a CSS declaration block such as "display: none; color:red".
func ParseStyle(css string) Style {
	var out Style
	for _, part := range strings.Split(css, ";") {
		idx := strings.IndexByte(part, ':')
		if idx <= 0 {
			continue
		}
		out = out.Set(part[:idx], part[idx+1:])
	}
	return out
}

// NormalizeStyle converts the accepted style shapes into a Style.
// Accepted: string, Style, []Decl, map[string]string, map[string]any.
// Map keys are applied in sorted order so output is deterministic.
func NormalizeStyle(v any) (Style, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		return ParseStyle(s), nil
	case Style:
		return s, nil
	case []Decl:
		return Style(s), nil
	case map[string]string:
		var out Style
		for _, k := range sortedKeys(s) {
			out = out.Set(k, s[k])
		}
		return out, nil
	case map[string]any:
		var out Style
		for _, k := range sortedKeys(s) {
			val, ok := Stringify(k, s[k])
			if !ok {
				continue
			}
			out = out.Set(k, val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("attrs: unsupported style value %T", v)
	}
}

// normalizeProp lowercases a property and converts camelCase
// (backgroundColor) to its hyphenated CSS name. Custom properties are kept
// as written.
func normalizeProp(prop string) string {
	prop = strings.TrimSpace(prop)
	if strings.HasPrefix(prop, "--") {
		return prop
	}
	var b strings.Builder
	for i, r := range prop {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
