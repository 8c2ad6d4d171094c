package attrs

import "strings"

// Escaper escapes attribute values for inclusion inside double quotes.
type Escaper interface {
	EscapeAttr(s string) string
}

// EscaperFunc adapts a function to the Escaper interface.
type EscaperFunc func(string) string

// EscapeAttr implements Escaper.
func (f EscaperFunc) EscapeAttr(s string) string { return f(s) }

// DefaultEscaper is used when a renderer is not configured with one.
var DefaultEscaper Escaper = EscaperFunc(EscapeAttr)

// EscapeText escapes text for safe inclusion in HTML content.
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "&<>\"'") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// EscapeAttr escapes text for safe inclusion in a double-quoted attribute
// value. Whitespace that could break attribute parsing is encoded as well.
func EscapeAttr(s string) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
