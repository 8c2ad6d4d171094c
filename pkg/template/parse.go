package template

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// CodeParse is the error code for template syntax errors.
const CodeParse = "E204"

// ParseError reports malformed template markup.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Code returns the error code.
func (e *ParseError) Code() string { return CodeParse }

// Position returns the file and line of the error.
func (e *ParseError) Position() (string, int) { return e.File, e.Line }

// voidElements never have children or end tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether tag is a void element.
func IsVoidElement(tag string) bool { return voidElements[tag] }

// ParseFile parses the template stored at path.
func ParseFile(path string) (*Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := Parse(string(src))
	if perr, ok := err.(*ParseError); ok {
		perr.File = path
	}
	return root, err
}

// Parse parses template source into a FragmentNode holding the top-level
// nodes. Comments and whitespace-only text are dropped.
func Parse(src string) (*Node, error) {
	root := &Node{Type: FragmentNode, Line: 1}
	stack := []*Node{root}
	line := 1

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		startLine := line
		line += bytes.Count(z.Raw(), []byte{'\n'})
		top := stack[len(stack)-1]

		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return nil, &ParseError{Line: startLine, Msg: z.Err().Error()}
			}
			if len(stack) > 1 {
				open := stack[len(stack)-1]
				return nil, &ParseError{Line: open.Line, Msg: fmt.Sprintf("unclosed <%s>", open.Tag)}
			}
			return root, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			el, err := parseElement(z, startLine)
			if err != nil {
				return nil, err
			}
			top.Children = append(top.Children, el)
			if tt == html.StartTagToken && !voidElements[el.Tag] {
				stack = append(stack, el)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			if top.Type != ElementNode || top.Tag != tag {
				return nil, &ParseError{Line: startLine, Msg: fmt.Sprintf("unexpected </%s>", tag)}
			}
			stack = stack[:len(stack)-1]

		case html.TextToken:
			text := string(z.Text())
			if strings.TrimSpace(text) == "" {
				continue
			}
			top.Children = append(top.Children, &Node{
				Type:  TextNode,
				Parts: splitInterpolation(text),
				Line:  startLine,
			})
		}
	}
}

func parseElement(z *html.Tokenizer, line int) (*Node, error) {
	name, hasAttr := z.TagName()
	el := &Node{Type: ElementNode, Tag: string(name), Line: line}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if err := el.addAttr(string(key), string(val)); err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
	}
	return el, nil
}

func (n *Node) addAttr(key, val string) error {
	switch {
	case strings.HasPrefix(key, ":"):
		name, _ := splitModifiers(key[1:])
		if name == "" {
			return fmt.Errorf("empty binding name in %q", key)
		}
		n.Dynamic = append(n.Dynamic, DynamicAttr{Name: name, Expr: val})
	case strings.HasPrefix(key, "v-bind:"):
		name, _ := splitModifiers(key[len("v-bind:"):])
		if name == "" {
			return fmt.Errorf("empty binding name in %q", key)
		}
		n.Dynamic = append(n.Dynamic, DynamicAttr{Name: name, Expr: val})
	case strings.HasPrefix(key, "@"):
		event, mods := splitModifiers(key[1:])
		if event == "" {
			return fmt.Errorf("missing event name in %q", key)
		}
		n.Directives = append(n.Directives, Usage{Name: "on", Arg: event, Modifiers: mods, Expr: val, Raw: key})
	case strings.HasPrefix(key, "v-"):
		u, err := parseUsage(key, val)
		if err != nil {
			return err
		}
		n.Directives = append(n.Directives, u)
	default:
		n.Attrs = append(n.Attrs, Attr{Name: key, Value: val})
	}
	return nil
}

// parseUsage splits "v-name:arg.m1.m2".
func parseUsage(key, val string) (Usage, error) {
	body := key[len("v-"):]
	u := Usage{Expr: val, Raw: key}
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		u.Name = body[:idx]
		u.Arg, u.Modifiers = splitModifiers(body[idx+1:])
		if u.Arg == "" {
			return Usage{}, fmt.Errorf("empty argument in %q", key)
		}
	} else {
		u.Name, u.Modifiers = splitModifiers(body)
	}
	if u.Name == "" {
		return Usage{}, fmt.Errorf("empty directive name in %q", key)
	}
	return u, nil
}

func splitModifiers(s string) (string, []string) {
	parts := strings.Split(s, ".")
	var mods []string
	for _, m := range parts[1:] {
		if m != "" {
			mods = append(mods, m)
		}
	}
	return parts[0], mods
}

// splitInterpolation splits text on {{ }} delimiters. An unterminated
// opening delimiter is kept as static text.
func splitInterpolation(text string) []TextPart {
	var parts []TextPart
	for text != "" {
		open := strings.Index(text, "{{")
		if open < 0 {
			parts = append(parts, TextPart{Static: text})
			break
		}
		closeIdx := strings.Index(text[open+2:], "}}")
		if closeIdx < 0 {
			parts = append(parts, TextPart{Static: text})
			break
		}
		if open > 0 {
			parts = append(parts, TextPart{Static: text[:open]})
		}
		parts = append(parts, TextPart{Expr: strings.TrimSpace(text[open+2 : open+2+closeIdx]), IsExpr: true})
		text = text[open+2+closeIdx+2:]
	}
	return parts
}
