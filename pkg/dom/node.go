package dom

import (
	"errors"
	"strings"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeType discriminates live nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// ErrNotChild is returned when a reference node is not a child of the parent.
var ErrNotChild = errors.New("dom: node is not a child of this node")

// Node is a live document node.
type Node struct {
	typ      NodeType
	tag      string
	text     string
	attrs    []html.Attribute
	parent   *Node
	children []*Node

	listeners map[string][]*listener
	store     map[string]any

	// inline holds the style declarations underneath forced ones while any
	// property is forced. Otherwise the style attribute is authoritative.
	inline attrs.Style
	forced attrs.Style
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	return &Node{typ: ElementNode, tag: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{typ: TextNode, text: text}
}

// NewComment creates a detached comment node.
func NewComment(text string) *Node {
	return &Node{typ: CommentNode, text: text}
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the lowercase tag name of an element.
func (n *Node) Tag() string { return n.tag }

// Data returns the content of a text or comment node.
func (n *Node) Data() string { return n.text }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// FirstElementChild returns the first element child, or nil.
func (n *Node) FirstElementChild() *Node {
	for _, c := range n.children {
		if c.typ == ElementNode {
			return c
		}
	}
	return nil
}

// AppendChild appends child, detaching it from its previous parent.
func (n *Node) AppendChild(child *Node) {
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		n.AppendChild(child)
		return nil
	}
	idx := n.indexOf(ref)
	if idx < 0 {
		return ErrNotChild
	}
	child.Remove()
	idx = n.indexOf(ref)
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	return nil
}

// RemoveChild detaches child.
func (n *Node) RemoveChild(child *Node) error {
	idx := n.indexOf(child)
	if idx < 0 {
		return ErrNotChild
	}
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	child.parent = nil
	return nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		_ = n.parent.RemoveChild(n)
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute, keeping its position if it exists.
// Writing style while a property is forced replaces the inline layer.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	if name == "style" && len(n.forced) > 0 {
		n.Style().Replace(attrs.ParseStyle(value))
		return
	}
	n.setAttr(name, value)
}

func (n *Node) setAttr(name, value string) {
	for i, a := range n.attrs {
		if a.Key == name {
			n.attrs[i].Val = value
			return
		}
	}
	n.attrs = append(n.attrs, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute removes an attribute if present. Removing style while a
// property is forced clears the inline layer only.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	if name == "style" && len(n.forced) > 0 {
		n.Style().Replace(nil)
		return
	}
	for i, a := range n.attrs {
		if a.Key == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Attributes returns the attributes in insertion order.
func (n *Node) Attributes() []html.Attribute {
	return append([]html.Attribute(nil), n.attrs...)
}

// ApplyAttribute sets or removes an attribute from a Go value using the
// same rules as the server serializer.
func (n *Node) ApplyAttribute(name string, value any) {
	switch name {
	case "style":
		st, err := attrs.NormalizeStyle(value)
		if err != nil || value == nil {
			n.RemoveAttribute("style")
			return
		}
		n.Style().Replace(st)
		return
	case "class", "className":
		tokens, err := attrs.NormalizeClass(value)
		if err != nil || value == nil {
			n.RemoveAttribute("class")
			return
		}
		n.SetAttribute("class", strings.Join(tokens, " "))
		return
	}
	s, ok := attrs.Stringify(name, value)
	if !ok {
		n.RemoveAttribute(name)
		return
	}
	n.SetAttribute(name, s)
}

// Style returns the inline style declaration bound to the style attribute.
func (n *Node) Style() *Style {
	return &Style{owner: n}
}

// ClassList returns the class token list bound to the class attribute.
func (n *Node) ClassList() *ClassList {
	return &ClassList{owner: n}
}

// TextContent returns the concatenated text of all descendants.
func (n *Node) TextContent() string {
	if n.typ != ElementNode {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		if c.typ != CommentNode {
			b.WriteString(c.TextContent())
		}
	}
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.typ != ElementNode {
		n.text = text
		return
	}
	n.clearChildren()
	if text != "" {
		n.AppendChild(NewText(text))
	}
}

// SetInnerHTML parses markup in the context of n and replaces its children.
func (n *Node) SetInnerHTML(markup string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: n.tag, DataAtom: atom.Lookup([]byte(n.tag))}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return err
	}
	n.clearChildren()
	for _, hn := range nodes {
		if c := fromHTML(hn); c != nil {
			n.AppendChild(c)
		}
	}
	return nil
}

func (n *Node) clearChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Store returns per-node scratch storage that directive hooks can use to
// remember state between lifecycle phases.
func (n *Node) Store() map[string]any {
	if n.store == nil {
		n.store = make(map[string]any)
	}
	return n.store
}
