package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OuterHTML serializes n and its descendants.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	// html.Render only fails on writer errors, and a Builder never fails.
	_ = html.Render(&b, n.toHTML())
	return b.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		_ = html.Render(&b, c.toHTML())
	}
	return b.String()
}

func (n *Node) toHTML() *html.Node {
	var hn *html.Node
	switch n.typ {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.text}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.text}
	default:
		hn = &html.Node{
			Type:     html.ElementNode,
			Data:     n.tag,
			DataAtom: atom.Lookup([]byte(n.tag)),
			Attr:     append([]html.Attribute(nil), n.attrs...),
		}
	}
	for _, c := range n.children {
		hn.AppendChild(c.toHTML())
	}
	return hn
}

// fromHTML converts a parsed x/net/html subtree into live nodes.
func fromHTML(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.CommentNode:
		return NewComment(hn.Data)
	case html.ElementNode:
		n = NewElement(hn.Data)
		for _, a := range hn.Attr {
			n.SetAttribute(a.Key, a.Val)
		}
	default:
		return nil
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

// Path returns a selector-like location of n from its root, e.g.
// "div[0]>span[1]". Indexes count element siblings only.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil && cur.typ == ElementNode; cur = cur.parent {
		idx := 0
		if cur.parent != nil {
			for _, sib := range cur.parent.children {
				if sib == cur {
					break
				}
				if sib.typ == ElementNode {
					idx++
				}
			}
		}
		parts = append(parts, cur.tag+"["+strconv.Itoa(idx)+"]")
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ">")
}
