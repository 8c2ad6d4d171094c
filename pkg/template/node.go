package template

// NodeType discriminates template nodes.
type NodeType uint8

const (
	FragmentNode NodeType = iota
	ElementNode
	TextNode
)

// Attr is a static attribute.
type Attr struct {
	Name  string
	Value string
}

// DynamicAttr is an attribute whose value comes from an expression.
type DynamicAttr struct {
	Name string
	Expr string
}

// Usage is one directive usage on an element.
type Usage struct {
	// Name is the directive name without the v- prefix.
	Name      string
	Arg       string
	Modifiers []string
	Expr      string

	// Raw is the attribute name as written, for error messages.
	Raw string
}

// TextPart is a run of static text or one interpolation.
type TextPart struct {
	Static string
	Expr   string
	IsExpr bool
}

// Node is a parsed template node.
type Node struct {
	Type       NodeType
	Tag        string
	Attrs      []Attr
	Dynamic    []DynamicAttr
	Directives []Usage
	Children   []*Node

	// Parts holds the text of a TextNode.
	Parts []TextPart

	// Line is the 1-based source line the node starts on.
	Line int
}

// IsStatic reports whether a text node has no interpolations.
func (n *Node) IsStatic() bool {
	for _, p := range n.Parts {
		if p.IsExpr {
			return false
		}
	}
	return true
}

// Walk calls fn for n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
