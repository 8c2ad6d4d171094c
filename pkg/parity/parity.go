// Package parity compares the output of the client and server render
// paths.
//
// The two paths format some attributes differently. The server writes
// style as "display:none;" while a live tree reports browser cssText,
// "display: none;". Compare parses both documents and normalizes these
// differences before comparing, so a Result only reports divergences a
// user could see.
package parity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/vdirective/pkg/attrs"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind classifies a Diff.
type Kind string

const (
	KindTag       Kind = "tag"
	KindAttribute Kind = "attribute"
	KindText      Kind = "text"
	KindChildren  Kind = "children"
)

// Diff is one divergence between the two trees.
type Diff struct {
	Path   string
	Kind   Kind
	Name   string // attribute name for KindAttribute
	Client string
	Server string
}

func (d Diff) String() string {
	if d.Kind == KindAttribute {
		return fmt.Sprintf("%s: attribute %s: client %q, server %q", d.Path, d.Name, d.Client, d.Server)
	}
	return fmt.Sprintf("%s: %s: client %q, server %q", d.Path, d.Kind, d.Client, d.Server)
}

// Result is the outcome of a comparison.
type Result struct {
	Diffs []Diff
}

// Equal reports whether no divergences were found.
func (r Result) Equal() bool { return len(r.Diffs) == 0 }

// String lists every diff on its own line.
func (r Result) String() string {
	if r.Equal() {
		return "equivalent"
	}
	lines := make([]string, len(r.Diffs))
	for i, d := range r.Diffs {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Options adjusts the comparison.
type Options struct {
	// Ignore lists attributes that are skipped on both sides, such as the
	// data-v-app container marker.
	Ignore []string
}

// Compare parses two HTML fragments and reports how they differ.
// Whitespace-only text between elements is ignored.
func Compare(clientHTML, serverHTML string) (Result, error) {
	return CompareWith(clientHTML, serverHTML, Options{})
}

// CompareWith is Compare with options.
func CompareWith(clientHTML, serverHTML string, opts Options) (Result, error) {
	client, err := parse(clientHTML)
	if err != nil {
		return Result{}, fmt.Errorf("parity: client: %w", err)
	}
	server, err := parse(serverHTML)
	if err != nil {
		return Result{}, fmt.Errorf("parity: server: %w", err)
	}

	ignore := make(map[string]bool, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignore[strings.ToLower(name)] = true
	}
	c := comparer{ignore: ignore}
	c.nodes("", client, server)
	return Result{Diffs: c.diffs}, nil
}

func parse(src string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, err
	}
	return significant(nodes), nil
}

func significant(nodes []*html.Node) []*html.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			out = append(out, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return significant(out)
}

type comparer struct {
	ignore map[string]bool
	diffs  []Diff
}

func (c *comparer) add(d Diff) { c.diffs = append(c.diffs, d) }

func (c *comparer) nodes(path string, client, server []*html.Node) {
	if len(client) != len(server) {
		c.add(Diff{
			Path:   orRoot(path),
			Kind:   KindChildren,
			Client: fmt.Sprint(len(client)),
			Server: fmt.Sprint(len(server)),
		})
	}
	n := min(len(client), len(server))
	idx := 0
	for i := 0; i < n; i++ {
		cn, sn := client[i], server[i]
		p := path
		if cn.Type == html.ElementNode {
			p = join(path, fmt.Sprintf("%s[%d]", cn.Data, idx))
			idx++
		}
		c.node(p, cn, sn)
	}
}

func (c *comparer) node(path string, client, server *html.Node) {
	if client.Type != server.Type || client.Data != server.Data {
		c.add(Diff{Path: orRoot(path), Kind: kindOf(client, server), Client: describe(client), Server: describe(server)})
		return
	}
	if client.Type == html.TextNode {
		return
	}
	c.attributes(path, client, server)
	c.nodes(path, childNodes(client), childNodes(server))
}

func (c *comparer) attributes(path string, client, server *html.Node) {
	ca := c.attrMap(client)
	sa := c.attrMap(server)
	names := make(map[string]bool, len(ca)+len(sa))
	for k := range ca {
		names[k] = true
	}
	for k := range sa {
		names[k] = true
	}
	sorted := make([]string, 0, len(names))
	for k := range names {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		cv, cok := ca[name]
		sv, sok := sa[name]
		if cok == sok && cv == sv {
			continue
		}
		if !cok {
			cv = "<absent>"
		}
		if !sok {
			sv = "<absent>"
		}
		c.add(Diff{Path: path, Kind: KindAttribute, Name: name, Client: cv, Server: sv})
	}
}

// attrMap returns normalized attribute values. Style declarations are
// compared in server form and class tokens as a sorted set. An empty style
// or class attribute counts as absent.
func (c *comparer) attrMap(n *html.Node) map[string]string {
	out := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		name := strings.ToLower(a.Key)
		if c.ignore[name] {
			continue
		}
		val := a.Val
		switch name {
		case "style":
			val = attrs.ParseStyle(val).String()
		case "class":
			tokens := strings.Fields(val)
			sort.Strings(tokens)
			val = strings.Join(tokens, " ")
		}
		if val == "" && (name == "style" || name == "class") {
			continue
		}
		out[name] = val
	}
	return out
}

func kindOf(client, server *html.Node) Kind {
	if client.Type == html.TextNode && server.Type == html.TextNode {
		return KindText
	}
	return KindTag
}

func describe(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	return "<" + n.Data + ">"
}

func join(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + ">" + seg
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
