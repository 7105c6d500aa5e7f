package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup in the body insertion context and returns a
// document fragment holding the parsed nodes. Comments are preserved, which
// template materialization relies on for placeholder lookup.
//
// Table-scoped content (bare <td>, <tr>, ...) follows the HTML parser's
// foster-parenting rules, the same behavior innerHTML has on a div.
func ParseFragment(markup string) (*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parsing fragment: %w", err)
	}
	frag := NewFragment()
	for _, n := range parsed {
		if c := convert(n); c != nil {
			frag.AppendChild(c)
		}
	}
	return frag, nil
}

// Parse parses a complete document, preserving any doctype.
func Parse(markup string) (*Node, error) {
	parsed, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("dom: parsing document: %w", err)
	}
	doc := NewDocument()
	for c := parsed.FirstChild; c != nil; c = c.NextSibling {
		if converted := convert(c); converted != nil {
			doc.AppendChild(converted)
		}
	}
	return doc, nil
}

// convert maps an x/net/html node and its subtree into this package's
// representation. Unhandled node types map to nil.
func convert(n *html.Node) *Node {
	var out *Node
	switch n.Type {
	case html.ElementNode:
		out = NewElement(n.Data)
		for _, a := range n.Attr {
			out.attrs = append(out.attrs, Attr{Name: strings.ToLower(a.Key), Value: a.Val})
		}
	case html.TextNode:
		out = NewText(n.Data)
	case html.CommentNode:
		out = NewComment(n.Data)
	case html.DoctypeNode:
		out = &Node{Kind: KindDoctype, Tag: n.Data}
		for _, a := range n.Attr {
			switch a.Key {
			case "public":
				out.PublicID = a.Val
			case "system":
				out.SystemID = a.Val
			}
		}
	case html.DocumentNode:
		out = NewDocument()
	default:
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if converted := convert(c); converted != nil {
			out.AppendChild(converted)
		}
	}
	return out
}
