// Package dom provides the document tree that quill templates render into
// and serialize from.
//
// The tree is a deliberately small subset of the W3C DOM: enough node kinds,
// tree operations, attribute handling, event listeners, and shadow-root
// support for template materialization and HTML fragment serialization.
// Markup parsing is delegated to golang.org/x/net/html and the resulting
// nodes are converted into this package's representation.
package dom

import (
	"fmt"
	"strings"
)

// NodeKind discriminates the node types in a document tree.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindFragment
	KindElement
	KindText
	KindComment
	KindDoctype
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindFragment:
		return "fragment"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindDoctype:
		return "doctype"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute. Order is preserved as written.
type Attr struct {
	Name  string
	Value string
}

// Node is a node in the document tree. Element nodes carry Tag and
// attributes; text, comment, and doctype nodes carry Data.
type Node struct {
	Kind NodeKind

	// Tag is the lower-cased tag name for elements and the doctype name
	// for doctype nodes.
	Tag string

	// Data holds text or comment content.
	Data string

	// PublicID and SystemID are the doctype identifiers, when present.
	PublicID string
	SystemID string

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node

	attrs     []Attr
	listeners []*Listener
	shadow    *ShadowRoot
	upgraded  bool
}

// NewDocument returns an empty document node.
func NewDocument() *Node {
	return &Node{Kind: KindDocument}
}

// NewFragment returns an empty document fragment.
func NewFragment() *Node {
	return &Node{Kind: KindFragment}
}

// NewElement returns a detached element with the given tag name.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: strings.ToLower(tag)}
}

// NewText returns a detached text node.
func NewText(data string) *Node {
	return &Node{Kind: KindText, Data: data}
}

// NewComment returns a detached comment node.
func NewComment(data string) *Node {
	return &Node{Kind: KindComment, Data: data}
}

// ChildNodes returns the node's children as a slice.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// AppendChild detaches child from its current parent and appends it as the
// last child of n.
func (n *Node) AppendChild(child *Node) {
	child.Detach()
	child.Parent = n
	if n.LastChild != nil {
		n.LastChild.NextSibling = child
		child.PrevSibling = n.LastChild
	} else {
		n.FirstChild = child
	}
	n.LastChild = child
}

// InsertBefore inserts child immediately before ref, which must be a child
// of n. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		n.AppendChild(child)
		return nil
	}
	if ref.Parent != n {
		return fmt.Errorf("dom: reference node is not a child of the target")
	}
	child.Detach()
	child.Parent = n
	child.NextSibling = ref
	child.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = child
	} else {
		n.FirstChild = child
	}
	ref.PrevSibling = child
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child.Parent != n {
		return fmt.Errorf("dom: node is not a child of the target")
	}
	child.Detach()
	return nil
}

// Detach removes n from its parent, if any. Detaching an orphan is a no-op.
func (n *Node) Detach() {
	if n.Parent == nil {
		return
	}
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else {
		n.Parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else {
		n.Parent.LastChild = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// ReplaceWith substitutes n with the given nodes in document order. n must
// be attached; it ends up detached.
func (n *Node) ReplaceWith(nodes ...*Node) error {
	parent := n.Parent
	if parent == nil {
		return fmt.Errorf("dom: cannot replace a detached node")
	}
	ref := n.NextSibling
	n.Detach()
	for _, node := range nodes {
		if err := parent.InsertBefore(node, ref); err != nil {
			return err
		}
	}
	return nil
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets the named attribute, replacing an existing value and
// preserving attribute order otherwise.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
}

// RemoveAttribute deletes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Attributes returns a copy of the element's attributes in document order.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Walk visits n and every descendant in document order. Shadow trees are
// not traversed; callers that need them descend via Shadow explicitly.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(visit)
	}
}
