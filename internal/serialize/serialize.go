// Package serialize implements the HTML fragment serialization algorithm
// over dom trees: a node's children are flattened to literal markup with
// element-category-specific rules (void, raw text, escapable raw text) and
// opt-in declarative shadow DOM output.
//
// Serialization never mutates the input tree and is deterministic: the same
// tree with the same options produces a byte-identical string.
package serialize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conneroisu/quill/dom"
)

// ErrBadRoot reports a serialization root that is not an element, document,
// fragment, or shadow root. This is a caller programming error, so the
// serializer fails fast instead of silently producing nothing.
var ErrBadRoot = errors.New("serialize: root must be an element, document, fragment, or shadow root")

// Options controls declarative shadow DOM output.
type Options struct {
	// SerializableShadowRoots emits a <template shadowrootmode=...> wrapper
	// for every shadow root that was attached as serializable, at any depth.
	SerializableShadowRoots bool

	// ShadowRoots requests serialization of the listed shadow roots
	// specifically. A root still has to be serializable to be emitted.
	ShadowRoots []*dom.ShadowRoot
}

// voidElements have no content model: open tag only, no close tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// obsoleteElements are dropped from serialized output entirely.
var obsoleteElements = map[string]bool{
	"basefont": true, "bgsound": true, "frame": true, "isindex": true,
	"keygen": true,
}

// rawTextElements emit their text children verbatim.
var rawTextElements = map[string]bool{
	"script": true, "style": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true,
}

// escapableRawTextElements escape only '&' and '<' in their text children.
var escapableRawTextElements = map[string]bool{
	"textarea": true, "title": true,
}

// Fragment serializes the children of root. The root itself is never
// emitted; only its content is.
func Fragment(root *dom.Node, opts *Options) (string, error) {
	if root == nil {
		return "", ErrBadRoot
	}
	switch root.Kind {
	case dom.KindElement, dom.KindDocument, dom.KindFragment:
	default:
		return "", fmt.Errorf("%w, got %s", ErrBadRoot, root.Kind)
	}
	if opts == nil {
		opts = &Options{}
	}
	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		writeNode(&b, c, opts)
	}
	return b.String(), nil
}

// ShadowFragment serializes the children of a shadow root.
func ShadowFragment(sr *dom.ShadowRoot, opts *Options) (string, error) {
	if sr == nil {
		return "", ErrBadRoot
	}
	return Fragment(&sr.Node, opts)
}

func writeNode(b *strings.Builder, n *dom.Node, opts *Options) {
	switch n.Kind {
	case dom.KindElement:
		writeElement(b, n, opts)
	case dom.KindText:
		writeText(b, n)
	case dom.KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case dom.KindDoctype:
		writeDoctype(b, n)
	case dom.KindFragment, dom.KindDocument:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c, opts)
		}
	}
}

func writeElement(b *strings.Builder, n *dom.Node, opts *Options) {
	if obsoleteElements[n.Tag] {
		return
	}

	// A template element substitutes its content for itself; its own tag
	// never appears in fragment serialization of its parent.
	if n.Tag == "template" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c, opts)
		}
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attributes() {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidElements[n.Tag] {
		return
	}

	if sr := n.Shadow(); sr != nil && wantsShadow(sr, opts) {
		writeShadowTemplate(b, sr, opts)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c, opts)
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// wantsShadow applies the declarative shadow DOM opt-in: the root must have
// been attached as serializable, and the caller must have requested it
// globally or listed this specific root.
func wantsShadow(sr *dom.ShadowRoot, opts *Options) bool {
	if !sr.Serializable {
		return false
	}
	if opts.SerializableShadowRoots {
		return true
	}
	for _, want := range opts.ShadowRoots {
		if want == sr {
			return true
		}
	}
	return false
}

// writeShadowTemplate emits the <template shadowrootmode=...> wrapper for a
// shadow root, before the host's light children. Options propagate unchanged
// so nested serializable hosts are emitted at every depth.
func writeShadowTemplate(b *strings.Builder, sr *dom.ShadowRoot, opts *Options) {
	b.WriteString(`<template shadowrootmode="`)
	b.WriteString(string(sr.Mode))
	b.WriteByte('"')
	if sr.DelegatesFocus {
		b.WriteString(` shadowrootdelegatesfocus=""`)
	}
	if sr.Serializable {
		b.WriteString(` shadowrootserializable=""`)
	}
	if sr.Clonable {
		b.WriteString(` shadowrootclonable=""`)
	}
	b.WriteByte('>')
	for c := sr.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c, opts)
	}
	b.WriteString("</template>")
}

func writeText(b *strings.Builder, n *dom.Node) {
	parentTag := ""
	if n.Parent != nil && n.Parent.Kind == dom.KindElement {
		parentTag = n.Parent.Tag
	}
	switch {
	case rawTextElements[parentTag]:
		b.WriteString(n.Data)
	case escapableRawTextElements[parentTag]:
		b.WriteString(escapeMinimal(n.Data))
	default:
		b.WriteString(EscapeText(n.Data))
	}
}

func writeDoctype(b *strings.Builder, n *dom.Node) {
	b.WriteString("<!DOCTYPE ")
	b.WriteString(n.Tag)
	if n.PublicID != "" {
		b.WriteString(` PUBLIC "`)
		b.WriteString(n.PublicID)
		b.WriteByte('"')
		if n.SystemID != "" {
			b.WriteString(` "`)
			b.WriteString(n.SystemID)
			b.WriteByte('"')
		}
	} else if n.SystemID != "" {
		b.WriteString(` SYSTEM "`)
		b.WriteString(n.SystemID)
		b.WriteByte('"')
	}
	b.WriteByte('>')
}

// EscapeText escapes text-node content: '&', U+00A0, '<', '>'.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes attribute values: '&', U+00A0, '"', '<'. Neither '>'
// nor "'" is touched, per the attribute-value escaping rule.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// escapeMinimal covers escapable raw text (textarea, title): '&' and '<'.
func escapeMinimal(s string) string {
	return minimalEscaper.Replace(s)
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		`"`, "&quot;",
		"<", "&lt;",
	)
	minimalEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
	)
)
