// Package strrender is the static output path: it materializes a template
// result into a detached fragment, resolves custom elements so declarative
// shadow DOM can be reproduced, and flattens the tree to literal markup
// without ever mounting into a live container.
package strrender

import (
	"strings"

	"github.com/conneroisu/quill/dom"
	"github.com/conneroisu/quill/internal/render"
	"github.com/conneroisu/quill/internal/serialize"
)

// Options configures RenderToString.
type Options struct {
	// Renderer fully overrides serialization when set: it receives the
	// materialized fragment and its output is returned verbatim.
	Renderer func(*dom.Node) (string, error)

	// CustomElements swaps in a registry for upgrade resolution. Nil means
	// the process-wide default registry.
	CustomElements *dom.CustomElementRegistry

	// SerializeShadowRootAdoptedStyleSheets inlines each shadow root's
	// adopted stylesheets as literal <style> elements prepended into the
	// shadow content, since adopted sheets are otherwise invisible to
	// declarative shadow DOM markup.
	SerializeShadowRootAdoptedStyleSheets bool
}

// RenderToString materializes the result, upgrades custom elements, and
// serializes the fragment with serializable shadow roots included.
func RenderToString(res *render.Result, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}

	inst, err := render.Materialize(res)
	if err != nil {
		return "", err
	}
	frag := dom.NewFragment()
	for _, n := range inst.Nodes() {
		frag.AppendChild(n)
	}

	registry := opts.CustomElements
	if registry == nil {
		registry = dom.Registry()
	}
	registry.Upgrade(frag)

	if opts.SerializeShadowRootAdoptedStyleSheets {
		inlineAdoptedSheets(frag)
	}

	if opts.Renderer != nil {
		return opts.Renderer(frag)
	}
	return serialize.Fragment(frag, &serialize.Options{SerializableShadowRoots: true})
}

// inlineAdoptedSheets walks the tree, descending into shadow roots, and
// prepends one <style> element per adopted stylesheet into each shadow
// root's content.
func inlineAdoptedSheets(root *dom.Node) {
	root.Walk(func(n *dom.Node) {
		sr := n.Shadow()
		if sr == nil {
			return
		}
		first := sr.FirstChild
		for i := len(sr.AdoptedStyleSheets) - 1; i >= 0; i-- {
			sheet := sr.AdoptedStyleSheets[i]
			style := dom.NewElement("style")
			style.AppendChild(dom.NewText(sheet.Text()))
			// Prepend preserves sheet order ahead of existing content.
			_ = sr.InsertBefore(style, first)
			first = style
		}
		inlineAdoptedSheets(&sr.Node)
	})
}

// CSSText joins a css template's segments and stringified values into one
// stylesheet body.
func CSSText(segments []string, values []string) string {
	var b strings.Builder
	for i, seg := range segments {
		b.WriteString(seg)
		if i < len(values) {
			b.WriteString(values[i])
		}
	}
	return b.String()
}
