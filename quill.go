// Package quill is a minimal HTML templating engine with incremental DOM
// patching and static serialization.
//
// A Template is compiled once from its static segments; binding values to
// it yields a Result that can be mounted into a dom container with Render
// (first call materializes, later calls patch only changed slots) or
// flattened to literal markup with RenderToString, including declarative
// shadow DOM reproduction for custom elements.
//
//	var (
//		item = quill.New("<li>", "</li>")
//		list = quill.New("<ul>", "</ul>")
//	)
//
//	func view(items []string) *quill.Result {
//		out := make([]any, len(items))
//		for i, it := range items {
//			out[i] = item.Bind(it)
//		}
//		return list.Bind(out)
//	}
package quill

import (
	"fmt"

	"github.com/conneroisu/quill/dom"
	"github.com/conneroisu/quill/internal/render"
	"github.com/conneroisu/quill/internal/serialize"
	"github.com/conneroisu/quill/internal/strrender"
)

// Template is a compile-once template handle; see New.
type Template = render.Template

// Result pairs a template with one render call's substitution values.
type Result = render.Result

// RenderToStringOptions configures RenderToString.
type RenderToStringOptions = strrender.Options

// SerializeOptions configures SerializeFragment's declarative shadow DOM
// output.
type SerializeOptions = serialize.Options

// New builds a template from its static segments. N segments describe N-1
// substitution slots; the returned Template is the identity that keys part
// shape, so hold on to it (typically in a package-level variable) and Bind
// per render.
func New(segments ...string) *Template {
	return render.NewTemplate(segments)
}

// HTML is the one-shot form: it resolves the segment slice to its Template
// through an identity-keyed cache and binds the values. Reusing the same
// backing slice reuses the same compiled template; distinct slices with
// identical text never collide.
func HTML(segments []string, values ...any) *Result {
	return render.TemplateFor(segments).Bind(values...)
}

// Render mounts the result into the container on first call and patches in
// place on subsequent calls. Rendering a differently shaped template into
// an already-initialized container clears it and remounts.
func Render(res *Result, container *dom.Node) error {
	return render.Render(res, container)
}

// RenderToString materializes the result without mounting it, upgrades
// custom elements against the default or a caller-supplied registry, and
// returns the serialized markup with serializable shadow roots inlined as
// <template shadowrootmode=...> wrappers.
func RenderToString(res *Result, opts *RenderToStringOptions) (string, error) {
	return strrender.RenderToString(res, opts)
}

// SerializeFragment flattens the children of node to markup per the HTML
// fragment serialization algorithm. The node itself is never emitted.
func SerializeFragment(node *dom.Node, opts *SerializeOptions) (string, error) {
	return serialize.Fragment(node, opts)
}

// SerializeShadow flattens the children of a shadow root.
func SerializeShadow(sr *dom.ShadowRoot, opts *SerializeOptions) (string, error) {
	return serialize.ShadowFragment(sr, opts)
}

// CSS builds a constructed stylesheet from alternating static segments and
// stringified values, for use with shadow-root adopted stylesheets.
func CSS(segments []string, values ...any) *dom.StyleSheet {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = stringifyCSS(v)
	}
	sheet := dom.NewStyleSheet()
	sheet.ReplaceSync(strrender.CSSText(segments, strs))
	return sheet
}

func stringifyCSS(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
