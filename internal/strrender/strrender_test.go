package strrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/quill/dom"
	"github.com/conneroisu/quill/internal/render"
)

func sheetOf(css string) *dom.StyleSheet {
	s := dom.NewStyleSheet()
	s.ReplaceSync(css)
	return s
}

func TestRenderToString_InlinesAdoptedSheetsInOrder(t *testing.T) {
	first := sheetOf("p { color: red }")
	second := sheetOf("p { margin: 0 }")

	reg := dom.NewCustomElementRegistry()
	require.NoError(t, reg.Define("x-styled", func(el *dom.Node) {
		sr, err := el.AttachShadow(dom.ShadowRootInit{
			Mode:         dom.ShadowRootOpen,
			Serializable: true,
		})
		require.NoError(t, err)
		sr.AdoptedStyleSheets = append(sr.AdoptedStyleSheets, first, second)
		p := dom.NewElement("p")
		p.AppendChild(dom.NewText("hi"))
		sr.AppendChild(p)
	}))

	tmpl := render.NewTemplate([]string{"<x-styled></x-styled>"})
	out, err := RenderToString(tmpl.Bind(), &Options{
		CustomElements:                        reg,
		SerializeShadowRootAdoptedStyleSheets: true,
	})
	require.NoError(t, err)

	// Sheet order is preserved, ahead of the shadow content.
	assert.Equal(t,
		`<x-styled><template shadowrootmode="open" shadowrootserializable="">`+
			`<style>p { color: red }</style><style>p { margin: 0 }</style><p>hi</p>`+
			`</template></x-styled>`,
		out)
}

func TestRenderToString_AdoptedSheetsNotInlinedByDefault(t *testing.T) {
	reg := dom.NewCustomElementRegistry()
	require.NoError(t, reg.Define("x-styled", func(el *dom.Node) {
		sr, err := el.AttachShadow(dom.ShadowRootInit{
			Mode:         dom.ShadowRootOpen,
			Serializable: true,
		})
		require.NoError(t, err)
		sr.AdoptedStyleSheets = append(sr.AdoptedStyleSheets, sheetOf("p { color: red }"))
	}))

	tmpl := render.NewTemplate([]string{"<x-styled></x-styled>"})
	out, err := RenderToString(tmpl.Bind(), &Options{CustomElements: reg})
	require.NoError(t, err)
	assert.NotContains(t, out, "<style>")
}

func TestRenderToString_RendererOverrideReceivesFragment(t *testing.T) {
	tmpl := render.NewTemplate([]string{"<div>", "</div>"})

	called := false
	out, err := RenderToString(tmpl.Bind("x"), &Options{
		Renderer: func(frag *dom.Node) (string, error) {
			called = true
			assert.Equal(t, dom.KindFragment, frag.Kind)
			assert.Equal(t, "x", frag.TextContent())
			return "custom", nil
		},
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "custom", out)
}

func TestCSSText(t *testing.T) {
	assert.Equal(t, "p { color: red }", CSSText([]string{"p { color: ", " }"}, []string{"red"}))
	assert.Equal(t, "body {}", CSSText([]string{"body {}"}, nil))
	assert.Equal(t, "a1b2", CSSText([]string{"a", "b", ""}, []string{"1", "2"}))
}
