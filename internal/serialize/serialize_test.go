package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/quill/dom"
)

func fragmentOf(t *testing.T, markup string) *dom.Node {
	t.Helper()
	frag, err := dom.ParseFragment(markup)
	require.NoError(t, err)
	return frag
}

func TestFragment_RootIsNeverEmitted(t *testing.T) {
	root := fragmentOf(t, "<p>hi</p>")
	out, err := Fragment(root.FirstChild, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", out, "the <p> container tag must not appear")
}

func TestFragment_BadRoot(t *testing.T) {
	_, err := Fragment(dom.NewText("x"), nil)
	assert.ErrorIs(t, err, ErrBadRoot)

	_, err = Fragment(dom.NewComment("x"), nil)
	assert.ErrorIs(t, err, ErrBadRoot)

	_, err = Fragment(nil, nil)
	assert.ErrorIs(t, err, ErrBadRoot)
}

func TestFragment_TextEscaping(t *testing.T) {
	div := dom.NewElement("div")
	div.AppendChild(dom.NewText("a < b > c & d\u00a0e"))
	frag := dom.NewFragment()
	frag.AppendChild(div)

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, "<div>a &lt; b &gt; c &amp; d&nbsp;e</div>", out)
}

func TestFragment_AttributeEscaping(t *testing.T) {
	el := dom.NewElement("div")
	el.SetAttribute("text", `1<2 & "quoted"`)
	el.SetAttribute("title", "a\u00a0b")
	frag := dom.NewFragment()
	frag.AppendChild(el)

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, `<div text="1&lt;2 &amp; &quot;quoted&quot;" title="a&nbsp;b"></div>`, out)
}

func TestFragment_AttributeDoesNotEscapeGtOrApostrophe(t *testing.T) {
	el := dom.NewElement("div")
	el.SetAttribute("data-x", `a>b'c`)
	frag := dom.NewFragment()
	frag.AppendChild(el)

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, `<div data-x="a>b'c"></div>`, out)
}

func TestFragment_VoidElements(t *testing.T) {
	out, err := Fragment(fragmentOf(t, `line<br>break<img src="x.png">`), nil)
	require.NoError(t, err)
	assert.Equal(t, `line<br>break<img src="x.png">`, out)
}

func TestFragment_ObsoleteElementsDropped(t *testing.T) {
	frag := dom.NewFragment()
	frag.AppendChild(dom.NewElement("keygen"))
	frag.AppendChild(dom.NewText("kept"))

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, "kept", out)
}

func TestFragment_RawTextVerbatim(t *testing.T) {
	script := dom.NewElement("script")
	script.AppendChild(dom.NewText("if (a < b && c) { run(); }"))
	style := dom.NewElement("style")
	style.AppendChild(dom.NewText("a > b { color: red }"))
	frag := dom.NewFragment()
	frag.AppendChild(script)
	frag.AppendChild(style)

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, "<script>if (a < b && c) { run(); }</script><style>a > b { color: red }</style>", out)
}

func TestFragment_EscapableRawText(t *testing.T) {
	ta := dom.NewElement("textarea")
	ta.AppendChild(dom.NewText(`a < b & "c" > d`))
	frag := dom.NewFragment()
	frag.AppendChild(ta)

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, `<textarea>a &lt; b &amp; "c" > d</textarea>`, out)
}

func TestFragment_TemplateContentSubstituted(t *testing.T) {
	frag := fragmentOf(t, `<div><template><p>tpl</p></template>after</div>`)

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, "<div><p>tpl</p>after</div>", out)
}

func TestFragment_Comment(t *testing.T) {
	frag := dom.NewFragment()
	frag.AppendChild(dom.NewComment(" keep <this> "))

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, "<!-- keep <this> -->", out)
}

func TestFragment_Doctype(t *testing.T) {
	doc, err := dom.Parse("<!DOCTYPE html><html><head></head><body></body></html>")
	require.NoError(t, err)

	out, err := Fragment(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html><html><head></head><body></body></html>", out)
}

func newShadowHost(t *testing.T, init dom.ShadowRootInit) (*dom.Node, *dom.ShadowRoot) {
	t.Helper()
	host := dom.NewElement("x-card")
	sr, err := host.AttachShadow(init)
	require.NoError(t, err)
	span := dom.NewElement("span")
	span.AppendChild(dom.NewText("shadow"))
	sr.AppendChild(span)
	host.AppendChild(dom.NewText("light"))
	return host, sr
}

func TestFragment_SerializableShadowRoot(t *testing.T) {
	host, _ := newShadowHost(t, dom.ShadowRootInit{
		Mode:         dom.ShadowRootOpen,
		Serializable: true,
	})
	frag := dom.NewFragment()
	frag.AppendChild(host)

	out, err := Fragment(frag, &Options{SerializableShadowRoots: true})
	require.NoError(t, err)
	assert.Equal(t,
		`<x-card><template shadowrootmode="open" shadowrootserializable=""><span>shadow</span></template>light</x-card>`,
		out)
}

func TestFragment_NonSerializableShadowRootGated(t *testing.T) {
	// A non-serializable root must not emit a wrapper even when requested.
	host, _ := newShadowHost(t, dom.ShadowRootInit{Mode: dom.ShadowRootOpen})
	frag := dom.NewFragment()
	frag.AppendChild(host)

	out, err := Fragment(frag, &Options{SerializableShadowRoots: true})
	require.NoError(t, err)
	assert.Equal(t, "<x-card>light</x-card>", out)
}

func TestFragment_UnrequestedShadowRootOmitted(t *testing.T) {
	host, _ := newShadowHost(t, dom.ShadowRootInit{
		Mode:         dom.ShadowRootOpen,
		Serializable: true,
	})
	frag := dom.NewFragment()
	frag.AppendChild(host)

	out, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, "<x-card>light</x-card>", out)
}

func TestFragment_ExplicitShadowRootList(t *testing.T) {
	hostA, srA := newShadowHost(t, dom.ShadowRootInit{
		Mode:         dom.ShadowRootOpen,
		Serializable: true,
	})
	hostB, _ := newShadowHost(t, dom.ShadowRootInit{
		Mode:         dom.ShadowRootOpen,
		Serializable: true,
	})
	frag := dom.NewFragment()
	frag.AppendChild(hostA)
	frag.AppendChild(hostB)

	out, err := Fragment(frag, &Options{ShadowRoots: []*dom.ShadowRoot{srA}})
	require.NoError(t, err)
	assert.Contains(t, out, `<x-card><template shadowrootmode="open"`)
	// Only the listed root is expanded.
	assert.Contains(t, out, "<x-card>light</x-card>")
}

func TestFragment_ShadowBooleanFlags(t *testing.T) {
	host, _ := newShadowHost(t, dom.ShadowRootInit{
		Mode:           dom.ShadowRootClosed,
		Serializable:   true,
		DelegatesFocus: true,
		Clonable:       true,
	})
	frag := dom.NewFragment()
	frag.AppendChild(host)

	out, err := Fragment(frag, &Options{SerializableShadowRoots: true})
	require.NoError(t, err)
	assert.Contains(t, out, `shadowrootmode="closed"`)
	assert.Contains(t, out, `shadowrootdelegatesfocus=""`)
	assert.Contains(t, out, `shadowrootserializable=""`)
	assert.Contains(t, out, `shadowrootclonable=""`)
}

func TestFragment_NestedShadowRootsPropagateOptions(t *testing.T) {
	inner, _ := newShadowHost(t, dom.ShadowRootInit{
		Mode:         dom.ShadowRootOpen,
		Serializable: true,
	})
	outer := dom.NewElement("x-outer")
	sr, err := outer.AttachShadow(dom.ShadowRootInit{
		Mode:         dom.ShadowRootOpen,
		Serializable: true,
	})
	require.NoError(t, err)
	sr.AppendChild(inner)
	frag := dom.NewFragment()
	frag.AppendChild(outer)

	out, err := Fragment(frag, &Options{SerializableShadowRoots: true})
	require.NoError(t, err)
	assert.Contains(t, out, `<x-outer><template shadowrootmode="open"`)
	assert.Contains(t, out, `<x-card><template shadowrootmode="open"`)
}

func TestFragment_Deterministic(t *testing.T) {
	frag := fragmentOf(t, `<div id="a"><p>x &amp; y</p><br><!--c--></div>`)
	first, err := Fragment(frag, nil)
	require.NoError(t, err)
	second, err := Fragment(frag, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestShadowFragment(t *testing.T) {
	_, sr := newShadowHost(t, dom.ShadowRootInit{Mode: dom.ShadowRootOpen})
	out, err := ShadowFragment(sr, nil)
	require.NoError(t, err)
	assert.Equal(t, "<span>shadow</span>", out)

	_, err = ShadowFragment(nil, nil)
	assert.ErrorIs(t, err, ErrBadRoot)
}
