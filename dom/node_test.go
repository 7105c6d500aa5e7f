package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendChildAndChildNodes(t *testing.T) {
	parent := NewElement("div")
	a := NewText("a")
	b := NewText("b")

	parent.AppendChild(a)
	parent.AppendChild(b)

	children := parent.ChildNodes()
	require.Len(t, children, 2)
	assert.Same(t, a, children[0])
	assert.Same(t, b, children[1])
	assert.Same(t, parent, a.Parent)
	assert.Same(t, b, a.NextSibling)
	assert.Same(t, a, b.PrevSibling)
}

func TestAppendChildReparents(t *testing.T) {
	first := NewElement("div")
	second := NewElement("span")
	child := NewText("x")

	first.AppendChild(child)
	second.AppendChild(child)

	assert.Empty(t, first.ChildNodes())
	assert.Same(t, second, child.Parent)
}

func TestInsertBefore(t *testing.T) {
	parent := NewElement("ul")
	a := NewElement("li")
	c := NewElement("li")
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := NewElement("li")
	require.NoError(t, parent.InsertBefore(b, c))

	children := parent.ChildNodes()
	require.Len(t, children, 3)
	assert.Same(t, b, children[1])

	// nil ref appends
	d := NewElement("li")
	require.NoError(t, parent.InsertBefore(d, nil))
	assert.Same(t, d, parent.LastChild)

	// foreign ref is rejected
	err := parent.InsertBefore(NewElement("li"), NewElement("li"))
	assert.Error(t, err)
}

func TestReplaceWith(t *testing.T) {
	parent := NewElement("div")
	marker := NewComment("marker")
	parent.AppendChild(NewText("before"))
	parent.AppendChild(marker)
	parent.AppendChild(NewText("after"))

	a := NewText("a")
	b := NewText("b")
	require.NoError(t, marker.ReplaceWith(a, b))

	children := parent.ChildNodes()
	require.Len(t, children, 4)
	assert.Same(t, a, children[1])
	assert.Same(t, b, children[2])
	assert.Nil(t, marker.Parent)

	assert.Error(t, marker.ReplaceWith(NewText("x")))
}

func TestAttributes(t *testing.T) {
	el := NewElement("a")

	_, ok := el.GetAttribute("href")
	assert.False(t, ok)

	el.SetAttribute("href", "/home")
	el.SetAttribute("Class", "link")

	v, ok := el.GetAttribute("HREF")
	assert.True(t, ok)
	assert.Equal(t, "/home", v)
	assert.True(t, el.HasAttribute("class"))

	// Re-setting preserves order.
	el.SetAttribute("href", "/away")
	attrs := el.Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, Attr{Name: "href", Value: "/away"}, attrs[0])

	el.RemoveAttribute("href")
	assert.False(t, el.HasAttribute("href"))
}

func TestTextContent(t *testing.T) {
	frag, err := ParseFragment("<div>a<span>b</span>c</div>")
	require.NoError(t, err)
	assert.Equal(t, "abc", frag.TextContent())
}

func TestEventDispatchAndRemoval(t *testing.T) {
	el := NewElement("button")
	count := 0
	l := el.AddEventListener("click", ListenerFunc(func(*Event) { count++ }))

	el.DispatchEvent(&Event{Type: "click"})
	el.DispatchEvent(&Event{Type: "other"})
	assert.Equal(t, 1, count)

	l.Remove()
	el.DispatchEvent(&Event{Type: "click"})
	assert.Equal(t, 1, count)

	// Removing twice is fine.
	l.Remove()
	assert.Equal(t, 0, el.Listeners("click"))
}

type countingHandler struct{ calls int }

func (h *countingHandler) HandleEvent(*Event) { h.calls++ }

func TestEventHandlerObject(t *testing.T) {
	el := NewElement("input")
	h := &countingHandler{}
	el.AddEventListener("change", h)

	el.DispatchEvent(&Event{Type: "change"})
	assert.Equal(t, 1, h.calls)
}

func TestAttachShadow(t *testing.T) {
	host := NewElement("x-card")
	sr, err := host.AttachShadow(ShadowRootInit{Mode: ShadowRootOpen, Serializable: true})
	require.NoError(t, err)

	assert.Same(t, host, sr.Host)
	assert.Equal(t, ShadowRootOpen, sr.Mode)
	assert.True(t, sr.Serializable)
	assert.Same(t, sr, host.Shadow())

	_, err = host.AttachShadow(ShadowRootInit{Mode: ShadowRootOpen})
	assert.Error(t, err, "second shadow root must be rejected")

	_, err = NewText("x").AttachShadow(ShadowRootInit{})
	assert.Error(t, err)
}

func TestParseFragmentPreservesComments(t *testing.T) {
	frag, err := ParseFragment("<div><!--$text-0$--></div>")
	require.NoError(t, err)

	div := frag.FirstChild
	require.NotNil(t, div)
	require.Equal(t, KindElement, div.Kind)
	comment := div.FirstChild
	require.NotNil(t, comment)
	assert.Equal(t, KindComment, comment.Kind)
	assert.Equal(t, "$text-0$", comment.Data)
}

func TestParseFragmentAttributes(t *testing.T) {
	frag, err := ParseFragment(`<a href="$attr-0$" ID=x>link</a>`)
	require.NoError(t, err)

	a := frag.FirstChild
	require.NotNil(t, a)
	v, ok := a.GetAttribute("href")
	assert.True(t, ok)
	assert.Equal(t, "$attr-0$", v)
	// Attribute names are lower-cased by the parser.
	v, ok = a.GetAttribute("id")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestParseDocumentKeepsDoctype(t *testing.T) {
	doc, err := Parse("<!DOCTYPE html><html><head></head><body><p>hi</p></body></html>")
	require.NoError(t, err)

	require.Equal(t, KindDocument, doc.Kind)
	dt := doc.FirstChild
	require.NotNil(t, dt)
	assert.Equal(t, KindDoctype, dt.Kind)
	assert.Equal(t, "html", dt.Tag)
}

func TestCustomElementRegistry(t *testing.T) {
	reg := NewCustomElementRegistry()

	assert.Error(t, reg.Define("plain", func(*Node) {}), "name without hyphen")
	assert.Error(t, reg.Define("x-thing", nil), "nil upgrade")

	upgrades := 0
	require.NoError(t, reg.Define("x-thing", func(el *Node) {
		upgrades++
		el.SetAttribute("upgraded", "")
	}))
	assert.Error(t, reg.Define("x-thing", func(*Node) {}), "redefinition")

	frag, err := ParseFragment("<div><x-thing></x-thing><x-other></x-other></div>")
	require.NoError(t, err)

	reg.Upgrade(frag)
	assert.Equal(t, 1, upgrades)

	// Upgrading again is a no-op per element.
	reg.Upgrade(frag)
	assert.Equal(t, 1, upgrades)
}

func TestRegistryUpgradesIntoShadowTrees(t *testing.T) {
	reg := NewCustomElementRegistry()

	inner := 0
	require.NoError(t, reg.Define("x-inner", func(*Node) { inner++ }))
	require.NoError(t, reg.Define("x-outer", func(el *Node) {
		sr, err := el.AttachShadow(ShadowRootInit{Mode: ShadowRootOpen})
		require.NoError(t, err)
		sr.AppendChild(NewElement("x-inner"))
	}))

	frag, err := ParseFragment("<x-outer></x-outer>")
	require.NoError(t, err)

	reg.Upgrade(frag)
	assert.Equal(t, 1, inner, "nested custom elements resolve in one pass")
}
