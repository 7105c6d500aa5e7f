package dom

import "fmt"

// ShadowRootMode controls whether a shadow root is reachable from its host.
type ShadowRootMode string

const (
	ShadowRootOpen   ShadowRootMode = "open"
	ShadowRootClosed ShadowRootMode = "closed"
)

// ShadowRootInit holds the options accepted by AttachShadow.
type ShadowRootInit struct {
	Mode           ShadowRootMode
	DelegatesFocus bool
	Serializable   bool
	Clonable       bool
}

// ShadowRoot is a shadow tree attached to a host element. Its Node is a
// document fragment holding the shadow content.
type ShadowRoot struct {
	Node

	Host           *Node
	Mode           ShadowRootMode
	DelegatesFocus bool
	Serializable   bool
	Clonable       bool

	// AdoptedStyleSheets are constructed stylesheets applied to the shadow
	// tree. They are not part of the markup; serialization inlines them only
	// on request.
	AdoptedStyleSheets []*StyleSheet
}

// AttachShadow attaches a shadow root to the element. An element can host at
// most one shadow root.
func (n *Node) AttachShadow(init ShadowRootInit) (*ShadowRoot, error) {
	if n.Kind != KindElement {
		return nil, fmt.Errorf("dom: cannot attach a shadow root to a %s node", n.Kind)
	}
	if n.shadow != nil {
		return nil, fmt.Errorf("dom: element <%s> already hosts a shadow root", n.Tag)
	}
	mode := init.Mode
	if mode == "" {
		mode = ShadowRootOpen
	}
	sr := &ShadowRoot{
		Node:           Node{Kind: KindFragment},
		Host:           n,
		Mode:           mode,
		DelegatesFocus: init.DelegatesFocus,
		Serializable:   init.Serializable,
		Clonable:       init.Clonable,
	}
	n.shadow = sr
	return sr, nil
}

// Shadow returns the element's shadow root, or nil when none is attached.
// Closed shadow roots are returned as well; host-side visibility rules are
// the serializer's concern, not the tree's.
func (n *Node) Shadow() *ShadowRoot {
	return n.shadow
}

// StyleSheet is a constructed stylesheet for use with AdoptedStyleSheets.
type StyleSheet struct {
	text string
}

// NewStyleSheet returns an empty constructed stylesheet.
func NewStyleSheet() *StyleSheet {
	return &StyleSheet{}
}

// ReplaceSync replaces the stylesheet's contents.
func (s *StyleSheet) ReplaceSync(cssText string) {
	s.text = cssText
}

// Text returns the stylesheet's current contents.
func (s *StyleSheet) Text() string {
	return s.text
}
