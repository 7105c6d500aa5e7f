package dom

import (
	"fmt"
	"strings"
	"sync"
)

// UpgradeFunc runs once per matching element when the element is upgraded.
// It typically attaches a shadow root and renders the element's internals.
type UpgradeFunc func(*Node)

// CustomElementRegistry maps hyphenated tag names to upgrade functions.
type CustomElementRegistry struct {
	mu   sync.RWMutex
	defs map[string]UpgradeFunc
}

// NewCustomElementRegistry returns an empty registry.
func NewCustomElementRegistry() *CustomElementRegistry {
	return &CustomElementRegistry{defs: make(map[string]UpgradeFunc)}
}

var defaultRegistry = NewCustomElementRegistry()

// Registry returns the process-wide default custom element registry.
func Registry() *CustomElementRegistry {
	return defaultRegistry
}

// Define registers an upgrade function for the given tag name. Custom
// element names must contain a hyphen; redefinition is an error.
func (r *CustomElementRegistry) Define(name string, upgrade UpgradeFunc) error {
	name = strings.ToLower(name)
	if !strings.Contains(name, "-") {
		return fmt.Errorf("dom: custom element name %q must contain a hyphen", name)
	}
	if upgrade == nil {
		return fmt.Errorf("dom: custom element %q has a nil upgrade function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("dom: custom element %q is already defined", name)
	}
	r.defs[name] = upgrade
	return nil
}

// Get returns the upgrade function registered for name.
func (r *CustomElementRegistry) Get(name string) (UpgradeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.defs[strings.ToLower(name)]
	return fn, ok
}

// Upgrade walks the tree rooted at root and upgrades every element whose
// hyphenated tag name is defined in the registry. Elements upgrade at most
// once; shadow trees attached during upgrade are walked as well so nested
// custom elements resolve in one pass.
func (r *CustomElementRegistry) Upgrade(root *Node) {
	if root == nil {
		return
	}
	r.upgradeNode(root)
}

func (r *CustomElementRegistry) upgradeNode(n *Node) {
	if n.Kind == KindElement && !n.upgraded && strings.Contains(n.Tag, "-") {
		if fn, ok := r.Get(n.Tag); ok {
			n.upgraded = true
			fn(n)
		}
	}
	if sr := n.Shadow(); sr != nil {
		for c := sr.FirstChild; c != nil; c = c.NextSibling {
			r.upgradeNode(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.upgradeNode(c)
	}
}
