package render

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/conneroisu/quill/dom"
)

// ErrNilResult reports a nil template result passed to Render.
var ErrNilResult = errors.New("render: nil template result")

// ErrBadContainer reports a render container that cannot hold children.
var ErrBadContainer = errors.New("render: container must be an element, fragment, or document")

// instances associates each container with its mounted instance. The
// association is weak: registry entries never keep a container alive, and
// the entry is dropped when the container is collected.
var (
	regMu     sync.Mutex
	instances = make(map[weak.Pointer[dom.Node]]*Instance)
)

// Render mounts the result into the container on first call and patches the
// previously recorded parts in place on subsequent calls with the same
// template. Rendering a differently shaped template into an initialized
// container forces a full remount: the container is cleared and the new
// result materialized fresh.
func Render(res *Result, container *dom.Node) error {
	if res == nil {
		return ErrNilResult
	}
	if container == nil {
		return ErrBadContainer
	}
	switch container.Kind {
	case dom.KindElement, dom.KindFragment, dom.KindDocument:
	default:
		return fmt.Errorf("%w, got %s", ErrBadContainer, container.Kind)
	}

	c, err := res.tmpl.compile()
	if err != nil {
		return err
	}

	key := weak.Make(container)
	regMu.Lock()
	inst, mounted := instances[key]
	regMu.Unlock()

	if mounted && inst.compiled == c {
		return inst.Update(res.values)
	}

	if mounted {
		// Shape mismatch: drop everything the container holds and remount.
		for child := container.FirstChild; child != nil; child = container.FirstChild {
			child.Detach()
		}
	}

	fresh, err := Materialize(res)
	if err != nil {
		return err
	}
	for _, n := range fresh.nodes {
		container.AppendChild(n)
	}

	regMu.Lock()
	instances[key] = fresh
	regMu.Unlock()
	if !mounted {
		runtime.AddCleanup(container, func(k weak.Pointer[dom.Node]) {
			regMu.Lock()
			delete(instances, k)
			regMu.Unlock()
		}, key)
	}
	return nil
}

// InstanceFor returns the mounted instance recorded for a container, if any.
func InstanceFor(container *dom.Node) (*Instance, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	inst, ok := instances[weak.Make(container)]
	return inst, ok
}
