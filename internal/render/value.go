package render

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-h/templ"
	"github.com/conneroisu/quill/dom"
)

// unset is the "no previous value" sentinel recorded on fresh parts. The
// type is unexported, so no caller-supplied value ever compares equal to it.
type unset struct{}

// sameValue is the dirty-check identity comparison: pointer equality for
// nested results, == for comparable values of the same dynamic type.
// Uncomparable values (slices, funcs, components) never compare equal here;
// slices get their own pairwise check in the list path.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ra, ok := a.(*Result); ok {
		rb, ok := b.(*Result)
		return ok && ra == rb
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// asList reports whether v is a substitution list and flattens it to []any.
// Strings and byte slices are scalars, not lists.
func asList(v any) ([]any, bool) {
	switch v.(type) {
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// stringify renders a substitution value as text. Values of unexpected
// shape coerce through their default formatting rather than being rejected.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// valueAt returns the substitution value for a slot, treating a missing
// value as nil rather than failing.
func valueAt(values []any, i int) any {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	return nil
}

// handlerFor converts an event substitution into a listener. Functions and
// EventHandler implementations attach; anything else means no listener.
func handlerFor(v any) dom.EventHandler {
	switch h := v.(type) {
	case dom.EventHandler:
		return h
	case func(*dom.Event):
		return dom.ListenerFunc(h)
	default:
		return nil
	}
}

// componentNodes renders a templ component to markup and parses the output
// into dom nodes, letting templ components appear as text substitutions.
func componentNodes(c templ.Component) ([]*dom.Node, error) {
	var buf strings.Builder
	if err := c.Render(context.Background(), &buf); err != nil {
		return nil, fmt.Errorf("render: templ component: %w", err)
	}
	frag, err := dom.ParseFragment(buf.String())
	if err != nil {
		return nil, err
	}
	return frag.ChildNodes(), nil
}

// ensureNodes guarantees a non-empty node list for a text slot. An empty
// substitution leaves a single empty text node to hold the slot's position
// for later updates; it serializes to nothing.
func ensureNodes(nodes []*dom.Node) []*dom.Node {
	if len(nodes) == 0 {
		return []*dom.Node{dom.NewText("")}
	}
	return nodes
}
