package render

import (
	"github.com/a-h/templ"
	"github.com/conneroisu/quill/dom"
	"github.com/conneroisu/quill/internal/compile"
)

// Instance is the live product of materializing a Result: the top-level
// nodes of the substituted fragment plus one part per resolved placeholder.
// It is mutated in place by every subsequent update against the same
// container.
type Instance struct {
	compiled *compile.Compiled
	parts    []*part
	nodes    []*dom.Node
}

// Nodes returns the instance's current top-level nodes.
func (in *Instance) Nodes() []*dom.Node {
	out := make([]*dom.Node, len(in.nodes))
	copy(out, in.nodes)
	return out
}

// syncNodes splices fresh in place of the old run within the instance's
// top-level node list. Parts whose nodes sit below the top level are not in
// the list, in which case this is a no-op.
func (in *Instance) syncNodes(old, fresh []*dom.Node) {
	if len(old) == 0 {
		return
	}
	for i, n := range in.nodes {
		if n != old[0] {
			continue
		}
		if i+len(old) > len(in.nodes) {
			return
		}
		out := make([]*dom.Node, 0, len(in.nodes)-len(old)+len(fresh))
		out = append(out, in.nodes[:i]...)
		out = append(out, fresh...)
		out = append(out, in.nodes[i+len(old):]...)
		in.nodes = out
		return
	}
}

// part is the live render-time record for one substitution slot.
type part struct {
	desc  compile.Part
	owner *Instance

	// attr and event parts.
	el       *dom.Node
	listener *dom.Listener

	// text parts. nodes is never empty once initialized: an empty
	// substitution is held in place by an empty text node. The run must
	// track the slot's live tree nodes, since replacements anchor on it.
	nodes []*dom.Node
	child *Instance
	items []*item
	last  any
}

// item tracks one element of a list substitution.
type item struct {
	nodes []*dom.Node
	child *Instance
	last  any
}

// Materialize parses the compiled placeholder markup into a detached
// fragment, resolves every placeholder token, and applies the initial
// substitution values. Tokens the parser normalized away are skipped
// without recording a part.
func Materialize(res *Result) (*Instance, error) {
	c, err := res.tmpl.compile()
	if err != nil {
		return nil, err
	}
	frag, err := dom.ParseFragment(c.Markup)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]compile.Kind, len(c.Parts))
	for _, d := range c.Parts {
		wanted[d.Token] = d.Kind
	}
	textSites := make(map[string]*dom.Node)
	attrSites := make(map[string]*dom.Node)
	frag.Walk(func(n *dom.Node) {
		switch n.Kind {
		case dom.KindComment:
			if k, ok := wanted[n.Data]; ok && k == compile.KindText {
				textSites[n.Data] = n
			}
		case dom.KindElement:
			for _, a := range n.Attributes() {
				if k, ok := wanted[a.Value]; ok && k != compile.KindText {
					attrSites[a.Value] = n
				}
			}
		}
	})

	inst := &Instance{compiled: c}
	for _, desc := range c.Parts {
		v := valueAt(res.values, desc.Index)
		switch desc.Kind {
		case compile.KindText:
			marker, ok := textSites[desc.Token]
			if !ok {
				continue
			}
			p := &part{desc: desc, owner: inst, nodes: []*dom.Node{marker}, last: unset{}}
			if err := p.setText(v); err != nil {
				return nil, err
			}
			inst.parts = append(inst.parts, p)
		case compile.KindAttr:
			el, ok := attrSites[desc.Token]
			if !ok {
				continue
			}
			p := &part{desc: desc, el: el}
			el.SetAttribute(desc.Name, stringify(v))
			inst.parts = append(inst.parts, p)
		case compile.KindEvent:
			el, ok := attrSites[desc.Token]
			if !ok {
				continue
			}
			el.RemoveAttribute("on" + desc.Name)
			p := &part{desc: desc, el: el}
			p.setListener(v)
			inst.parts = append(inst.parts, p)
		}
	}

	inst.nodes = frag.ChildNodes()
	return inst, nil
}

// Update patches the instance in place with a new value set. Attribute
// parts re-set unconditionally, event parts rebind, text parts skip when
// the value is identity-equal to the last one seen.
func (in *Instance) Update(values []any) error {
	for _, p := range in.parts {
		v := valueAt(values, p.desc.Index)
		switch p.desc.Kind {
		case compile.KindAttr:
			p.el.SetAttribute(p.desc.Name, stringify(v))
		case compile.KindEvent:
			p.setListener(v)
		case compile.KindText:
			if err := p.setText(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// setListener detaches the previously attached listener and attaches the
// new one, so rebinding a different handler instance between renders never
// double-fires.
func (p *part) setListener(v any) {
	if p.listener != nil {
		p.listener.Remove()
		p.listener = nil
	}
	if h := handlerFor(v); h != nil {
		p.listener = p.el.AddEventListener(p.desc.Name, h)
	}
}

// setText applies a text substitution: nested result, templ component,
// list, or scalar. Identity-equal values cause zero tree writes.
func (p *part) setText(v any) error {
	if sameValue(p.last, v) {
		return nil
	}

	if _, ok := asList(v); ok {
		return p.setList(v)
	}

	switch nv := v.(type) {
	case *Result:
		nc, err := nv.tmpl.compile()
		if err != nil {
			return err
		}
		if p.child != nil && p.child.compiled == nc {
			if err := p.child.Update(nv.values); err != nil {
				return err
			}
			p.syncFromChild()
			p.last = v
			return nil
		}
		child, err := Materialize(nv)
		if err != nil {
			return err
		}
		if err := p.replace(child.nodes); err != nil {
			return err
		}
		p.child, p.items = child, nil
	case templ.Component:
		nodes, err := componentNodes(nv)
		if err != nil {
			return err
		}
		if err := p.replace(nodes); err != nil {
			return err
		}
		p.child, p.items = nil, nil
	default:
		if p.child == nil && p.items == nil &&
			len(p.nodes) == 1 && p.nodes[0].Kind == dom.KindText {
			// The cheapest path: in-place textContent mutation.
			p.nodes[0].Data = stringify(v)
		} else {
			if err := p.replace([]*dom.Node{dom.NewText(stringify(v))}); err != nil {
				return err
			}
			p.child, p.items = nil, nil
		}
	}

	p.last = v
	return nil
}

// setList applies a list substitution. Same-length lists with pairwise
// identical elements are a no-op; same-length or overlapping lists patch
// per index, and a length change appends or removes only the tail.
func (p *part) setList(v any) error {
	list, _ := asList(v)

	if old, ok := asList(p.last); ok && len(old) == len(list) {
		same := true
		for i := range list {
			if !sameValue(old[i], list[i]) {
				same = false
				break
			}
		}
		if same {
			p.last = v
			return nil
		}
	}

	// Wholesale rebuild when there is nothing to patch against.
	if len(p.items) == 0 || len(list) == 0 {
		items, nodes, err := buildItems(list)
		if err != nil {
			return err
		}
		if err := p.replace(nodes); err != nil {
			return err
		}
		p.items, p.child = items, nil
		p.last = v
		return nil
	}

	keep := len(p.items)
	if len(list) < keep {
		keep = len(list)
	}
	for i := 0; i < keep; i++ {
		if err := p.items[i].set(list[i]); err != nil {
			return err
		}
	}

	switch {
	case len(list) > len(p.items):
		// Anchor on the last item's live run; the part's own run may be
		// stale after the per-index pass above.
		tail := p.items[len(p.items)-1].nodes
		anchor := tail[len(tail)-1]
		parent, ref := anchor.Parent, anchor.NextSibling
		for _, iv := range list[len(p.items):] {
			it, err := buildItem(iv)
			if err != nil {
				return err
			}
			for _, n := range it.nodes {
				if err := parent.InsertBefore(n, ref); err != nil {
					return err
				}
			}
			p.items = append(p.items, it)
		}
	case len(list) < len(p.items):
		for _, it := range p.items[len(list):] {
			for _, n := range it.nodes {
				n.Detach()
			}
		}
		p.items = p.items[:len(list)]
	}

	nodes := make([]*dom.Node, 0, len(p.items))
	for _, it := range p.items {
		nodes = append(nodes, it.nodes...)
	}
	p.setNodes(nodes)
	p.last = v
	return nil
}

// set patches a single list item in place where possible.
func (it *item) set(v any) error {
	if sameValue(it.last, v) {
		return nil
	}

	if nv, ok := v.(*Result); ok {
		nc, err := nv.tmpl.compile()
		if err != nil {
			return err
		}
		if it.child != nil && it.child.compiled == nc {
			if err := it.child.Update(nv.values); err != nil {
				return err
			}
			if fresh := it.child.Nodes(); len(fresh) > 0 {
				it.nodes = fresh
			}
			it.last = v
			return nil
		}
	}

	if it.child == nil && len(it.nodes) == 1 && it.nodes[0].Kind == dom.KindText {
		if _, isResult := v.(*Result); !isResult {
			if _, isComponent := v.(templ.Component); !isComponent {
				it.nodes[0].Data = stringify(v)
				it.last = v
				return nil
			}
		}
	}

	fresh, err := buildItem(v)
	if err != nil {
		return err
	}
	if err := replaceRange(it.nodes, fresh.nodes); err != nil {
		return err
	}
	it.nodes, it.child, it.last = fresh.nodes, fresh.child, v
	return nil
}

// buildItems materializes every element of a list substitution in order.
func buildItems(list []any) ([]*item, []*dom.Node, error) {
	items := make([]*item, 0, len(list))
	var nodes []*dom.Node
	for _, v := range list {
		it, err := buildItem(v)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, it)
		nodes = append(nodes, it.nodes...)
	}
	return items, nodes, nil
}

// buildItem materializes one list element: nested results recurse, templ
// components render to nodes, everything else becomes a text node.
func buildItem(v any) (*item, error) {
	switch nv := v.(type) {
	case *Result:
		child, err := Materialize(nv)
		if err != nil {
			return nil, err
		}
		return &item{nodes: ensureNodes(child.nodes), child: child, last: v}, nil
	case templ.Component:
		nodes, err := componentNodes(nv)
		if err != nil {
			return nil, err
		}
		return &item{nodes: ensureNodes(nodes), last: v}, nil
	default:
		return &item{nodes: []*dom.Node{dom.NewText(stringify(v))}, last: v}, nil
	}
}

// replace swaps the part's current nodes for a new set, preserving the
// slot's position in the tree.
func (p *part) replace(nodes []*dom.Node) error {
	nodes = ensureNodes(nodes)
	if err := replaceRange(p.nodes, nodes); err != nil {
		return err
	}
	p.setNodes(nodes)
	return nil
}

// setNodes records the slot's new run and keeps the owning instance's
// top-level node list in step with it.
func (p *part) setNodes(nodes []*dom.Node) {
	if p.owner != nil {
		p.owner.syncNodes(p.nodes, nodes)
	}
	p.nodes = nodes
}

// syncFromChild refreshes the part's run after a recursive child update, in
// case the child's own top-level parts replaced their nodes. The tree is
// already correct; only the recorded run needs to follow it.
func (p *part) syncFromChild() {
	fresh := p.child.Nodes()
	if len(fresh) == 0 || nodesEqual(p.nodes, fresh) {
		return
	}
	p.setNodes(fresh)
}

func nodesEqual(a, b []*dom.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// replaceRange substitutes one contiguous node run for another within the
// same parent.
func replaceRange(old, fresh []*dom.Node) error {
	parent := old[0].Parent
	ref := old[len(old)-1].NextSibling
	for _, n := range old {
		n.Detach()
	}
	for _, n := range fresh {
		if err := parent.InsertBefore(n, ref); err != nil {
			return err
		}
	}
	return nil
}
