package dom

// Event carries the event type and the node it was dispatched on.
type Event struct {
	Type   string
	Target *Node
}

// EventHandler handles dispatched events. Function listeners wrap themselves
// with ListenerFunc.
type EventHandler interface {
	HandleEvent(*Event)
}

// ListenerFunc adapts a function to the EventHandler interface.
type ListenerFunc func(*Event)

// HandleEvent calls f.
func (f ListenerFunc) HandleEvent(e *Event) { f(e) }

// Listener is a registered event listener. It is the removal handle: Go
// function values are not comparable, so listeners are detached through the
// registration returned by AddEventListener rather than by value identity.
type Listener struct {
	node    *Node
	typ     string
	handler EventHandler
}

// Type returns the event type the listener is registered for.
func (l *Listener) Type() string { return l.typ }

// Remove detaches the listener from its node. Removing twice is a no-op.
func (l *Listener) Remove() {
	if l.node == nil {
		return
	}
	ls := l.node.listeners
	for i, reg := range ls {
		if reg == l {
			l.node.listeners = append(ls[:i], ls[i+1:]...)
			break
		}
	}
	l.node = nil
}

// AddEventListener registers handler for events of the given type and
// returns the registration handle used to remove it.
func (n *Node) AddEventListener(typ string, handler EventHandler) *Listener {
	l := &Listener{node: n, typ: typ, handler: handler}
	n.listeners = append(n.listeners, l)
	return l
}

// DispatchEvent invokes every listener registered on n for the event's type,
// in registration order. There is no capture or bubbling phase.
func (n *Node) DispatchEvent(e *Event) {
	if e.Target == nil {
		e.Target = n
	}
	// Snapshot so a listener removing itself does not skip its neighbor.
	regs := make([]*Listener, len(n.listeners))
	copy(regs, n.listeners)
	for _, l := range regs {
		if l.node == n && l.typ == e.Type {
			l.handler.HandleEvent(e)
		}
	}
}

// Listeners returns the number of listeners registered for the given type.
func (n *Node) Listeners(typ string) int {
	count := 0
	for _, l := range n.listeners {
		if l.typ == typ {
			count++
		}
	}
	return count
}
