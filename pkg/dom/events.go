package dom

// Event is dispatched to listeners.
type Event struct {
	Type   string
	Target *Node
	Detail any

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops bubbling to ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event.
type Listener func(*Event)

type listener struct {
	fn   Listener
	once bool
}

// AddEventListener registers fn for event. The returned function removes it.
func (n *Node) AddEventListener(event string, fn Listener) (remove func()) {
	return n.addListener(event, fn, false)
}

// AddEventListenerOnce registers fn to run at most once.
func (n *Node) AddEventListenerOnce(event string, fn Listener) (remove func()) {
	return n.addListener(event, fn, true)
}

func (n *Node) addListener(event string, fn Listener, once bool) func() {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn, once: once}
	n.listeners[event] = append(n.listeners[event], l)
	return func() { n.removeListener(event, l) }
}

func (n *Node) removeListener(event string, l *listener) {
	list := n.listeners[event]
	for i, have := range list {
		if have == l {
			n.listeners[event] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for event.
func (n *Node) ListenerCount(event string) int {
	return len(n.listeners[event])
}

// DispatchEvent delivers ev to n and then bubbles to its ancestors.
func (n *Node) DispatchEvent(ev *Event) {
	if ev.Target == nil {
		ev.Target = n
	}
	for cur := n; cur != nil && !ev.stopped; cur = cur.parent {
		for _, l := range append([]*listener(nil), cur.listeners[ev.Type]...) {
			if l.once {
				cur.removeListener(ev.Type, l)
			}
			l.fn(ev)
		}
	}
}
