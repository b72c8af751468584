package dom

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone     EventPhase = 0
	EventPhaseAtTarget EventPhase = 2
	EventPhaseBubbling EventPhase = 3
)

// Event is dispatched to a node and, when Bubbles is set, to its ancestors.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	EventPhase    EventPhase
	Bubbles       bool
	Cancelable    bool
	IsTrusted     bool

	defaultPrevented bool
	stopPropagation  bool
	stopImmediate    bool
	dispatching      bool
}

// NewEvent creates an untrusted event of the given type.
func NewEvent(eventType string, bubbles, cancelable bool) *Event {
	return &Event{
		Type:       eventType,
		Bubbles:    bubbles,
		Cancelable: cancelable,
	}
}

// PreventDefault marks a cancelable event as canceled.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called on a cancelable event.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops dispatch to further nodes after the current one.
func (e *Event) StopPropagation() {
	e.stopPropagation = true
}

// StopImmediatePropagation stops dispatch to any further listener.
func (e *Event) StopImmediatePropagation() {
	e.stopPropagation = true
	e.stopImmediate = true
}

// Listener is called with the event being dispatched.
type Listener func(*Event)

// ListenerID identifies a registration on one node. IDs are never reused on
// that node.
type ListenerID int

type eventListener struct {
	id       ListenerID
	callback Listener
	once     bool
}

// AddEventListener registers callback for events of eventType on this node.
// Every call creates a separate registration.
func (n *Node) AddEventListener(eventType string, callback Listener) ListenerID {
	return n.addEventListener(eventType, callback, false)
}

// AddEventListenerOnce registers a callback that is removed after its first call.
func (n *Node) AddEventListenerOnce(eventType string, callback Listener) ListenerID {
	return n.addEventListener(eventType, callback, true)
}

func (n *Node) addEventListener(eventType string, callback Listener, once bool) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[string][]eventListener)
	}
	n.nextListenerID++
	n.listeners[eventType] = append(n.listeners[eventType], eventListener{
		id:       n.nextListenerID,
		callback: callback,
		once:     once,
	})
	return n.nextListenerID
}

// RemoveEventListener unregisters the listener with the given id. Unknown ids
// are ignored.
func (n *Node) RemoveEventListener(eventType string, id ListenerID) {
	listeners := n.listeners[eventType]
	for i, l := range listeners {
		if l.id == id {
			n.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
			return
		}
	}
}

// HasEventListeners returns true if there are listeners for the event type.
func (n *Node) HasEventListeners(eventType string) bool {
	return len(n.listeners[eventType]) > 0
}

// DispatchEvent dispatches event to this node and, if it bubbles, to each
// ancestor in turn. Listeners run synchronously in registration order; ones
// added during dispatch are not called for this event. It returns false if
// the event was canceled.
func (n *Node) DispatchEvent(event *Event) (bool, error) {
	if event.dispatching {
		return false, &DOMError{Name: "InvalidStateError", Message: "The event is already being dispatched."}
	}
	event.dispatching = true
	event.Target = n
	event.stopPropagation = false
	event.stopImmediate = false

	path := []*Node{n}
	if event.Bubbles {
		for p := n.parentNode; p != nil; p = p.parentNode {
			path = append(path, p)
		}
	}

	for i, node := range path {
		event.CurrentTarget = node
		if i == 0 {
			event.EventPhase = EventPhaseAtTarget
		} else {
			event.EventPhase = EventPhaseBubbling
		}
		node.invokeListeners(event)
		if event.stopPropagation {
			break
		}
	}

	event.dispatching = false
	event.CurrentTarget = nil
	event.EventPhase = EventPhaseNone
	return !event.defaultPrevented, nil
}

func (n *Node) invokeListeners(event *Event) {
	snapshot := make([]eventListener, len(n.listeners[event.Type]))
	copy(snapshot, n.listeners[event.Type])

	for _, l := range snapshot {
		if !n.hasListener(event.Type, l.id) {
			continue
		}
		if l.once {
			n.RemoveEventListener(event.Type, l.id)
		}
		l.callback(event)
		if event.stopImmediate {
			return
		}
	}
}

func (n *Node) hasListener(eventType string, id ListenerID) bool {
	for _, l := range n.listeners[eventType] {
		if l.id == id {
			return true
		}
	}
	return false
}

// AddEventListener registers callback on the element.
func (e *Element) AddEventListener(eventType string, callback Listener) ListenerID {
	return e.AsNode().AddEventListener(eventType, callback)
}

// RemoveEventListener unregisters a listener from the element.
func (e *Element) RemoveEventListener(eventType string, id ListenerID) {
	e.AsNode().RemoveEventListener(eventType, id)
}

// Click dispatches a trusted, bubbling, cancelable "click" event at the element.
func (e *Element) Click() {
	event := NewEvent("click", true, true)
	event.IsTrusted = true
	_, _ = e.AsNode().DispatchEvent(event)
}
