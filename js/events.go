package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/clickcounter/dom"
)

// jsListener tracks a script-registered listener so the same function is not
// registered twice and can be removed again.
type jsListener struct {
	value   goja.Value
	capture bool
	id      dom.ListenerID
}

// listenerOptions represents addEventListener options.
type listenerOptions struct {
	capture bool
	once    bool
}

// EventBinder connects script event listeners to dom event dispatch.
type EventBinder struct {
	binder    *DOMBinder
	listeners map[*dom.Node]map[string][]jsListener

	// The wrapper for the event currently being delivered, so every listener
	// of one dispatch sees the same object.
	lastEvent   *dom.Event
	lastWrapper *goja.Object
}

func newEventBinder(b *DOMBinder) *EventBinder {
	return &EventBinder{
		binder:    b,
		listeners: make(map[*dom.Node]map[string][]jsListener),
	}
}

// parseListenerOptions reads the third argument of add/removeEventListener,
// either a boolean capture flag or an options object.
func parseListenerOptions(vm *goja.Runtime, arg goja.Value) listenerOptions {
	var opts listenerOptions
	if arg == nil || goja.IsUndefined(arg) || goja.IsNull(arg) {
		return opts
	}
	if _, ok := arg.Export().(bool); ok {
		opts.capture = arg.ToBoolean()
		return opts
	}
	obj := arg.ToObject(vm)
	if v := obj.Get("capture"); v != nil {
		opts.capture = v.ToBoolean()
	}
	if v := obj.Get("once"); v != nil {
		opts.once = v.ToBoolean()
	}
	return opts
}

// bindEventTarget adds addEventListener, removeEventListener and
// dispatchEvent to obj. Capture listeners are delivered with the others;
// there is no separate capture phase.
func (eb *EventBinder) bindEventTarget(obj *goja.Object, node *dom.Node) {
	vm := eb.binder.runtime.vm

	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		eventType := call.Arguments[0].String()
		callback, ok := goja.AssertFunction(call.Arguments[1])
		if !ok {
			return goja.Undefined()
		}
		opts := parseListenerOptions(vm, call.Argument(2))
		eb.addListener(obj, node, eventType, callback, call.Arguments[1], opts)
		return goja.Undefined()
	})

	obj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		opts := parseListenerOptions(vm, call.Argument(2))
		eb.removeListener(node, call.Arguments[0].String(), call.Arguments[1], opts.capture)
		return goja.Undefined()
	})

	obj.Set("dispatchEvent", func(call goja.FunctionCall) goja.Value {
		event, wrapper := eb.unwrapEvent(call.Argument(0))
		if event == nil {
			panic(vm.NewTypeError("Failed to execute 'dispatchEvent': parameter 1 is not of type 'Event'."))
		}
		prevEvent, prevWrapper := eb.lastEvent, eb.lastWrapper
		eb.lastEvent, eb.lastWrapper = event, wrapper
		notCanceled, err := node.DispatchEvent(event)
		eb.lastEvent, eb.lastWrapper = prevEvent, prevWrapper
		if err != nil {
			eb.binder.throwDOMError(err)
		}
		return vm.ToValue(notCanceled)
	})
}

func (eb *EventBinder) addListener(obj *goja.Object, node *dom.Node, eventType string, callback goja.Callable, value goja.Value, opts listenerOptions) {
	byType := eb.listeners[node]
	if byType == nil {
		byType = make(map[string][]jsListener)
		eb.listeners[node] = byType
	}
	for _, l := range byType[eventType] {
		if l.value.SameAs(value) && l.capture == opts.capture {
			return
		}
	}

	var id dom.ListenerID
	listener := func(e *dom.Event) {
		if opts.once {
			eb.forget(node, eventType, id)
		}
		if _, err := callback(obj, eb.wrapEvent(e)); err != nil {
			eb.binder.runtime.reportListenerError(err)
		}
	}
	if opts.once {
		id = node.AddEventListenerOnce(eventType, listener)
	} else {
		id = node.AddEventListener(eventType, listener)
	}
	byType[eventType] = append(byType[eventType], jsListener{value: value, capture: opts.capture, id: id})
}

func (eb *EventBinder) removeListener(node *dom.Node, eventType string, value goja.Value, capture bool) {
	for _, l := range eb.listeners[node][eventType] {
		if l.value.SameAs(value) && l.capture == capture {
			node.RemoveEventListener(eventType, l.id)
			eb.forget(node, eventType, l.id)
			return
		}
	}
}

// forget drops the bookkeeping entry for a listener id.
func (eb *EventBinder) forget(node *dom.Node, eventType string, id dom.ListenerID) {
	list := eb.listeners[node][eventType]
	for i, l := range list {
		if l.id == id {
			eb.listeners[node][eventType] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// wrapEvent returns the JS object for e.
func (eb *EventBinder) wrapEvent(e *dom.Event) *goja.Object {
	if e == eb.lastEvent && eb.lastWrapper != nil {
		return eb.lastWrapper
	}
	obj := eb.newEventObject(e)
	eb.lastEvent, eb.lastWrapper = e, obj
	return obj
}

// unwrapEvent returns the Go event behind a JS event object.
func (eb *EventBinder) unwrapEvent(v goja.Value) (*dom.Event, *goja.Object) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	obj := v.ToObject(eb.binder.runtime.vm)
	if ev := obj.Get("_goEvent"); ev != nil {
		if e, ok := ev.Export().(*dom.Event); ok {
			return e, obj
		}
	}
	return nil, nil
}

func (eb *EventBinder) newEventObject(e *dom.Event) *goja.Object {
	vm := eb.binder.runtime.vm
	obj := vm.NewObject()

	obj.Set("_goEvent", e)
	obj.Set("type", e.Type)
	obj.Set("bubbles", e.Bubbles)
	obj.Set("cancelable", e.Cancelable)

	obj.DefineAccessorProperty("isTrusted", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(e.IsTrusted)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("target", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return eb.binder.BindNode(e.Target)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("currentTarget", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return eb.binder.BindNode(e.CurrentTarget)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("eventPhase", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(int(e.EventPhase))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("defaultPrevented", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(e.DefaultPrevented())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("preventDefault", func(call goja.FunctionCall) goja.Value {
		e.PreventDefault()
		return goja.Undefined()
	})
	obj.Set("stopPropagation", func(call goja.FunctionCall) goja.Value {
		e.StopPropagation()
		return goja.Undefined()
	})
	obj.Set("stopImmediatePropagation", func(call goja.FunctionCall) goja.Value {
		e.StopImmediatePropagation()
		return goja.Undefined()
	})
	return obj
}

// setupEventConstructor installs the global Event constructor:
// new Event(type, {bubbles, cancelable}).
func (eb *EventBinder) setupEventConstructor() {
	vm := eb.binder.runtime.vm
	vm.Set("Event", func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to construct 'Event': 1 argument required, but only 0 present."))
		}
		var bubbles, cancelable bool
		if init := call.Argument(1); !goja.IsUndefined(init) && !goja.IsNull(init) {
			opts := init.ToObject(vm)
			if v := opts.Get("bubbles"); v != nil {
				bubbles = v.ToBoolean()
			}
			if v := opts.Get("cancelable"); v != nil {
				cancelable = v.ToBoolean()
			}
		}
		return eb.newEventObject(dom.NewEvent(call.Arguments[0].String(), bubbles, cancelable))
	})
}
