package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/clickcounter/dom"
)

// DOMBinder exposes a dom.Document to a Runtime. Each Go node maps to exactly
// one JS object, so identity comparisons in scripts behave.
type DOMBinder struct {
	runtime *Runtime
	doc     *dom.Document
	nodeMap map[*dom.Node]*goja.Object
	events  *EventBinder
}

// NewDOMBinder creates a binder for the runtime and installs the Event and
// DOMException constructors.
func NewDOMBinder(runtime *Runtime) *DOMBinder {
	b := &DOMBinder{
		runtime: runtime,
		nodeMap: make(map[*dom.Node]*goja.Object),
	}
	b.events = newEventBinder(b)
	b.setupDOMException()
	b.events.setupEventConstructor()
	return b
}

// BindDocument creates the JS document object and sets it as the global
// "document".
func (b *DOMBinder) BindDocument(doc *dom.Document) *goja.Object {
	vm := b.runtime.vm
	b.doc = doc
	jsDoc := b.newNodeObject(doc.AsNode())

	jsDoc.DefineAccessorProperty("documentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(doc.DocumentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("head", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(doc.Head())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("body", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(doc.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("title", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.Title())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(doc.GetElementById(call.Argument(0).String()))
	})
	jsDoc.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return b.bindElementList(doc.GetElementsByTagName(call.Argument(0).String()))
	})
	jsDoc.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return b.bindElementList(doc.GetElementsByClassName(call.Argument(0).String()))
	})
	jsDoc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'createElement': 1 argument required"))
		}
		return b.BindElement(doc.CreateElement(call.Arguments[0].String()))
	})
	jsDoc.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(doc.CreateTextNode(call.Argument(0).String()))
	})
	jsDoc.Set("createComment", func(call goja.FunctionCall) goja.Value {
		return b.BindNode(doc.CreateComment(call.Argument(0).String()))
	})

	b.runtime.vm.Set("document", jsDoc)
	return jsDoc
}

// BindNode returns the JS object for node, or null for nil.
func (b *DOMBinder) BindNode(node *dom.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	if obj, ok := b.nodeMap[node]; ok {
		return obj
	}
	switch node.NodeType() {
	case dom.ElementNode:
		return b.BindElement((*dom.Element)(node))
	case dom.DocumentNode:
		if b.doc != nil && b.doc.AsNode() == node {
			return b.runtime.vm.Get("document")
		}
	}
	return b.bindCharacterData(node)
}

func (b *DOMBinder) bindElementOrNull(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return b.BindElement(el)
}

// BindElement returns the JS object for el.
func (b *DOMBinder) BindElement(el *dom.Element) *goja.Object {
	if obj, ok := b.nodeMap[el.AsNode()]; ok {
		return obj
	}
	vm := b.runtime.vm
	jsEl := b.newNodeObject(el.AsNode())

	jsEl.Set("tagName", el.TagName())
	jsEl.Set("localName", el.LocalName())

	b.defineStringProperty(jsEl, "id", el.Id, el.SetId)
	b.defineStringProperty(jsEl, "className", el.ClassName, el.SetClassName)

	jsEl.DefineAccessorProperty("classList", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindTokenList(el.ClassList())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("children", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementList(el.Children())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("childElementCount", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ChildElementCount())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("firstElementChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(el.FirstElementChild())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("lastElementChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(el.LastElementChild())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("previousElementSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(el.PreviousElementSibling())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("nextElementSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(el.NextElementSibling())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := el.LookupAttribute(call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(v)
	})
	jsEl.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.HasAttribute(call.Argument(0).String()))
	})
	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
		}
		if err := el.SetAttributeWithError(call.Arguments[0].String(), call.Arguments[1].String()); err != nil {
			b.throwDOMError(err)
		}
		return goja.Undefined()
	})
	jsEl.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttribute(call.Argument(0).String())
		return goja.Undefined()
	})
	jsEl.Set("toggleAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ToggleAttribute(call.Argument(0).String()))
	})
	jsEl.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return b.bindElementList(el.GetElementsByTagName(call.Argument(0).String()))
	})
	jsEl.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return b.bindElementList(el.GetElementsByClassName(call.Argument(0).String()))
	})
	jsEl.Set("remove", func(call goja.FunctionCall) goja.Value {
		el.Remove()
		return goja.Undefined()
	})
	jsEl.Set("click", func(call goja.FunctionCall) goja.Value {
		el.Click()
		return goja.Undefined()
	})

	return jsEl
}

// bindCharacterData creates the JS object for a text, comment or doctype node.
func (b *DOMBinder) bindCharacterData(node *dom.Node) *goja.Object {
	vm := b.runtime.vm
	jsNode := b.newNodeObject(node)
	b.defineStringProperty(jsNode, "data", node.NodeValue, node.SetNodeValue)
	jsNode.DefineAccessorProperty("length", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(len([]rune(node.NodeValue())))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsNode.Set("remove", func(call goja.FunctionCall) goja.Value {
		node.Remove()
		return goja.Undefined()
	})
	return jsNode
}

// newNodeObject creates and caches the JS object for node with the Node
// interface and EventTarget methods.
func (b *DOMBinder) newNodeObject(node *dom.Node) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()
	b.nodeMap[node] = obj

	obj.Set("_goNode", node)
	obj.Set("nodeType", int(node.NodeType()))
	obj.Set("nodeName", node.NodeName())

	obj.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if node.NodeType() == dom.DocumentNode {
			return goja.Null()
		}
		return vm.ToValue(node.TextContent())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0)
		if goja.IsNull(v) || goja.IsUndefined(v) {
			node.SetTextContent("")
		} else {
			node.SetTextContent(v.String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.DefineAccessorProperty("nodeValue", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		switch node.NodeType() {
		case dom.TextNode, dom.CommentNode:
			return vm.ToValue(node.NodeValue())
		}
		return goja.Null()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("parentNode", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindNode(node.ParentNode())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("parentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindElementOrNull(node.ParentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("firstChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindNode(node.FirstChild())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("lastChild", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindNode(node.LastChild())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("previousSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindNode(node.PreviousSibling())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("nextSibling", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.BindNode(node.NextSibling())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("isConnected", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.IsConnected())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("childNodes", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		children := node.ChildNodes()
		values := make([]interface{}, len(children))
		for i, c := range children {
			values[i] = b.BindNode(c)
		}
		return vm.NewArray(values...)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("hasChildNodes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.HasChildNodes())
	})
	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.Contains(b.getGoNode(call.Argument(0))))
	})
	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := b.requireNode(call.Argument(0), "appendChild")
		if _, err := node.AppendChild(child); err != nil {
			b.throwDOMError(err)
		}
		return call.Argument(0)
	})
	obj.Set("insertBefore", func(call goja.FunctionCall) goja.Value {
		child := b.requireNode(call.Argument(0), "insertBefore")
		if _, err := node.InsertBefore(child, b.getGoNode(call.Argument(1))); err != nil {
			b.throwDOMError(err)
		}
		return call.Argument(0)
	})
	obj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		child := b.requireNode(call.Argument(0), "removeChild")
		if _, err := node.RemoveChild(child); err != nil {
			b.throwDOMError(err)
		}
		return call.Argument(0)
	})
	obj.Set("replaceChild", func(call goja.FunctionCall) goja.Value {
		newChild := b.requireNode(call.Argument(0), "replaceChild")
		oldChild := b.requireNode(call.Argument(1), "replaceChild")
		if _, err := node.ReplaceChild(newChild, oldChild); err != nil {
			b.throwDOMError(err)
		}
		return call.Argument(1)
	})

	b.events.bindEventTarget(obj, node)
	return obj
}

// defineStringProperty defines a read/write string accessor backed by Go functions.
func (b *DOMBinder) defineStringProperty(obj *goja.Object, name string, get func() string, set func(string)) {
	vm := b.runtime.vm
	obj.DefineAccessorProperty(name, vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(get())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		set(call.Argument(0).String())
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// bindElementList returns a static array of element objects.
func (b *DOMBinder) bindElementList(elements []*dom.Element) goja.Value {
	values := make([]interface{}, len(elements))
	for i, el := range elements {
		values[i] = b.BindElement(el)
	}
	return b.runtime.vm.NewArray(values...)
}

// bindTokenList creates the JS object for a class list.
func (b *DOMBinder) bindTokenList(tl *dom.DOMTokenList) *goja.Object {
	vm := b.runtime.vm
	obj := vm.NewObject()

	tokenArgs := func(args []goja.Value) []string {
		out := make([]string, len(args))
		for i, a := range args {
			out[i] = a.String()
		}
		return out
	}

	obj.DefineAccessorProperty("length", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Length())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("value", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Value())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.Set("item", func(call goja.FunctionCall) goja.Value {
		idx := int(call.Argument(0).ToInteger())
		if idx < 0 || idx >= tl.Length() {
			return goja.Null()
		}
		return vm.ToValue(tl.Item(idx))
	})
	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Contains(call.Argument(0).String()))
	})
	obj.Set("add", func(call goja.FunctionCall) goja.Value {
		if err := tl.Add(tokenArgs(call.Arguments)...); err != nil {
			b.throwDOMError(err)
		}
		return goja.Undefined()
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		if err := tl.Remove(tokenArgs(call.Arguments)...); err != nil {
			b.throwDOMError(err)
		}
		return goja.Undefined()
	})
	obj.Set("toggle", func(call goja.FunctionCall) goja.Value {
		on, err := tl.Toggle(call.Argument(0).String())
		if err != nil {
			b.throwDOMError(err)
		}
		return vm.ToValue(on)
	})
	obj.Set("replace", func(call goja.FunctionCall) goja.Value {
		ok, err := tl.Replace(call.Argument(0).String(), call.Argument(1).String())
		if err != nil {
			b.throwDOMError(err)
		}
		return vm.ToValue(ok)
	})
	obj.Set("toString", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(tl.Value())
	})
	return obj
}

// getGoNode returns the Go node behind a JS node object, or nil.
func (b *DOMBinder) getGoNode(v goja.Value) *dom.Node {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj := v.ToObject(b.runtime.vm)
	if nv := obj.Get("_goNode"); nv != nil && !goja.IsUndefined(nv) {
		if node, ok := nv.Export().(*dom.Node); ok {
			return node
		}
	}
	return nil
}

// requireNode returns the Go node for v or throws a TypeError.
func (b *DOMBinder) requireNode(v goja.Value, method string) *dom.Node {
	node := b.getGoNode(v)
	if node == nil {
		panic(b.runtime.vm.NewTypeError("Failed to execute '" + method + "': parameter is not of type 'Node'."))
	}
	return node
}

// setupDOMException installs a minimal DOMException constructor.
func (b *DOMBinder) setupDOMException() {
	vm := b.runtime.vm
	_, err := vm.RunString(`
		function DOMException(message, name) {
			this.message = message === undefined ? "" : String(message);
			this.name = name === undefined ? "Error" : String(name);
		}
		DOMException.prototype = Object.create(Error.prototype);
		DOMException.prototype.constructor = DOMException;
		DOMException.prototype.toString = function() { return this.name + ": " + this.message; };
	`)
	if err != nil {
		panic(err)
	}
}

// throwDOMError throws err into the running script as a DOMException.
func (b *DOMBinder) throwDOMError(err error) {
	vm := b.runtime.vm
	name, message := "Error", err.Error()
	if de, ok := err.(*dom.DOMError); ok {
		name, message = de.Name, de.Message
	}
	ctor, ok := goja.AssertConstructor(vm.Get("DOMException"))
	if !ok {
		panic(vm.NewGoError(err))
	}
	exc, cerr := ctor(nil, vm.ToValue(message), vm.ToValue(name))
	if cerr != nil {
		panic(vm.NewGoError(err))
	}
	panic(exc)
}
