package dom

import (
	"strings"
)

// Element represents an element in the render tree.
type Element Node

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// TagName returns the uppercase tag name.
func (e *Element) TagName() string {
	return e.nodeName
}

// LocalName returns the lowercase local name.
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// Id returns the element's id attribute.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the element's id attribute.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the element's class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the element's class attribute.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns the element's class list, backed by its class attribute.
func (e *Element) ClassList() *DOMTokenList {
	if e.elementData.classList == nil {
		e.elementData.classList = newDOMTokenList(e, "class")
	}
	return e.elementData.classList
}

// Attributes returns a copy of the element's attributes in order.
func (e *Element) Attributes() []Attribute {
	attrs := make([]Attribute, len(e.elementData.attributes))
	copy(attrs, e.elementData.attributes)
	return attrs
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	v, _ := e.LookupAttribute(name)
	return v
}

// LookupAttribute returns the value of the named attribute and whether it is present.
func (e *Element) LookupAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, attr := range e.elementData.attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// HasAttribute returns true if the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.LookupAttribute(name)
	return ok
}

// SetAttribute sets an attribute value, creating it if it doesn't exist.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError sets an attribute value and reports an
// InvalidCharacterError for names that are not valid attribute names.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !IsValidAttributeName(name) {
		return ErrInvalidCharacter("The attribute name '" + name + "' is not valid.")
	}
	name = strings.ToLower(name)
	attrs := e.elementData.attributes
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return nil
		}
	}
	e.elementData.attributes = append(attrs, Attribute{Name: name, Value: value})
	return nil
}

// IsValidAttributeName reports whether name can be used as an attribute name.
func IsValidAttributeName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\n\r\f/>=\"'\x00")
}

// RemoveAttribute removes the named attribute. It is a no-op if absent.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	attrs := e.elementData.attributes
	for i := range attrs {
		if attrs[i].Name == name {
			e.elementData.attributes = append(attrs[:i], attrs[i+1:]...)
			return
		}
	}
}

// ToggleAttribute removes the attribute if present and adds it with an empty
// value otherwise. It returns whether the attribute is present afterwards.
func (e *Element) ToggleAttribute(name string) bool {
	if e.HasAttribute(name) {
		e.RemoveAttribute(name)
		return false
	}
	e.SetAttribute(name, "")
	return true
}

// TextContent returns the concatenated text of the element's descendants.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(value string) {
	e.AsNode().SetTextContent(value)
}

// Children returns the element children of this element.
func (e *Element) Children() []*Element {
	var result []*Element
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			result = append(result, (*Element)(c))
		}
	}
	return result
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	return len(e.Children())
}

// FirstElementChild returns the first child that is an element.
func (e *Element) FirstElementChild() *Element {
	for c := e.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// LastElementChild returns the last child that is an element.
func (e *Element) LastElementChild() *Element {
	for c := e.lastChild; c != nil; c = c.prevSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling that is an element.
func (e *Element) PreviousElementSibling() *Element {
	for s := e.prevSibling; s != nil; s = s.prevSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling that is an element.
func (e *Element) NextElementSibling() *Element {
	for s := e.nextSibling; s != nil; s = s.nextSibling {
		if s.nodeType == ElementNode {
			return (*Element)(s)
		}
	}
	return nil
}

// GetElementsByTagName returns descendant elements with the given tag name.
func (e *Element) GetElementsByTagName(tagName string) []*Element {
	return elementsByTagName(e.AsNode(), tagName)
}

// GetElementsByClassName returns descendant elements carrying every class in classNames.
func (e *Element) GetElementsByClassName(classNames string) []*Element {
	return elementsByClassName(e.AsNode(), classNames)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	e.AsNode().Remove()
}
