package dom

import (
	"strings"
)

// Document represents an entire page's render tree.
type Document Node

// NewDocument creates a new empty Document.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// DocumentElement returns the root element, usually <html>.
func (d *Document) DocumentElement() *Element {
	for c := d.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// Head returns the <head> child of the root element, if any.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the <body> child of the root element, if any.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

func (d *Document) rootChild(localName string) *Element {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for c := root.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode && c.elementData.localName == localName {
			return (*Element)(c)
		}
	}
	return nil
}

// Title returns the text of the first <title> element, whitespace collapsed.
func (d *Document) Title() string {
	titles := d.GetElementsByTagName("title")
	if len(titles) == 0 {
		return ""
	}
	return strings.Join(strings.Fields(titles[0].TextContent()), " ")
}

// CreateElement creates a new element with the given tag name. HTML tag
// names are lowercased.
func (d *Document) CreateElement(tagName string) *Element {
	localName := strings.ToLower(tagName)
	node := newNode(ElementNode, strings.ToUpper(localName), d)
	node.elementData = &elementData{localName: localName}
	return (*Element)(node)
}

// CreateTextNode creates a new Text node with the given data.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.nodeValue = &data
	return node
}

// CreateComment creates a new Comment node with the given data.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.nodeValue = &data
	return node
}

// CreateDocumentType creates a doctype node with the given name.
func (d *Document) CreateDocumentType(name string) *Node {
	return newNode(DocumentTypeNode, name, d)
}

// GetElementById returns the first element in tree order with the given id.
// An empty id never matches, since elements with an empty id attribute do
// not have an ID.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.AsNode().walk(func(n *Node) bool {
		if n.nodeType == ElementNode && (*Element)(n).Id() == id {
			found = (*Element)(n)
			return false
		}
		return true
	})
	return found
}

// GetElementsByTagName returns the elements with the given tag name in tree
// order. "*" matches every element.
func (d *Document) GetElementsByTagName(tagName string) []*Element {
	return elementsByTagName(d.AsNode(), tagName)
}

// GetElementsByClassName returns the elements carrying every class in
// classNames, in tree order.
func (d *Document) GetElementsByClassName(classNames string) []*Element {
	return elementsByClassName(d.AsNode(), classNames)
}

func elementsByTagName(root *Node, tagName string) []*Element {
	localName := strings.ToLower(tagName)
	var result []*Element
	root.walk(func(n *Node) bool {
		if n.nodeType == ElementNode && (localName == "*" || n.elementData.localName == localName) {
			result = append(result, (*Element)(n))
		}
		return true
	})
	return result
}

func elementsByClassName(root *Node, classNames string) []*Element {
	want := strings.Fields(classNames)
	if len(want) == 0 {
		return nil
	}
	var result []*Element
	root.walk(func(n *Node) bool {
		if n.nodeType != ElementNode {
			return true
		}
		cl := (*Element)(n).ClassList()
		for _, c := range want {
			if !cl.Contains(c) {
				return true
			}
		}
		result = append(result, (*Element)(n))
		return true
	})
	return result
}
