package dom

import (
	"strings"
)

// Node represents a node in the render tree. Document, Element and the
// character-data nodes all share this representation.
type Node struct {
	nodeType   NodeType
	nodeName   string
	nodeValue  *string // nil for Element and Document
	ownerDoc   *Document
	parentNode *Node

	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	elementData *elementData

	// listeners holds the node's event listeners, keyed by event type.
	listeners      map[string][]eventListener
	nextListenerID ListenerID
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName  string
	attributes []Attribute
	classList  *DOMTokenList
}

// Attribute is a name/value pair on an element. Attribute order is the
// order they were first set in.
type Attribute struct {
	Name  string
	Value string
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text"; for comments "#comment"; for documents "#document".
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the value of a text or comment node, and "" otherwise.
func (n *Node) NodeValue() string {
	if n.nodeValue != nil {
		return *n.nodeValue
	}
	return ""
}

// SetNodeValue sets the value of a text or comment node. It has no effect on
// other node types.
func (n *Node) SetNodeValue(value string) {
	if n.nodeValue != nil {
		*n.nodeValue = value
	}
}

// OwnerDocument returns the document that owns this node. It is nil for a Document.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent Element, or nil if the parent is not an element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// ChildNodes returns a snapshot of the node's children.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return children
}

// FirstChild returns the first child node, or nil if there are no children.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil if there are no children.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node, or nil if this is the first child.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node, or nil if this is the last child.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for ; other != nil; other = other.parentNode {
		if other == n {
			return true
		}
	}
	return false
}

// IsConnected returns true if the node's root is a document.
func (n *Node) IsConnected() bool {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root.nodeType == DocumentNode
}

// TextContent returns the text content of the node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return ""
	case TextNode, CommentNode:
		return n.NodeValue()
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.NodeValue())
		case ElementNode:
			child.collectTextContent(sb)
		}
	}
}

// SetTextContent sets the text content of the node.
// For elements this replaces all children with a single text node, or with
// nothing when value is empty.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return
	case TextNode, CommentNode:
		n.SetNodeValue(value)
	default:
		for n.firstChild != nil {
			n.removeChild(n.firstChild)
		}
		if value != "" {
			n.insertBefore(n.ownerDoc.CreateTextNode(value), nil)
		}
	}
}

// AppendChild adds a node to the end of the list of children of this node.
// If child already has a parent it is moved.
func (n *Node) AppendChild(child *Node) (*Node, error) {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts newChild before refChild. If refChild is nil, the node
// is appended to the end.
func (n *Node) InsertBefore(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	if refChild == newChild {
		refChild = newChild.nextSibling
	}
	return n.insertBefore(newChild, refChild), nil
}

// validatePreInsertion implements the pre-insertion validation steps.
// https://dom.spec.whatwg.org/#concept-node-pre-insert
func (n *Node) validatePreInsertion(node, child *Node) error {
	if node == nil {
		return ErrHierarchyRequest("The node to be inserted is null.")
	}
	if n.nodeType != DocumentNode && n.nodeType != ElementNode {
		return ErrHierarchyRequest("The parent is not a Document or Element.")
	}
	if node.Contains(n) {
		return ErrHierarchyRequest("The new child element contains the parent.")
	}
	if child != nil && child.parentNode != n {
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	switch node.nodeType {
	case DocumentNode:
		return ErrHierarchyRequest("Nodes of type DOCUMENT_NODE may not be inserted.")
	case TextNode:
		if n.nodeType == DocumentNode {
			return ErrHierarchyRequest("Text nodes may not be children of a Document.")
		}
	case ElementNode:
		if n.nodeType == DocumentNode {
			for c := n.firstChild; c != nil; c = c.nextSibling {
				if c.nodeType == ElementNode && c != node {
					return ErrHierarchyRequest("Only one element on document allowed.")
				}
			}
		}
	case DocumentTypeNode:
		if n.nodeType != DocumentNode {
			return ErrHierarchyRequest("A doctype may only be a child of a Document.")
		}
	}
	return nil
}

// insertBefore links node into n's child list without validation.
func (n *Node) insertBefore(node, ref *Node) *Node {
	if node.parentNode != nil {
		node.parentNode.removeChild(node)
	}
	node.parentNode = n
	node.nextSibling = ref
	if ref != nil {
		node.prevSibling = ref.prevSibling
		if ref.prevSibling != nil {
			ref.prevSibling.nextSibling = node
		} else {
			n.firstChild = node
		}
		ref.prevSibling = node
	} else {
		node.prevSibling = n.lastChild
		if n.lastChild != nil {
			n.lastChild.nextSibling = node
		} else {
			n.firstChild = node
		}
		n.lastChild = node
	}
	return node
}

// RemoveChild removes child from this node's children.
func (n *Node) RemoveChild(child *Node) (*Node, error) {
	if child == nil || child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	n.removeChild(child)
	return child, nil
}

func (n *Node) removeChild(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// ReplaceChild replaces oldChild with newChild and returns oldChild.
func (n *Node) ReplaceChild(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil || oldChild.parentNode != n {
		return nil, ErrNotFound("The node to be replaced is not a child of this node.")
	}
	if newChild == oldChild {
		return oldChild, nil
	}
	ref := oldChild.nextSibling
	if ref == newChild {
		ref = newChild.nextSibling
	}
	if err := n.validatePreInsertion(newChild, nil); err != nil {
		return nil, err
	}
	n.removeChild(oldChild)
	n.insertBefore(newChild, ref)
	return oldChild, nil
}

// Remove detaches the node from its parent. It is a no-op for a detached node.
func (n *Node) Remove() {
	if n.parentNode != nil {
		n.parentNode.removeChild(n)
	}
}

// walk calls fn for every descendant of n in tree order, stopping early when
// fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}
