package counter

import (
	"github.com/chrisuehlinger/clickcounter/dom"
)

// Handle is an opaque reference to a node in the host's render tree.
type Handle any

// Host is the element and event API a ClickCounter consumes.
type Host interface {
	// Resolve looks up a render-tree node by identifier.
	Resolve(id string) (Handle, bool)
	// Subscribe registers fn to be called for every event of kind on h.
	Subscribe(h Handle, kind string, fn func())
	// SetText replaces the displayed text of h.
	SetText(h Handle, value string)
}

// DocumentHost implements Host over a dom.Document. Handles are *dom.Element.
type DocumentHost struct {
	doc *dom.Document
}

// NewDocumentHost returns a Host resolving identifiers against element ids in doc.
func NewDocumentHost(doc *dom.Document) *DocumentHost {
	return &DocumentHost{doc: doc}
}

// Resolve returns the element with the given id.
func (h *DocumentHost) Resolve(id string) (Handle, bool) {
	el := h.doc.GetElementById(id)
	if el == nil {
		return nil, false
	}
	return el, true
}

// Subscribe adds an event listener for kind on the element.
func (h *DocumentHost) Subscribe(handle Handle, kind string, fn func()) {
	handle.(*dom.Element).AddEventListener(kind, func(*dom.Event) { fn() })
}

// SetText sets the element's text content.
func (h *DocumentHost) SetText(handle Handle, value string) {
	handle.(*dom.Element).SetTextContent(value)
}
