// Package html loads HTML into the render tree using golang.org/x/net/html
// as the underlying parser implementation.
package html

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/chrisuehlinger/clickcounter/dom"
)

// Parse parses an HTML document from a string.
func Parse(htmlContent string) (*dom.Document, error) {
	return ParseReader(strings.NewReader(htmlContent))
}

// ParseReader parses an HTML document from an io.Reader.
func ParseReader(r io.Reader) (*dom.Document, error) {
	netDoc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	doc := dom.NewDocument()
	if err := convertTree(netDoc, doc.AsNode(), doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// convertTree copies the children of src under parent.
func convertTree(src *html.Node, parent *dom.Node, doc *dom.Document) error {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		var node *dom.Node

		switch c.Type {
		case html.TextNode:
			node = doc.CreateTextNode(c.Data)

		case html.ElementNode:
			el := doc.CreateElement(c.Data)
			for _, attr := range c.Attr {
				// Foreign-content attributes keep their prefix.
				name := attr.Key
				if attr.Namespace != "" {
					name = attr.Namespace + ":" + attr.Key
				}
				el.SetAttribute(name, attr.Val)
			}
			node = el.AsNode()

		case html.CommentNode:
			node = doc.CreateComment(c.Data)

		case html.DoctypeNode:
			node = doc.CreateDocumentType(c.Data)

		case html.DocumentNode:
			if err := convertTree(c, parent, doc); err != nil {
				return err
			}
			continue

		default:
			continue
		}

		if _, err := parent.AppendChild(node); err != nil {
			return errors.Wrapf(err, "append <%s>", c.Data)
		}
		if c.Type == html.ElementNode {
			if err := convertTree(c, node, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// Scripts returns the bodies of the document's inline classic scripts in
// document order. Scripts with a src attribute or a non-JavaScript type are
// skipped.
func Scripts(doc *dom.Document) []string {
	var scripts []string
	for _, el := range doc.GetElementsByTagName("script") {
		if el.HasAttribute("src") {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(el.GetAttribute("type"))) {
		case "", "text/javascript", "application/javascript":
		default:
			continue
		}
		scripts = append(scripts, el.TextContent())
	}
	return scripts
}
