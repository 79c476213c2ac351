package unveil

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document owns a parsed HTML tree and the Element wrappers around its
// element nodes.
type Document struct {
	root     *html.Node
	elements map[*html.Node]*Element
	nextID   uint32
	debug    bool
}

// ParseDocument parses a complete HTML document.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root, elements: make(map[*html.Node]*Element)}, nil
}

// ParseDocumentString is ParseDocument for in-memory markup.
func ParseDocumentString(markup string) (*Document, error) {
	return ParseDocument(strings.NewReader(markup))
}

// Root returns the <html> element.
func (d *Document) Root() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.wrap(c)
		}
	}
	return nil
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Element {
	root := d.Root()
	if root == nil {
		return nil
	}
	for _, c := range root.Children() {
		if c.Tag() == "body" {
			return c
		}
	}
	return nil
}

// GetElementByID returns the first element in document order whose id
// attribute equals id.
func (d *Document) GetElementByID(id string) *Element {
	var found *html.Node
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Namespace == "" && a.Key == "id" && a.Val == id {
					found = n
					return true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(d.root) {
		return d.wrap(found)
	}
	return nil
}

// Elements returns every element of the document in document order.
func (d *Document) Elements() []*Element {
	var out []*Element
	d.Walk(func(e *Element) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Walk visits elements depth-first in document order. Returning false from
// fn skips the element's subtree.
func (d *Document) Walk(fn func(e *Element) bool) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if !fn(d.wrap(n)) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

// Height returns the bottom edge of the lowest element box.
func (d *Document) Height() float64 {
	h := 0.0
	d.Walk(func(e *Element) bool {
		if b := e.Bounds.Bottom(); b > h {
			h = b
		}
		return true
	})
	return h
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// HTML returns the serialized document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Wrap returns the Element for an element node of this document.
// It returns nil for non-element nodes.
func (d *Document) Wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return d.wrap(n)
}

// CreateElement returns a new detached element with the given tag.
func (d *Document) CreateElement(tag string) *Element {
	return d.wrap(&html.Node{Type: html.ElementNode, Data: tag})
}

func (d *Document) wrap(n *html.Node) *Element {
	if e, ok := d.elements[n]; ok {
		return e
	}
	d.nextID++
	e := &Element{ID: d.nextID, node: n, doc: d}
	d.elements[n] = e
	return e
}

// forget disposes the wrappers of n and all of its descendants.
func (d *Document) forget(n *html.Node) {
	if e, ok := d.elements[n]; ok {
		e.disposed = true
		e.ID = 0
		e.OnClick = nil
		e.OnPointerEnter = nil
		e.OnPointerLeave = nil
		e.OnPointerMove = nil
		e.UserData = nil
		delete(d.elements, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}
