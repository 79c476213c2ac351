package unveil

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// --- Callback contexts ---

// PointerContext carries pointer event data.
type PointerContext struct {
	// Element is the element the handler is attached to; Target is the
	// deepest element under the pointer.
	Element *Element
	Target  *Element
	// ViewportX/Y are relative to the viewport, PageX/Y to the document.
	ViewportX float64
	ViewportY float64
	PageX     float64
	PageY     float64
	Button    MouseButton
}

// ClickContext carries click event data. Handlers may call StopPropagation
// to keep the click from reaching ancestors and page-level handlers.
type ClickContext struct {
	Element   *Element
	Target    *Element
	ViewportX float64
	ViewportY float64
	PageX     float64
	PageY     float64
	Button    MouseButton

	stopped *bool
}

// StopPropagation prevents the click from bubbling further.
func (c ClickContext) StopPropagation() {
	if c.stopped != nil {
		*c.stopped = true
	}
}

// --- Element ---

// Element wraps an element node of the parsed HTML tree together with the
// engine state the page needs: layout bounds and interaction callbacks.
// Elements are created by their Document; there is exactly one Element per
// element node.
type Element struct {
	// ID is a per-document serial number, 0 once disposed.
	ID uint32

	// Bounds is the layout box in document coordinates. It is assigned by
	// Layout or directly by the host.
	Bounds Rect

	// UserData is free for host use.
	UserData any

	// Per-element callbacks (nil by default).
	OnClick        func(ClickContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)
	OnPointerMove  func(PointerContext)

	node     *html.Node
	doc      *Document
	disposed bool
}

// Node returns the underlying HTML node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Document returns the document that owns this element.
func (e *Element) Document() *Document {
	return e.doc
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Name returns a short label for logs: "tag#id" when the element has an id,
// otherwise just the tag.
func (e *Element) Name() string {
	if id, ok := e.Attr("id"); ok && id != "" {
		return e.node.Data + "#" + id
	}
	return e.node.Data
}

// --- Attributes ---

// Attr returns the value of the named attribute.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, adding it when missing.
func (e *Element) SetAttr(key, val string) {
	for i := range e.node.Attr {
		if e.node.Attr[i].Namespace == "" && e.node.Attr[i].Key == key {
			e.node.Attr[i].Val = val
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute. No-op when it is missing.
func (e *Element) RemoveAttr(key string) {
	for i := range e.node.Attr {
		if e.node.Attr[i].Namespace == "" && e.node.Attr[i].Key == key {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// --- Classes ---

// Classes returns the element's class list in attribute order.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list. Adding a present class is a no-op.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), name), " "))
}

// RemoveClass drops every occurrence of name from the class list.
func (e *Element) RemoveClass(name string) {
	classes := e.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// ToggleClass flips name and reports whether it is present afterwards.
func (e *Element) ToggleClass(name string) bool {
	if e.HasClass(name) {
		e.RemoveClass(name)
		return false
	}
	e.AddClass(name)
	return true
}

// --- Inline style ---

type styleDecl struct {
	prop, value string
}

func parseStyle(s string) []styleDecl {
	var decls []styleDecl
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		decls = append(decls, styleDecl{prop: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

func formatStyle(decls []styleDecl) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(d.prop)
		b.WriteString(": ")
		b.WriteString(d.value)
	}
	return b.String()
}

// Style returns the inline style value of prop, or "" when unset.
func (e *Element) Style(prop string) string {
	v, _ := e.Attr("style")
	for _, d := range parseStyle(v) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	v, _ := e.Attr("style")
	decls := parseStyle(v)
	found := false
	for i := 0; i < len(decls); i++ {
		if decls[i].prop != prop {
			continue
		}
		found = true
		if value == "" {
			decls = append(decls[:i], decls[i+1:]...)
			i--
			continue
		}
		decls[i].value = value
	}
	if !found && value != "" {
		decls = append(decls, styleDecl{prop: prop, value: value})
	}
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(decls))
}

// --- Content ---

// TextContent returns the concatenated text of all descendant text nodes.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.removeChildNodes()
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() (string, error) {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render inner html of %s: %w", e.Name(), err)
		}
	}
	return buf.String(), nil
}

// SetInnerHTML parses markup in the context of this element and replaces
// all children with the result. Elements wrapping the old children are
// disposed.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return fmt.Errorf("parse inner html of %s: %w", e.Name(), err)
	}
	e.removeChildNodes()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// removeChildNodes detaches every child node and disposes wrapping elements.
func (e *Element) removeChildNodes() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		e.doc.forget(c)
		c = next
	}
}

// --- Tree navigation ---

// Parent returns the nearest ancestor element, or nil at the root or once
// detached.
func (e *Element) Parent() *Element {
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return e.doc.wrap(p)
		}
	}
	return nil
}

// Children returns the element children in document order. Text and comment
// nodes are skipped.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// NumChildren returns the number of element children.
func (e *Element) NumChildren() int {
	n := 0
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			n++
		}
	}
	return n
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	return isAncestor(e.node, other.node)
}

// --- Tree manipulation ---

// AddChild appends child to this element's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this element (cycle).
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("unveil: cannot add nil child")
	}
	if e.doc.debug {
		debugCheckDisposed(e, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child.node, e.node) {
		panic("unveil: adding child would create a cycle")
	}
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	if e.doc.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(e)
	}
}

// RemoveChild detaches child from this element.
// Panics if child is not a direct child of e.
func (e *Element) RemoveChild(child *Element) {
	if e.doc.debug {
		debugCheckDisposed(e, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.node.Parent != e.node {
		panic("unveil: child's parent is not this element")
	}
	e.node.RemoveChild(child.node)
}

// RemoveFromParent detaches this element from its parent node.
// No-op if it has no parent.
func (e *Element) RemoveFromParent() {
	if e.node.Parent == nil {
		return
	}
	e.node.Parent.RemoveChild(e.node)
}

// Dispose detaches the element and forgets it and all descendants. Pending
// timers that still reference a disposed element keep running; their
// mutations land on the detached node and are never rendered.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.doc.forget(e.node)
}

// IsDisposed returns true if this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *html.Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}
