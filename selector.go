package unveil

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selector is a compiled CSS selector.
type Selector struct {
	src string
	sel cascadia.Matcher
}

// CompileSelector parses a CSS selector (group selectors included).
func CompileSelector(src string) (Selector, error) {
	sel, err := cascadia.ParseGroup(src)
	if err != nil {
		return Selector{}, fmt.Errorf("compile selector %q: %w", src, err)
	}
	return Selector{src: src, sel: sel}, nil
}

// MustCompileSelector is CompileSelector that panics on error. Intended for
// selectors that are constants of the calling program.
func MustCompileSelector(src string) Selector {
	s, err := CompileSelector(src)
	if err != nil {
		panic("unveil: " + err.Error())
	}
	return s
}

// String returns the selector source.
func (s Selector) String() string {
	return s.src
}

// IsZero reports whether s was never compiled.
func (s Selector) IsZero() bool {
	return s.sel == nil
}

// QueryAll returns every element in the document matching s.
func (d *Document) QueryAll(s Selector) []*Element {
	return d.wrapAll(queryAll(d.root, s))
}

// Query returns the first element in the document matching s, or nil.
func (d *Document) Query(s Selector) *Element {
	if s.IsZero() {
		return nil
	}
	return d.Wrap(cascadia.Query(d.root, s.sel))
}

// QueryAll returns the descendants of e matching s, in document order.
// The element itself is never included.
func (e *Element) QueryAll(s Selector) []*Element {
	return e.doc.wrapAll(queryAll(e.node, s))
}

// Query returns the first descendant of e matching s, or nil.
func (e *Element) Query(s Selector) *Element {
	if s.IsZero() {
		return nil
	}
	return e.doc.Wrap(cascadia.Query(e.node, s.sel))
}

// Matches reports whether e itself matches s.
func (e *Element) Matches(s Selector) bool {
	if s.IsZero() {
		return false
	}
	return s.sel.Match(e.node)
}

// Closest returns the nearest inclusive ancestor of e that matches s.
func (e *Element) Closest(s Selector) *Element {
	if s.IsZero() {
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && s.sel.Match(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

func queryAll(n *html.Node, s Selector) []*html.Node {
	if s.IsZero() {
		return nil
	}
	return cascadia.QueryAll(n, s.sel)
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}
