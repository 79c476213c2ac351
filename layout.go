package unveil

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultLineHeight is the line box height used by hosts that do not pick
// their own.
const DefaultLineHeight = 24

// blockAtoms are the tags laid out as blocks unless their inline style says
// otherwise.
var blockAtoms = map[atom.Atom]bool{
	atom.Html: true, atom.Body: true, atom.Div: true, atom.Section: true,
	atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Main: true,
	atom.Article: true, atom.Aside: true, atom.P: true, atom.Ul: true,
	atom.Ol: true, atom.Li: true, atom.Form: true, atom.Dl: true,
	atom.Dt: true, atom.Dd: true, atom.Table: true, atom.Tr: true,
	atom.Figure: true, atom.Blockquote: true, atom.Pre: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Details: true, atom.Summary: true,
}

// hiddenAtoms never get a layout box.
var hiddenAtoms = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Title: true,
	atom.Meta: true, atom.Link: true, atom.Template: true, atom.Noscript: true,
}

type display uint8

const (
	displayBlock display = iota
	displayInline
	displayNone
)

func displayOf(e *Element) display {
	switch e.Style("display") {
	case "none":
		return displayNone
	case "block", "flex", "grid", "list-item":
		return displayBlock
	case "inline", "inline-block", "inline-flex":
		return displayInline
	}
	a := e.node.DataAtom
	switch {
	case hiddenAtoms[a]:
		return displayNone
	case blockAtoms[a]:
		return displayBlock
	default:
		return displayInline
	}
}

// flow is a minimal block/inline flow layout. It knows nothing of CSS
// beyond the display property: every glyph is half a line high and wide,
// blocks fill their parent's width and stack, inline boxes share line boxes
// and wrap at the parent's right edge.
type flow struct {
	lineHeight float64
	charWidth  float64
}

// Layout assigns document-space Bounds to every element of doc for a
// viewport of the given width and returns the document height. A
// data-height attribute overrides an element's computed height and
// data-width an inline element's computed width.
func Layout(doc *Document, width, lineHeight float64) float64 {
	if lineHeight <= 0 {
		lineHeight = DefaultLineHeight
	}
	root := doc.Root()
	if root == nil {
		return 0
	}
	f := &flow{lineHeight: lineHeight, charWidth: lineHeight / 2}
	return f.block(root, 0, 0, width)
}

// lineBox tracks the current line inside a block.
type lineBox struct {
	open bool
	x, y float64
}

// block lays out e as a block box at (x, y) and returns its height.
func (f *flow) block(e *Element, x, y, w float64) float64 {
	e.Bounds = Rect{X: x, Y: y, Width: w}
	cursor := y
	var line lineBox

	place := func(width float64) (float64, float64) {
		if !line.open || (line.x+width > x+w && line.x > x) {
			line = lineBox{open: true, x: x, y: cursor}
			cursor += f.lineHeight
		}
		px, py := line.x, line.y
		line.x += width
		return px, py
	}

	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if tw := f.textWidth(c.Data); tw > 0 {
				place(min(tw, w))
			}
		case html.ElementNode:
			ce := e.doc.wrap(c)
			switch displayOf(ce) {
			case displayNone:
				clearBounds(ce)
			case displayBlock:
				line.open = false
				cursor += f.block(ce, x, cursor, w)
			default:
				iw := min(f.inlineWidth(ce), w)
				px, py := place(iw)
				f.inline(ce, px, py, iw)
			}
		}
	}

	h := cursor - y
	if v, ok := attrFloat(e, "data-height"); ok {
		h = v
	}
	e.Bounds.Height = h
	return h
}

// inline lays out e as a single inline box and positions its inline
// descendants left to right inside it.
func (f *flow) inline(e *Element, x, y, w float64) {
	h := f.lineHeight
	if v, ok := attrFloat(e, "data-height"); ok {
		h = v
	}
	e.Bounds = Rect{X: x, Y: y, Width: w, Height: h}
	cx := x
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			cx += f.textWidth(c.Data)
		case html.ElementNode:
			ce := e.doc.wrap(c)
			if displayOf(ce) == displayNone {
				clearBounds(ce)
				continue
			}
			cw := max(0, min(f.inlineWidth(ce), x+w-cx))
			f.inline(ce, cx, y, cw)
			cx += cw
		}
	}
}

func (f *flow) inlineWidth(e *Element) float64 {
	if v, ok := attrFloat(e, "data-width"); ok {
		return v
	}
	return f.textWidth(e.TextContent())
}

// textWidth measures s with whitespace runs collapsed to one space.
func (f *flow) textWidth(s string) float64 {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0
	}
	n := len(words) - 1
	for _, w := range words {
		n += utf8.RuneCountInString(w)
	}
	return float64(n) * f.charWidth
}

func clearBounds(e *Element) {
	e.Bounds = Rect{}
	for _, c := range e.Children() {
		clearBounds(c)
	}
}

func attrFloat(e *Element, key string) (float64, bool) {
	s, ok := e.Attr(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
