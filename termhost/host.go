// Package termhost previews a Page in a terminal using tcell. The document
// is mapped onto character cells; text of elements still waiting for their
// reveal is drawn as dim placeholders.
package termhost

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/phanxgames/unveil"
)

// Options configures the terminal preview.
type Options struct {
	// FPS is the update rate of Run.
	FPS int
	// CellWidth and CellHeight are the document pixels per cell.
	CellWidth  float64
	CellHeight float64
}

func (o *Options) defaults() {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.CellWidth <= 0 {
		o.CellWidth = unveil.DefaultLineHeight / 2
	}
	if o.CellHeight <= 0 {
		o.CellHeight = unveil.DefaultLineHeight
	}
}

var (
	styleText        = tcell.StyleDefault
	styleRevealed    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 200, 160))
	stylePlaceholder = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
	styleStatus      = tcell.StyleDefault.Reverse(true)
)

// Host drives a Page from a tcell screen.
type Host struct {
	screen tcell.Screen
	page   *unveil.Page
	opts   Options
	quit   bool
}

// New returns a host for an initialized screen. It resizes the page to the
// screen.
func New(screen tcell.Screen, page *unveil.Page, opts Options) *Host {
	opts.defaults()
	h := &Host{screen: screen, page: page, opts: opts}
	h.resize()
	return h
}

// Quit reports whether the user asked to leave.
func (h *Host) Quit() bool {
	return h.quit
}

func (h *Host) resize() {
	cols, rows := h.screen.Size()
	rows-- // status line
	h.page.Resize(float64(cols)*h.opts.CellWidth, float64(max(rows, 0))*h.opts.CellHeight)
}

// HandleEvent applies one terminal event to the page.
func (h *Host) HandleEvent(ev tcell.Event) {
	vp := h.page.Viewport()
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			h.quit = true
		case tcell.KeyDown:
			vp.ScrollBy(h.opts.CellHeight)
		case tcell.KeyUp:
			vp.ScrollBy(-h.opts.CellHeight)
		case tcell.KeyPgDn:
			vp.ScrollBy(vp.Height)
		case tcell.KeyPgUp:
			vp.ScrollBy(-vp.Height)
		case tcell.KeyHome:
			h.page.ScrollTo(0, 300*time.Millisecond)
		case tcell.KeyEnd:
			h.page.ScrollTo(vp.MaxScrollY(), 300*time.Millisecond)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				h.quit = true
			case 'j':
				vp.ScrollBy(h.opts.CellHeight)
			case 'k':
				vp.ScrollBy(-h.opts.CellHeight)
			case 's':
				h.page.Snapshot("terminal")
			}
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := float64(col)*h.opts.CellWidth, float64(row)*h.opts.CellHeight
		btn := ev.Buttons()
		switch {
		case btn&tcell.WheelDown != 0:
			vp.ScrollBy(h.opts.CellHeight * 3)
		case btn&tcell.WheelUp != 0:
			vp.ScrollBy(-h.opts.CellHeight * 3)
		}
		h.page.SetPointer(x, y, btn&tcell.Button1 != 0, unveil.MouseButtonLeft)
	}
}

// Step advances the page by dt and redraws the screen.
func (h *Host) Step(dt time.Duration) {
	h.page.Update(dt)
	h.Render()
	h.screen.Show()
}

// Render draws the visible part of the document and a status line.
func (h *Host) Render() {
	h.screen.Clear()
	cols, rows := h.screen.Size()
	vp := h.page.Viewport()
	visible := vp.VisibleBounds()

	h.page.Document().Walk(func(e *unveil.Element) bool {
		if e.Style("display") == "none" {
			return false
		}
		if e.NumChildren() > 0 || e.Bounds.Area() == 0 || !e.Bounds.Intersects(visible) {
			return true
		}
		x, y := vp.PageToViewport(e.Bounds.X, e.Bounds.Y)
		col, row := int(x/h.opts.CellWidth), int(y/h.opts.CellHeight)
		if row < 0 || row >= rows-1 {
			return true
		}
		width := int(e.Bounds.Width / h.opts.CellWidth)
		text, style := e.TextContent(), styleText
		switch {
		case h.page.AwaitingReveal(e) || h.hiddenByAncestor(e):
			text, style = placeholder(text), stylePlaceholder
		case e.HasClass(h.page.Config().RevealedClass):
			style = styleRevealed
		}
		h.putString(col, row, min(width, cols-col), text, style)
		return true
	})

	status := fmt.Sprintf(" unveil  %3.0f%%  pending %d  q quit  j/k scroll  s snapshot ",
		vp.ScrollProgress()*100, h.page.Reveals().Pending())
	h.putString(0, rows-1, cols, status, styleStatus)
}

// hiddenByAncestor reports whether an ancestor of e still waits for its
// reveal.
func (h *Host) hiddenByAncestor(e *unveil.Element) bool {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if h.page.AwaitingReveal(p) {
			return true
		}
	}
	return false
}

// putString writes s from (col, row), clipped to width cells.
func (h *Host) putString(col, row, width int, s string, style tcell.Style) {
	used := 0
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > width || col+used < 0 {
			break
		}
		h.screen.SetContent(col+used, row, r, nil, style)
		used += w
	}
}

func placeholder(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r != ' ' {
			out[i] = '·'
		}
	}
	return string(out)
}

// Run polls terminal events and steps the page at the configured rate until
// the user quits or ctx is done. The screen must be initialized; Run does
// not finalize it.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	dt := time.Second / time.Duration(h.opts.FPS)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	h.Step(0)
	for !h.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			h.HandleEvent(ev)
		case <-ticker.C:
			h.Step(dt)
		}
	}
	return nil
}
