package unveil

import (
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

const inputHTML = `<html><body>
<div id="outer" data-height="200"><span id="btn" data-width="100" data-height="40">Go</span></div>
<div id="other" data-height="200"></div>
<div id="tail" data-height="1000"></div>
</body></html>`

func newTestPage(t *testing.T, markup string, cfg *Config) *Page {
	t.Helper()
	p, err := NewPage(mustDoc(t, markup), cfg, 800, 600)
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return p
}

func TestHitTestDeepest(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	if got := p.hitTest(50, 20); got != byID(t, p.doc, "btn") {
		t.Errorf("hitTest(50,20) = %v, want #btn", got)
	}
	if got := p.hitTest(500, 20); got != byID(t, p.doc, "outer") {
		t.Errorf("hitTest(500,20) = %v, want #outer", got)
	}
	if got := p.hitTest(500, 250); got != byID(t, p.doc, "other") {
		t.Errorf("hitTest(500,250) = %v, want #other", got)
	}
	if got := p.hitTest(5000, 5000); got != nil {
		t.Errorf("hitTest outside = %v, want nil", got)
	}
}

func TestHitTestSkipsHidden(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	btn := byID(t, p.doc, "btn")
	btn.SetStyle("display", "none")
	if got := p.hitTest(50, 20); got == btn {
		t.Error("hitTest returned a display:none element")
	}
}

func TestClickBubbles(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	btn, outer := byID(t, p.doc, "btn"), byID(t, p.doc, "outer")

	var order []string
	btn.OnClick = func(ctx ClickContext) {
		order = append(order, "btn")
		if ctx.Target != btn || ctx.Element != btn {
			t.Errorf("btn ctx target/element = %v/%v", ctx.Target, ctx.Element)
		}
	}
	outer.OnClick = func(ctx ClickContext) {
		order = append(order, "outer")
		if ctx.Target != btn || ctx.Element != outer {
			t.Errorf("outer ctx target/element = %v/%v", ctx.Target, ctx.Element)
		}
	}
	p.OnClick(func(ClickContext) { order = append(order, "page") })

	p.InjectClick(50, 20)
	p.Update(frame)
	if len(order) != 0 {
		t.Fatalf("click fired on press: %v", order)
	}
	p.Update(frame)
	want := []string{"btn", "outer", "page"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestClickStopPropagation(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	btn, outer := byID(t, p.doc, "btn"), byID(t, p.doc, "outer")
	outerHit, pageHit := false, false
	btn.OnClick = func(ctx ClickContext) { ctx.StopPropagation() }
	outer.OnClick = func(ClickContext) { outerHit = true }
	p.OnClick(func(ClickContext) { pageHit = true })

	p.InjectClick(50, 20)
	p.Update(frame)
	p.Update(frame)
	if outerHit || pageHit {
		t.Errorf("outer %v page %v, want propagation stopped", outerHit, pageHit)
	}
}

func TestClickRequiresSameElement(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	clicked := false
	p.OnClick(func(ClickContext) { clicked = true })
	p.InjectPress(50, 20)
	p.InjectRelease(50, 250)
	p.Update(frame)
	p.Update(frame)
	if clicked {
		t.Error("click fired with press and release on different elements")
	}
}

func TestClickUsesScrollOffset(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	p.Viewport().SetScroll(200)
	var got ClickContext
	p.OnClick(func(ctx ClickContext) { got = ctx })
	p.InjectClick(10, 50)
	p.Update(frame)
	p.Update(frame)
	if got.Target != byID(t, p.doc, "other") {
		t.Errorf("Target = %v, want #other", got.Target)
	}
	if got.PageY != 250 || got.ViewportY != 50 {
		t.Errorf("PageY/ViewportY = %v/%v, want 250/50", got.PageY, got.ViewportY)
	}
}

func TestHoverEnterLeave(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	btn, outer := byID(t, p.doc, "btn"), byID(t, p.doc, "outer")
	var events []string
	outer.OnPointerEnter = func(PointerContext) { events = append(events, "enter outer") }
	outer.OnPointerLeave = func(PointerContext) { events = append(events, "leave outer") }
	btn.OnPointerEnter = func(PointerContext) { events = append(events, "enter btn") }
	btn.OnPointerLeave = func(PointerContext) { events = append(events, "leave btn") }

	p.InjectMove(50, 20)   // into btn (and outer)
	p.InjectMove(500, 20)  // out of btn, still in outer
	p.InjectMove(500, 250) // out of outer
	for i := 0; i < 3; i++ {
		p.Update(frame)
	}
	want := []string{"enter outer", "enter btn", "leave btn", "leave outer"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestPointerMoveOnlyWhenMoved(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	moves := 0
	p.OnPointerMove(func(PointerContext) { moves++ })
	p.SetPointer(10, 10, false, MouseButtonLeft)
	p.Update(frame)
	p.Update(frame)
	if moves != 1 {
		t.Errorf("moves = %d with a still pointer, want 1", moves)
	}
	p.SetPointer(11, 10, false, MouseButtonLeft)
	p.Update(frame)
	if moves != 2 {
		t.Errorf("moves = %d after moving, want 2", moves)
	}
}

func TestPointerDownUpHandlers(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	var downs, ups int
	p.OnPointerDown(func(PointerContext) { downs++ })
	h := p.OnPointerUp(func(ctx PointerContext) {
		ups++
		if ctx.Button != MouseButtonRight {
			t.Errorf("up Button = %v, want the pressed button", ctx.Button)
		}
	})
	p.SetPointer(10, 10, true, MouseButtonRight)
	p.Update(frame)
	p.Update(frame)
	p.SetPointer(10, 10, false, MouseButtonLeft)
	p.Update(frame)
	if downs != 1 || ups != 1 {
		t.Errorf("downs %d ups %d, want 1 and 1", downs, ups)
	}

	h.Remove()
	p.SetPointer(10, 10, true, MouseButtonRight)
	p.Update(frame)
	p.SetPointer(10, 10, false, MouseButtonRight)
	p.Update(frame)
	if ups != 1 {
		t.Errorf("ups = %d after Remove, want 1", ups)
	}
}

func TestCallbackHandleRemoveClick(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	var a, b int
	ha := p.OnClick(func(ClickContext) { a++ })
	p.OnClick(func(ClickContext) { b++ })
	ha.Remove()
	ha.Remove()
	p.InjectClick(10, 10)
	p.Update(frame)
	p.Update(frame)
	if a != 0 || b != 1 {
		t.Errorf("a %d b %d, want 0 and 1", a, b)
	}
	var zero CallbackHandle
	zero.Remove()
}
