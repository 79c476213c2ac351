package unveil

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	lastX    float64 // viewport coordinates
	lastY    float64
	hasPos   bool
	pressHit *Element
	hover    []*Element // hovered element and its ancestors, deepest first
	button   MouseButton
}

// ScrollContext carries scroll event data.
type ScrollContext struct {
	ScrollX, ScrollY float64
	// Progress is ScrollY relative to the scrollable range, in [0, 1].
	Progress float64
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type scrollHandler struct {
	id uint32
	fn func(ScrollContext)
}

type handlerRegistry struct {
	pointerDown []pointerHandler
	pointerUp   []pointerHandler
	pointerMove []pointerHandler
	click       []clickHandler
	scroll      []scrollHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered page-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removeHandler(h.reg.pointerDown, h.id, func(p pointerHandler) uint32 { return p.id })
	case EventPointerUp:
		h.reg.pointerUp = removeHandler(h.reg.pointerUp, h.id, func(p pointerHandler) uint32 { return p.id })
	case EventPointerMove:
		h.reg.pointerMove = removeHandler(h.reg.pointerMove, h.id, func(p pointerHandler) uint32 { return p.id })
	case EventClick:
		h.reg.click = removeHandler(h.reg.click, h.id, func(c clickHandler) uint32 { return c.id })
	case EventScroll:
		h.reg.scroll = removeHandler(h.reg.scroll, h.id, func(s scrollHandler) uint32 { return s.id })
	}
}

// removeHandler deletes the entry with the given id, clearing the vacated
// slot so the backing array does not retain the closure.
func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Page-level event registration ---

// OnPointerDown registers a page-level callback for pointer down events.
func (p *Page) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	p.handlers.nextID++
	id := p.handlers.nextID
	p.handlers.pointerDown = append(p.handlers.pointerDown, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventPointerDown}
}

// OnPointerUp registers a page-level callback for pointer up events.
func (p *Page) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	p.handlers.nextID++
	id := p.handlers.nextID
	p.handlers.pointerUp = append(p.handlers.pointerUp, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventPointerUp}
}

// OnPointerMove registers a page-level callback for pointer move events.
func (p *Page) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	p.handlers.nextID++
	id := p.handlers.nextID
	p.handlers.pointerMove = append(p.handlers.pointerMove, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventPointerMove}
}

// OnClick registers a page-level callback for clicks. It runs after the
// element handlers along the bubbling path unless one of them stopped
// propagation.
func (p *Page) OnClick(fn func(ClickContext)) CallbackHandle {
	p.handlers.nextID++
	id := p.handlers.nextID
	p.handlers.click = append(p.handlers.click, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventClick}
}

// OnScroll registers a callback that runs once at the first update and then
// whenever the scroll position changes.
func (p *Page) OnScroll(fn func(ScrollContext)) CallbackHandle {
	p.handlers.nextID++
	id := p.handlers.nextID
	p.handlers.scroll = append(p.handlers.scroll, scrollHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &p.handlers, event: EventScroll}
}

// --- Hit testing ---

// hitTest finds the deepest element whose bounds contain the document point
// (x, y). Later siblings are on top of earlier ones. Elements without a
// layout box are not hit-testable but their descendants still are.
func (p *Page) hitTest(x, y float64) *Element {
	var hit *Element
	p.doc.Walk(func(e *Element) bool {
		if e.Style("display") == "none" {
			return false
		}
		if e.Bounds.Area() > 0 && e.Bounds.Contains(x, y) {
			hit = e
		}
		return true
	})
	return hit
}

// ancestry returns e followed by its ancestors.
func ancestry(e *Element) []*Element {
	var chain []*Element
	for ; e != nil; e = e.Parent() {
		chain = append(chain, e)
	}
	return chain
}

func containsElement(list []*Element, e *Element) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

// --- Input processing ---

// processInput is called from Page.Update. An injected event, if any, takes
// the place of host pointer input for this frame.
func (p *Page) processInput() {
	if p.processInjectedInput() {
		return
	}
	if p.hostPointer.set {
		hp := p.hostPointer
		p.processPointer(hp.x, hp.y, hp.pressed, hp.button)
	}
}

// SetPointer records the host's current pointer state. It is applied on the
// next Update.
func (p *Page) SetPointer(x, y float64, pressed bool, button MouseButton) {
	p.hostPointer = hostPointer{x: x, y: y, pressed: pressed, button: button, set: true}
}

type hostPointer struct {
	x, y    float64
	pressed bool
	button  MouseButton
	set     bool
}

// processPointer runs the pointer state machine. x and y are viewport
// coordinates.
func (p *Page) processPointer(x, y float64, pressed bool, button MouseButton) {
	ps := &p.pointer
	px, py := p.viewport.ViewportToPage(x, y)
	target := p.hitTest(px, py)

	base := PointerContext{
		Target:    target,
		ViewportX: x,
		ViewportY: y,
		PageX:     px,
		PageY:     py,
		Button:    button,
	}

	moved := !ps.hasPos || x != ps.lastX || y != ps.lastY
	ps.lastX, ps.lastY, ps.hasPos = x, y, true

	p.updateHover(target, base)

	if moved {
		for _, e := range ancestry(target) {
			if e.OnPointerMove != nil {
				ctx := base
				ctx.Element = e
				e.OnPointerMove(ctx)
			}
		}
		for _, h := range p.handlers.pointerMove {
			h.fn(base)
		}
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.pressHit = target
		for _, h := range p.handlers.pointerDown {
			h.fn(base)
		}
	case !pressed && ps.down:
		ps.down = false
		base.Button = ps.button
		for _, h := range p.handlers.pointerUp {
			h.fn(base)
		}
		if ps.pressHit == target {
			p.dispatchClick(target, base)
		}
		ps.pressHit = nil
	}
}

// updateHover fires leave handlers on elements the pointer left (deepest
// first) and enter handlers on elements it entered (outermost first).
func (p *Page) updateHover(target *Element, base PointerContext) {
	ps := &p.pointer
	next := ancestry(target)

	for _, e := range ps.hover {
		if containsElement(next, e) || e.OnPointerLeave == nil {
			continue
		}
		ctx := base
		ctx.Element = e
		e.OnPointerLeave(ctx)
	}
	for i := len(next) - 1; i >= 0; i-- {
		e := next[i]
		if containsElement(ps.hover, e) || e.OnPointerEnter == nil {
			continue
		}
		ctx := base
		ctx.Element = e
		e.OnPointerEnter(ctx)
	}
	ps.hover = next
}

// dispatchClick bubbles a click from target to the root, then to the
// page-level handlers.
func (p *Page) dispatchClick(target *Element, base PointerContext) {
	stopped := false
	ctx := ClickContext{
		Target:    target,
		ViewportX: base.ViewportX,
		ViewportY: base.ViewportY,
		PageX:     base.PageX,
		PageY:     base.PageY,
		Button:    base.Button,
		stopped:   &stopped,
	}
	for _, e := range ancestry(target) {
		if e.OnClick == nil {
			continue
		}
		c := ctx
		c.Element = e
		e.OnClick(c)
		if stopped {
			return
		}
	}
	for _, h := range p.handlers.click {
		h.fn(ctx)
		if stopped {
			return
		}
	}
}
