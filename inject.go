package unveil

type injectKind uint8

const (
	injectPointer injectKind = iota
	injectScroll
)

// syntheticEvent represents a single injected input event. Pointer
// coordinates are viewport coordinates, the same space a host reports, and
// are converted to document coordinates via the scroll offset.
type syntheticEvent struct {
	kind    injectKind
	x, y    float64
	pressed bool
	button  MouseButton
	dy      float64
}

// InjectPress queues a pointer press at the given viewport coordinates
// (left button). The event is consumed on the next Update.
func (p *Page) InjectPress(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticEvent{
		kind: injectPointer, x: x, y: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release at the given viewport coordinates.
func (p *Page) InjectRelease(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticEvent{
		kind: injectPointer, x: x, y: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a pointer move to the given viewport coordinates with
// the button up. It drives hover: enter, leave and move handlers.
func (p *Page) InjectMove(x, y float64) {
	p.InjectRelease(x, y)
}

// InjectClick is a convenience that queues a press followed by a release at
// the same viewport coordinates. Consumes two frames.
func (p *Page) InjectClick(x, y float64) {
	p.InjectPress(x, y)
	p.InjectRelease(x, y)
}

// InjectScroll queues a relative scroll of dy pixels, as a wheel would
// produce. Consumes one frame.
func (p *Page) InjectScroll(dy float64) {
	p.injectQueue = append(p.injectQueue, syntheticEvent{kind: injectScroll, dy: dy})
}

// PendingInjections returns the number of queued injected events.
func (p *Page) PendingInjections() int {
	return len(p.injectQueue)
}

// processInjectedInput pops one event from the inject queue and applies it.
// Returns true if an event was consumed (host pointer input is skipped for
// that frame).
func (p *Page) processInjectedInput() bool {
	if len(p.injectQueue) == 0 {
		return false
	}
	evt := p.injectQueue[0]
	copy(p.injectQueue, p.injectQueue[1:])
	p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]

	switch evt.kind {
	case injectScroll:
		p.viewport.ScrollBy(evt.dy)
	default:
		p.processPointer(evt.x, evt.y, evt.pressed, evt.button)
	}
	return true
}
