package unveil

import (
	"fmt"
	"time"
)

// Page is the top-level object that owns the document, viewport, event loop,
// visibility observers, input state and every reveal component. A host
// drives it by calling Update once per frame.
type Page struct {
	doc        *Document
	cfg        *Config
	loop       *Loop
	viewport   *Viewport
	visibility *Visibility

	headline  *HeadlineReveal
	reveal    *RevealScheduler
	counters  *CounterAnimator
	behaviors *Behaviors

	// LineHeight is the line box height used by Relayout.
	LineHeight float64

	// SnapshotDir is where Snapshot writes its files.
	SnapshotDir string

	// Input state
	handlers    handlerRegistry
	pointer     pointerState
	hostPointer hostPointer
	injectQueue []syntheticEvent

	runner *ScriptRunner

	scrollNotified bool
	lastScrollX    float64
	lastScrollY    float64

	snapshotQueue []string
	snapshotSeq   int

	frame   int
	mounted bool
	sel     compiledSelectors
	debug   bool
}

// NewPage creates a page for doc with a viewport of the given size, lays the
// document out and builds every component from cfg. A nil cfg means
// DefaultConfig. The returned error wraps ErrInvalidConfig.
func NewPage(doc *Document, cfg *Config, width, height float64) (*Page, error) {
	if doc == nil {
		return nil, fmt.Errorf("new page: nil document")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	p := &Page{
		doc:         doc,
		cfg:         cfg,
		loop:        NewLoop(),
		viewport:    NewViewport(width, height),
		LineHeight:  DefaultLineHeight,
		SnapshotDir: "snapshots",
	}
	p.viewport.BoundsEnabled = true
	if cfg.VisibilitySupported {
		p.visibility = NewVisibility()
	}

	p.headline = NewHeadlineReveal(cfg, p.loop)
	p.reveal = NewRevealScheduler(cfg, p.loop, p.visibility)
	p.counters = NewCounterAnimator(cfg, p.loop, p.visibility)
	p.behaviors = newBehaviors(p)

	p.Relayout()
	return p, nil
}

// Document returns the page's document.
func (p *Page) Document() *Document { return p.doc }

// Config returns the configuration the page was built with.
func (p *Page) Config() *Config { return p.cfg }

// Loop returns the page's event loop.
func (p *Page) Loop() *Loop { return p.loop }

// Viewport returns the page's viewport.
func (p *Page) Viewport() *Viewport { return p.viewport }

// Visibility returns the visibility hub, or nil when the page was built
// without visibility support.
func (p *Page) Visibility() *Visibility { return p.visibility }

// Headline returns the headline reveal component.
func (p *Page) Headline() *HeadlineReveal { return p.headline }

// Reveals returns the reveal scheduler.
func (p *Page) Reveals() *RevealScheduler { return p.reveal }

// Counters returns the counter animator.
func (p *Page) Counters() *CounterAnimator { return p.counters }

// Behaviors returns the supporting behavior records.
func (p *Page) Behaviors() *Behaviors { return p.behaviors }

// Frame returns the number of completed Update calls.
func (p *Page) Frame() int { return p.frame }

// Relayout recomputes element bounds for the current viewport width and
// updates the scrollable content height.
func (p *Page) Relayout() {
	p.viewport.ContentHeight = Layout(p.doc, p.viewport.Width, p.LineHeight)
	p.viewport.ClampToBounds()
}

// Resize changes the viewport size and lays the document out again.
func (p *Page) Resize(width, height float64) {
	p.viewport.Width, p.viewport.Height = width, height
	p.Relayout()
}

// ScrollTo scrolls the viewport to y, animated over duration. A non-positive
// duration jumps.
func (p *Page) ScrollTo(y float64, duration time.Duration) {
	p.viewport.ScrollTo(y, duration, nil)
}

// Update advances the page by dt: the loop clock moves, one pointer event is
// processed, the scroll animation advances, scroll listeners run when the
// position changed (and on the first frame), visibility is delivered, then
// due timers and frame callbacks run.
func (p *Page) Update(dt time.Duration) {
	var stats debugStats
	var t0 time.Time

	p.loop.Tick(dt)

	if p.runner != nil {
		p.runner.step(p)
	}

	if p.debug {
		t0 = time.Now()
	}
	p.processInput()
	p.viewport.update(dt)
	p.notifyScroll()
	if p.debug {
		stats.inputTime = time.Since(t0)
		t0 = time.Now()
	}

	if p.visibility != nil {
		p.visibility.Deliver(p.viewport.VisibleBounds(), p.loop.Now())
	}
	if p.debug {
		stats.visibilityTime = time.Since(t0)
		t0 = time.Now()
	}

	p.loop.RunTimers()
	if p.debug {
		stats.timerTime = time.Since(t0)
		t0 = time.Now()
	}

	p.loop.RunFrames()
	if p.debug {
		stats.frameTime = time.Since(t0)
		stats.pendingTimers = p.loop.PendingTimers()
		stats.pendingFrames = p.loop.PendingFrames()
		stats.pendingReveals = p.reveal.Pending()
		p.debugLog(stats)
	}

	p.flushSnapshots()
	p.frame++
}

// notifyScroll runs the scroll listeners once on the first frame and then
// whenever the scroll offset changed since they last ran.
func (p *Page) notifyScroll() {
	v := p.viewport
	if p.scrollNotified && v.ScrollX == p.lastScrollX && v.ScrollY == p.lastScrollY {
		return
	}
	p.scrollNotified = true
	p.lastScrollX, p.lastScrollY = v.ScrollX, v.ScrollY

	ctx := ScrollContext{ScrollX: v.ScrollX, ScrollY: v.ScrollY, Progress: v.ScrollProgress()}
	for _, h := range p.handlers.scroll {
		h.fn(ctx)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-element
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (p *Page) SetDebugMode(enabled bool) {
	p.debug = enabled
	p.doc.debug = enabled
}
