package unveil

// HeadlineReveal turns a heading into staggered word units and flips them
// all to revealed after one global delay.
type HeadlineReveal struct {
	cfg  *Config
	loop *Loop

	// Heading is the element passed to Start, possibly nil.
	Heading *Element
	// Units are the word units produced by tokenization, in order.
	Units []WordUnit
	// Words are the wrapping span elements, in the same order as Units.
	Words []*Element
	// FlipTimer is the pending batch flip, nil when tokenization was skipped.
	FlipTimer *Timer
	// Skipped is set when the heading was shown without tokenization.
	Skipped bool
}

// NewHeadlineReveal returns a headline reveal bound to cfg and loop.
func NewHeadlineReveal(cfg *Config, loop *Loop) *HeadlineReveal {
	return &HeadlineReveal{cfg: cfg, loop: loop}
}

// Start reads the heading markup once, replaces it once with the annotated
// markup and schedules the flip. With reduced motion, or without a heading,
// nothing is tokenized and the heading (if any) is made visible at once.
// Start is meant to be called once; later calls are ignored.
func (h *HeadlineReveal) Start(heading *Element) {
	if h.Heading != nil || h.Skipped {
		return
	}
	h.Heading = heading
	if heading == nil || h.cfg.ReducedMotion {
		h.skip()
		return
	}

	markup, err := heading.InnerHTML()
	if err != nil {
		Logger().Debug("headline: read markup", "err", err)
		h.skip()
		return
	}
	tok := &Tokenizer{Stride: h.cfg.WordStride, WordClass: h.cfg.WordClass}
	res := tok.Tokenize(markup)
	if err := heading.SetInnerHTML(res.Markup); err != nil {
		Logger().Debug("headline: write markup", "err", err)
		h.skip()
		return
	}
	h.Units = res.Units
	h.Words = descendantsWithClass(heading, h.cfg.WordClass)

	h.FlipTimer = h.loop.AfterFunc(h.cfg.WordRevealDelay, h.flip)
}

// Revealed reports whether the batch flip has happened (or was skipped).
func (h *HeadlineReveal) Revealed() bool {
	return h.Skipped || h.FlipTimer.Fired()
}

// flip adds the revealed class to every word unit at once. Per-word timing
// comes from each span's transition delay.
func (h *HeadlineReveal) flip() {
	for _, w := range h.Words {
		w.AddClass(h.cfg.RevealedClass)
	}
	Logger().Debug("headline: words revealed", "count", len(h.Words))
}

func (h *HeadlineReveal) skip() {
	h.Skipped = true
	if h.Heading != nil {
		h.Heading.SetStyle("visibility", "visible")
	}
}

// descendantsWithClass returns the descendants of e carrying class, in
// document order.
func descendantsWithClass(e *Element, class string) []*Element {
	var out []*Element
	for _, c := range e.Children() {
		if c.HasClass(class) {
			out = append(out, c)
		}
		out = append(out, descendantsWithClass(c, class)...)
	}
	return out
}
