package unveil

import (
	"fmt"
)

// compiledSelectors is Selectors after compilation. Empty sources stay
// zero and select nothing.
type compiledSelectors struct {
	heading, reveal, revealChild, counter     Selector
	nav, navToggle, navLinks, floatingButtons Selector
	heroAnchors                               []Selector
	serviceCard                               Selector
	faqQuestion, faqItem, faqSection          Selector
	dropdownTrigger, dropdown                 Selector
}

func compileSelectors(s Selectors) (compiledSelectors, error) {
	var c compiledSelectors
	var err error
	compile := func(dst *Selector, src string) {
		if err != nil || src == "" {
			return
		}
		*dst, err = CompileSelector(src)
	}
	compile(&c.heading, s.Heading)
	compile(&c.reveal, s.Reveal)
	compile(&c.revealChild, s.RevealChild)
	compile(&c.counter, s.Counter)
	compile(&c.nav, s.Nav)
	compile(&c.navToggle, s.NavToggle)
	compile(&c.navLinks, s.NavLinks)
	compile(&c.floatingButtons, s.FloatingButtons)
	compile(&c.serviceCard, s.ServiceCard)
	compile(&c.faqQuestion, s.FAQQuestion)
	compile(&c.faqItem, s.FAQItem)
	compile(&c.faqSection, s.FAQSection)
	compile(&c.dropdownTrigger, s.DropdownTrigger)
	compile(&c.dropdown, s.Dropdown)
	for _, src := range s.HeroAnchors {
		var sel Selector
		compile(&sel, src)
		if !sel.IsZero() {
			c.heroAnchors = append(c.heroAnchors, sel)
		}
	}
	if err != nil {
		return compiledSelectors{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c, nil
}

// MountSummary counts what Mount found.
type MountSummary struct {
	Heading   bool
	Words     int
	Reveals   int
	Children  int
	Counters  int
	FAQ       int
	Dropdowns int
	Cards     int
}

// Mount selects the marked elements with the configured selectors and
// starts every component: scroll effects, headline, reveals, card tilt,
// FAQ, counters and dropdowns, in that order. Missing elements are not an
// error. The returned error wraps ErrInvalidConfig when a selector does not
// compile. Mount runs once; later calls return the zero summary.
func (p *Page) Mount() (MountSummary, error) {
	var sum MountSummary
	if p.mounted {
		Logger().Debug("mount: already mounted")
		return sum, nil
	}
	sel, err := compileSelectors(p.cfg.Selectors)
	if err != nil {
		return sum, fmt.Errorf("mount: %w", err)
	}
	p.mounted = true
	p.sel = sel
	d := p.doc

	var anchor *Element
	for _, s := range sel.heroAnchors {
		if anchor = d.Query(s); anchor != nil {
			break
		}
	}
	p.behaviors.MountScrollEffects(d.Query(sel.nav), d.Query(sel.floatingButtons), anchor)
	p.behaviors.MountMobileNav(d.Query(sel.navToggle), d.Query(sel.navLinks))

	heading := d.Query(sel.heading)
	if heading == nil {
		Logger().Debug("mount: no heading", "selector", sel.heading.String())
	}
	p.headline.Start(heading)
	// Word spans need boxes of their own.
	p.Relayout()
	sum.Heading = heading != nil
	sum.Words = len(p.headline.Words)

	var targets []RevealTarget
	for _, el := range d.QueryAll(sel.reveal) {
		t := RevealTarget{Element: el, Children: el.QueryAll(sel.revealChild)}
		sum.Children += len(t.Children)
		targets = append(targets, t)
	}
	p.reveal.Observe(targets)
	sum.Reveals = len(targets)

	cards := d.QueryAll(sel.serviceCard)
	p.behaviors.MountCardTilt(cards)
	sum.Cards = len(p.behaviors.Cards)

	questions := d.QueryAll(sel.faqQuestion)
	p.behaviors.MountFAQ(questions, sel.faqItem, sel.faqSection)
	sum.FAQ = len(questions)

	var counters []*CounterTarget
	for _, el := range d.QueryAll(sel.counter) {
		raw, _ := el.Attr(p.cfg.Selectors.CounterTargetAttr)
		suffix, _ := el.Attr(p.cfg.Selectors.CounterSuffixAttr)
		counters = append(counters, NewCounterTarget(el, raw, suffix))
	}
	p.counters.Observe(counters)
	sum.Counters = len(counters)

	p.behaviors.MountDropdowns(d.QueryAll(sel.dropdownTrigger), sel.dropdown)
	sum.Dropdowns = len(p.behaviors.Dropdowns)

	Logger().Info("page mounted",
		"heading", sum.Heading,
		"words", sum.Words,
		"reveals", sum.Reveals,
		"children", sum.Children,
		"counters", sum.Counters,
		"faq", sum.FAQ,
		"dropdowns", sum.Dropdowns,
		"cards", sum.Cards,
		"animated", p.cfg.Animated(),
	)
	return sum, nil
}

// AwaitingReveal reports whether e is a reveal target, stagger child or
// headline word that does not carry the revealed class yet. Hosts use it to
// draw such elements hidden. Always false before Mount.
func (p *Page) AwaitingReveal(e *Element) bool {
	if !p.mounted || e.HasClass(p.cfg.RevealedClass) {
		return false
	}
	return e.HasClass(p.cfg.WordClass) || e.Matches(p.sel.reveal) || e.Matches(p.sel.revealChild)
}
