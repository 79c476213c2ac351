package unveil

import (
	"math"
	"strconv"
)

// Behaviors holds the state of the page's supporting behaviors: scroll
// effects, mobile navigation, FAQ accordion, dropdowns and card tilt. Each
// is mounted separately and silently does nothing when its elements are
// missing.
type Behaviors struct {
	page *Page
	cfg  *Config

	// Scroll effects.
	Nav        *Element
	Floating   *Element
	HeroAnchor *Element

	// Mobile navigation.
	NavToggle *Element
	NavLinks  *Element

	FAQItems  []*Element
	Dropdowns []*Dropdown
	Cards     []*TiltCard

	scrollHandle CallbackHandle
	clickHandles []CallbackHandle
	menuSel      Selector
}

// Dropdown is the state record of one dropdown trigger.
type Dropdown struct {
	Trigger *Element
	Menu    *Element
	// Link receives mobile clicks: the first link or button in the trigger,
	// or the trigger itself.
	Link *Element
	// HideTimer is the pending delayed hide, nil when none is scheduled.
	HideTimer *Timer
}

// Visible reports whether the dropdown menu is shown.
func (d *Dropdown) Visible() bool {
	return d.Menu.HasClass("visible")
}

// TiltCard is the state record of one tilting card.
type TiltCard struct {
	Element *Element
	// RotateX and RotateY are the last applied angles in degrees.
	RotateX, RotateY float64
	Active           bool
}

func newBehaviors(p *Page) *Behaviors {
	return &Behaviors{page: p, cfg: p.cfg}
}

// Unmount removes the page-level scroll and click listeners registered by
// the behaviors. Element handlers stay in place.
func (b *Behaviors) Unmount() {
	b.scrollHandle.Remove()
	b.scrollHandle = CallbackHandle{}
	for _, h := range b.clickHandles {
		h.Remove()
	}
	b.clickHandles = nil
}

// desktop reports whether the viewport is wider than the desktop breakpoint.
func (b *Behaviors) desktop() bool {
	return b.page.viewport.Width > b.cfg.DesktopWidth
}

// --- Scroll effects ---

// MountScrollEffects registers the scroll listener that updates the scroll
// progress property, the nav scrolled flag and the floating buttons. Any of
// the elements may be nil.
func (b *Behaviors) MountScrollEffects(nav, floating, heroAnchor *Element) {
	b.Nav, b.Floating, b.HeroAnchor = nav, floating, heroAnchor
	b.scrollHandle.Remove()
	b.scrollHandle = b.page.OnScroll(b.onScroll)
}

func (b *Behaviors) onScroll(ctx ScrollContext) {
	if root := b.page.doc.Root(); root != nil {
		root.SetStyle(b.cfg.ScrollProgressVar, formatNumber(ctx.Progress))
	}

	if b.Nav != nil {
		if ctx.ScrollY > b.cfg.NavScrollOffset {
			b.Nav.AddClass("scrolled")
		} else {
			b.Nav.RemoveClass("scrolled")
		}
	}

	if b.Floating != nil && b.HeroAnchor != nil {
		_, bottom := b.page.viewport.PageToViewport(0, b.HeroAnchor.Bounds.Bottom())
		if bottom < 0 {
			b.Floating.AddClass("visible")
		} else {
			b.Floating.RemoveClass("visible")
		}
	}
}

// --- Mobile navigation ---

// MountMobileNav wires the navigation toggle. Clicking the toggle flips the
// open flag of the links list; clicking a link inside the list, or anywhere
// outside both, closes it.
func (b *Behaviors) MountMobileNav(toggle, links *Element) {
	if toggle == nil || links == nil {
		return
	}
	b.NavToggle, b.NavLinks = toggle, links

	addClick(toggle, func(c ClickContext) {
		c.StopPropagation()
		links.ToggleClass("open")
	})
	for _, a := range descendantsWithTag(links, "a") {
		addClick(a, func(ClickContext) {
			links.RemoveClass("open")
		})
	}
	b.clickHandles = append(b.clickHandles, b.page.OnClick(func(c ClickContext) {
		if !links.Contains(c.Target) && !toggle.Contains(c.Target) {
			links.RemoveClass("open")
		}
	}))
}

// --- FAQ accordion ---

// MountFAQ wires each question. A click closes every other open item in the
// same section, then toggles the question's own item.
func (b *Behaviors) MountFAQ(questions []*Element, itemSel, sectionSel Selector) {
	if itemSel.IsZero() {
		return
	}
	for _, q := range questions {
		if item := q.Closest(itemSel); item != nil {
			b.FAQItems = append(b.FAQItems, item)
		}
		addClick(q, func(ClickContext) {
			item := q.Closest(itemSel)
			if item == nil {
				return
			}
			var section *Element
			if !sectionSel.IsZero() {
				section = item.Closest(sectionSel)
			}
			if section == nil {
				section = item.Parent()
			}
			wasOpen := item.HasClass("open")
			if section != nil {
				for _, other := range section.QueryAll(itemSel) {
					if other != item && other.HasClass("open") {
						other.RemoveClass("open")
					}
				}
			}
			if wasOpen {
				item.RemoveClass("open")
			} else {
				item.AddClass("open")
			}
		})
	}
}

// --- Dropdowns ---

// MountDropdowns wires each trigger that contains a menu. On a desktop-width
// viewport at mount time, hovering the trigger or menu shows the menu and
// leaving schedules a delayed hide. Clicks on the trigger link toggle the
// menu while the viewport is narrow, and clicks elsewhere close open menus.
func (b *Behaviors) MountDropdowns(triggers []*Element, menuSel Selector) {
	if menuSel.IsZero() {
		return
	}
	b.menuSel = menuSel
	desktop := b.desktop()
	for _, trigger := range triggers {
		menu := trigger.Query(menuSel)
		if menu == nil {
			continue
		}
		d := &Dropdown{Trigger: trigger, Menu: menu, Link: firstLink(trigger)}
		b.Dropdowns = append(b.Dropdowns, d)

		if desktop {
			show := func(PointerContext) { b.showDropdown(d) }
			hide := func(PointerContext) { b.scheduleHide(d) }
			addEnter(trigger, show)
			addLeave(trigger, hide)
			addEnter(menu, show)
			addLeave(menu, hide)
		}

		addClick(d.Link, func(c ClickContext) {
			if b.desktop() {
				return
			}
			c.StopPropagation()
			wasVisible := d.Visible()
			// Every open menu in the document closes, registered or not.
			for _, menu := range b.page.doc.QueryAll(b.menuSel) {
				menu.RemoveClass("visible")
			}
			if !wasVisible {
				d.Menu.AddClass("visible")
			}
		})
	}
	if len(b.Dropdowns) == 0 {
		return
	}
	b.clickHandles = append(b.clickHandles, b.page.OnClick(func(c ClickContext) {
		if b.desktop() {
			return
		}
		for _, d := range b.Dropdowns {
			if d.Visible() && !d.Trigger.Contains(c.Target) {
				d.Menu.RemoveClass("visible")
			}
		}
	}))
}

func (b *Behaviors) showDropdown(d *Dropdown) {
	if d.HideTimer != nil {
		d.HideTimer.Stop()
		d.HideTimer = nil
	}
	d.Menu.AddClass("visible")
}

// scheduleHide replaces any pending hide with a new one.
func (b *Behaviors) scheduleHide(d *Dropdown) {
	d.HideTimer.Stop()
	d.HideTimer = b.page.loop.AfterFunc(b.cfg.HideDelay, func() {
		d.Menu.RemoveClass("visible")
		d.HideTimer = nil
	})
}

// --- Card tilt ---

// MountCardTilt makes cards tilt toward the pointer. Only mounted on a
// desktop-width viewport without reduced motion.
func (b *Behaviors) MountCardTilt(cards []*Element) {
	if !b.desktop() || b.cfg.ReducedMotion {
		return
	}
	for _, el := range cards {
		card := &TiltCard{Element: el}
		b.Cards = append(b.Cards, card)
		addMove(el, func(c PointerContext) { b.tilt(card, c.PageX, c.PageY) })
		addLeave(el, func(PointerContext) {
			card.Active = false
			card.RotateX, card.RotateY = 0, 0
			card.Element.SetStyle("transform", "")
		})
	}
}

// tilt maps the pointer offset from the card center to rotations of at most
// TiltMaxDegrees on each axis.
func (b *Behaviors) tilt(card *TiltCard, x, y float64) {
	r := card.Element.Bounds
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	limit := b.cfg.TiltMaxDegrees
	dx := x - (r.X + r.Width/2)
	dy := y - (r.Y + r.Height/2)
	ry := clamp(dx/(r.Width/2)*limit, -limit, limit)
	rx := clamp(-dy/(r.Height/2)*limit, -limit, limit)

	card.Active = true
	card.RotateX, card.RotateY = rx, ry
	card.Element.SetStyle("transform",
		"perspective("+formatNumber(b.cfg.TiltPerspective)+"px) "+
			"rotateX("+formatNumber(rx)+"deg) rotateY("+formatNumber(ry)+"deg)")
}

// --- Helpers ---

// addClick chains fn after any click handler already set on e.
func addClick(e *Element, fn func(ClickContext)) {
	prev := e.OnClick
	if prev == nil {
		e.OnClick = fn
		return
	}
	e.OnClick = func(c ClickContext) {
		prev(c)
		fn(c)
	}
}

func addEnter(e *Element, fn func(PointerContext)) {
	e.OnPointerEnter = chainPointer(e.OnPointerEnter, fn)
}

func addLeave(e *Element, fn func(PointerContext)) {
	e.OnPointerLeave = chainPointer(e.OnPointerLeave, fn)
}

func addMove(e *Element, fn func(PointerContext)) {
	e.OnPointerMove = chainPointer(e.OnPointerMove, fn)
}

func chainPointer(prev, fn func(PointerContext)) func(PointerContext) {
	if prev == nil {
		return fn
	}
	return func(c PointerContext) {
		prev(c)
		fn(c)
	}
}

// firstLink returns the first descendant link, else the first button, else
// e itself.
func firstLink(e *Element) *Element {
	if a := descendantsWithTag(e, "a"); len(a) > 0 {
		return a[0]
	}
	if btn := descendantsWithTag(e, "button"); len(btn) > 0 {
		return btn[0]
	}
	return e
}

func descendantsWithTag(e *Element, tag string) []*Element {
	var out []*Element
	for _, c := range e.Children() {
		if c.Tag() == tag {
			out = append(out, c)
		}
		out = append(out, descendantsWithTag(c, tag)...)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// formatNumber prints v in its shortest form, with negative zero as "0".
func formatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
