package unveil

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Viewport is the visible window onto the document: a scroll offset and a
// size, both in CSS pixels.
type Viewport struct {
	// ScrollX and ScrollY are the document coordinates of the viewport's
	// top-left corner.
	ScrollX, ScrollY float64
	// Width and Height are the viewport size.
	Width, Height float64

	// BoundsEnabled clamps scrolling so the viewport stays within
	// ContentHeight.
	BoundsEnabled bool
	ContentHeight float64

	// scrollTween is the active ScrollTo animation, nil when idle.
	scrollTween *gween.Tween
}

// NewViewport returns a viewport of the given size scrolled to the top.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height}
}

// VisibleBounds returns the document-space rectangle currently in view.
func (v *Viewport) VisibleBounds() Rect {
	return Rect{X: v.ScrollX, Y: v.ScrollY, Width: v.Width, Height: v.Height}
}

// ViewportToPage converts viewport coordinates to document coordinates.
func (v *Viewport) ViewportToPage(x, y float64) (float64, float64) {
	return x + v.ScrollX, y + v.ScrollY
}

// PageToViewport converts document coordinates to viewport coordinates.
func (v *Viewport) PageToViewport(x, y float64) (float64, float64) {
	return x - v.ScrollX, y - v.ScrollY
}

// MaxScrollY returns the largest scroll offset that keeps the viewport
// within the content, or 0 when the content fits.
func (v *Viewport) MaxScrollY() float64 {
	return math.Max(0, v.ContentHeight-v.Height)
}

// ScrollProgress returns ScrollY / MaxScrollY, or 0 when nothing scrolls.
func (v *Viewport) ScrollProgress() float64 {
	span := v.ContentHeight - v.Height
	if span <= 0 {
		return 0
	}
	return v.ScrollY / span
}

// SetScroll jumps to the given vertical offset and cancels any scroll
// animation.
func (v *Viewport) SetScroll(y float64) {
	v.scrollTween = nil
	v.ScrollY = y
	v.ClampToBounds()
}

// ScrollBy moves the viewport by dy pixels and cancels any scroll animation.
func (v *Viewport) ScrollBy(dy float64) {
	v.SetScroll(v.ScrollY + dy)
}

// ScrollTo animates the vertical offset to y over duration using the easing
// function. A non-positive duration jumps immediately.
func (v *Viewport) ScrollTo(y float64, duration time.Duration, easeFn ease.TweenFunc) {
	if duration <= 0 {
		v.SetScroll(y)
		return
	}
	if easeFn == nil {
		easeFn = ease.Linear
	}
	v.scrollTween = gween.New(float32(v.ScrollY), float32(y), float32(duration.Seconds()), easeFn)
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (v *Viewport) Scrolling() bool {
	return v.scrollTween != nil
}

// ClampToBounds clamps ScrollY into [0, MaxScrollY]. No-op if BoundsEnabled
// is false.
func (v *Viewport) ClampToBounds() {
	if !v.BoundsEnabled {
		return
	}
	v.ScrollY = math.Max(0, math.Min(v.ScrollY, v.MaxScrollY()))
}

// update advances the scroll animation. Called from Page.Update, which
// detects position changes itself so host-driven ScrollBy calls count too.
func (v *Viewport) update(dt time.Duration) {
	if v.scrollTween != nil {
		val, done := v.scrollTween.Update(float32(dt.Seconds()))
		v.ScrollY = float64(val)
		if done {
			v.scrollTween = nil
		}
	}
	v.ClampToBounds()
}
