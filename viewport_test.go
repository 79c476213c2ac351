package unveil

import (
	"math"
	"testing"
	"time"
)

func TestViewportCoordinates(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollY = 250
	px, py := v.ViewportToPage(10, 20)
	if px != 10 || py != 270 {
		t.Errorf("ViewportToPage = (%v,%v), want (10,270)", px, py)
	}
	vx, vy := v.PageToViewport(px, py)
	if vx != 10 || vy != 20 {
		t.Errorf("PageToViewport = (%v,%v), want (10,20)", vx, vy)
	}
	if got := v.VisibleBounds(); got != (Rect{Y: 250, Width: 800, Height: 600}) {
		t.Errorf("VisibleBounds = %v", got)
	}
}

func TestViewportClamp(t *testing.T) {
	v := NewViewport(800, 600)
	v.BoundsEnabled = true
	v.ContentHeight = 1000

	v.ScrollBy(1000)
	if v.ScrollY != 400 {
		t.Errorf("ScrollY = %v, want 400", v.ScrollY)
	}
	v.SetScroll(-50)
	if v.ScrollY != 0 {
		t.Errorf("ScrollY = %v, want 0", v.ScrollY)
	}

	v.ContentHeight = 300
	if v.MaxScrollY() != 0 {
		t.Errorf("MaxScrollY = %v for short content, want 0", v.MaxScrollY())
	}
}

func TestViewportUnbounded(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollBy(-100)
	if v.ScrollY != -100 {
		t.Errorf("ScrollY = %v, want -100 with bounds off", v.ScrollY)
	}
}

func TestViewportScrollProgress(t *testing.T) {
	v := NewViewport(800, 600)
	if v.ScrollProgress() != 0 {
		t.Errorf("ScrollProgress = %v with no content, want 0", v.ScrollProgress())
	}
	v.ContentHeight = 1600
	v.ScrollY = 500
	if v.ScrollProgress() != 0.5 {
		t.Errorf("ScrollProgress = %v, want 0.5", v.ScrollProgress())
	}
}

func TestViewportScrollTo(t *testing.T) {
	v := NewViewport(800, 600)
	v.BoundsEnabled = true
	v.ContentHeight = 5000

	v.ScrollTo(1000, time.Second, nil)
	if !v.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}
	v.update(500 * time.Millisecond)
	if math.Abs(v.ScrollY-500) > 0.5 {
		t.Errorf("ScrollY = %v at half time, want ~500 with linear easing", v.ScrollY)
	}
	v.update(600 * time.Millisecond)
	if v.ScrollY != 1000 || v.Scrolling() {
		t.Errorf("ScrollY = %v, Scrolling = %v, want 1000 and done", v.ScrollY, v.Scrolling())
	}
	v.update(16 * time.Millisecond)
	if v.ScrollY != 1000 {
		t.Errorf("ScrollY = %v while idle, want 1000", v.ScrollY)
	}
}

func TestViewportScrollToJump(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollTo(300, 0, nil)
	if v.ScrollY != 300 || v.Scrolling() {
		t.Errorf("ScrollY = %v, Scrolling = %v, want immediate jump", v.ScrollY, v.Scrolling())
	}
}

func TestViewportScrollByCancelsAnimation(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollTo(1000, time.Second, nil)
	v.ScrollBy(10)
	if v.Scrolling() {
		t.Error("ScrollBy did not cancel the animation")
	}
}
