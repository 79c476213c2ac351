package unveil

import (
	"strings"
	"testing"
	"time"
)

const headlineHTML = `<html><body><h1 id="hero-heading">Plumbing done <em>right</em></h1></body></html>`

func TestHeadlineTokenizesAndFlips(t *testing.T) {
	doc := mustDoc(t, headlineHTML)
	h1 := byID(t, doc, "hero-heading")
	loop := NewLoop()
	h := NewHeadlineReveal(DefaultConfig(), loop)
	h.Start(h1)

	if len(h.Units) != 3 || len(h.Words) != 3 {
		t.Fatalf("units %d, words %d, want 3 and 3", len(h.Units), len(h.Words))
	}
	if h.Words[2].Parent().Tag() != "em" {
		t.Errorf("third word parent = %s, want em", h.Words[2].Parent().Tag())
	}
	if got := h.Words[1].Style("transition-delay"); got != "80ms" {
		t.Errorf("second word delay = %q, want 80ms", got)
	}
	if got := h1.TextContent(); got != "Plumbing done right" {
		t.Errorf("TextContent = %q, want text unchanged", got)
	}

	loop.Advance(199 * time.Millisecond)
	if h.Revealed() || h.Words[0].HasClass("revealed") {
		t.Fatal("words revealed before 200ms")
	}
	loop.Advance(time.Millisecond)
	if !h.Revealed() {
		t.Error("Revealed = false at 200ms")
	}
	for i, w := range h.Words {
		if !w.HasClass("revealed") {
			t.Errorf("word %d not revealed at 200ms", i)
		}
	}
}

func TestHeadlineReducedMotion(t *testing.T) {
	doc := mustDoc(t, headlineHTML)
	h1 := byID(t, doc, "hero-heading")
	before, _ := h1.InnerHTML()

	cfg := DefaultConfig()
	cfg.ReducedMotion = true
	loop := NewLoop()
	h := NewHeadlineReveal(cfg, loop)
	h.Start(h1)

	after, _ := h1.InnerHTML()
	if after != before {
		t.Errorf("markup changed under reduced motion:\n%s\n%s", before, after)
	}
	if got := h1.Style("visibility"); got != "visible" {
		t.Errorf("visibility = %q, want visible", got)
	}
	if !h.Skipped || !h.Revealed() {
		t.Error("Skipped/Revealed = false, want true")
	}
	if loop.PendingTimers() != 0 {
		t.Errorf("PendingTimers = %d, want 0", loop.PendingTimers())
	}
}

func TestHeadlineNilHeading(t *testing.T) {
	h := NewHeadlineReveal(DefaultConfig(), NewLoop())
	h.Start(nil)
	if !h.Skipped {
		t.Error("Skipped = false for nil heading")
	}
	if h.FlipTimer != nil {
		t.Error("FlipTimer scheduled for nil heading")
	}
}

func TestHeadlineStartOnce(t *testing.T) {
	doc := mustDoc(t, headlineHTML)
	h1 := byID(t, doc, "hero-heading")
	loop := NewLoop()
	h := NewHeadlineReveal(DefaultConfig(), loop)
	h.Start(h1)
	h.Start(h1)

	markup, err := h1.InnerHTML()
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(markup, `class="hero-word"`); n != 3 {
		t.Errorf("word spans = %d, want 3", n)
	}
	if loop.PendingTimers() != 1 {
		t.Errorf("PendingTimers = %d, want 1", loop.PendingTimers())
	}
}
