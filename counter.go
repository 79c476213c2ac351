package unveil

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// CounterState is the animation lifecycle of a counter.
type CounterState uint8

const (
	CounterIdle    CounterState = iota // waiting for its visibility trigger
	CounterRunning                     // ticking once per frame
	CounterDone                        // displays the final value; terminal
)

func (s CounterState) String() string {
	switch s {
	case CounterIdle:
		return "idle"
	case CounterRunning:
		return "running"
	case CounterDone:
		return "done"
	default:
		return "unknown"
	}
}

// CounterTarget is an element whose text counts up from 0 to Value.
type CounterTarget struct {
	Element *Element
	// Raw is the attribute text Value was parsed from.
	Raw string
	// Value is the parsed target; meaningless when Valid is false.
	Value int64
	// Valid is false when Raw has no leading integer. The counter then
	// displays "NaN" followed by the suffix.
	Valid  bool
	Suffix string

	State CounterState
	// Start is the timestamp of the first animation frame.
	Start time.Duration
	// Frames counts animation ticks that wrote the display.
	Frames int

	started bool
}

// NewCounterTarget parses raw with ParseCounterValue.
func NewCounterTarget(el *Element, raw, suffix string) *CounterTarget {
	v, ok := ParseCounterValue(raw)
	return &CounterTarget{Element: el, Raw: raw, Value: v, Valid: ok, Suffix: suffix}
}

// ParseCounterValue reads a leading base-10 integer: optional surrounding
// whitespace, an optional sign, then digits up to the first non-digit.
// Trailing garbage is ignored ("12k" is 12). It reports false when no digit
// follows. Values beyond the int64 range saturate.
func ParseCounterValue(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	digits := s[:end]
	if neg {
		digits = "-" + digits
	}
	// Only ErrRange is possible here, and ParseInt then returns the
	// saturated value.
	v, _ := strconv.ParseInt(digits, 10, 64)
	return v, true
}

// Format returns the display text for a value n.
func (t *CounterTarget) Format(n int64) string {
	if !t.Valid {
		return "NaN" + t.Suffix
	}
	return strconv.FormatInt(n, 10) + t.Suffix
}

// FinalText is the text shown once the counter is done.
func (t *CounterTarget) FinalText() string {
	return t.Format(t.Value)
}

// CounterAnimator starts each counter on its own first visibility trigger
// and interpolates its display with a cubic ease-out.
type CounterAnimator struct {
	cfg     *Config
	loop    *Loop
	trigger *OneShot

	counters []*CounterTarget
}

// NewCounterAnimator builds an animator. A nil vis, or reduced motion,
// makes Observe show final values immediately.
func NewCounterAnimator(cfg *Config, loop *Loop, vis *Visibility) *CounterAnimator {
	a := &CounterAnimator{cfg: cfg, loop: loop}
	if cfg.Animated() && vis != nil {
		a.trigger = NewOneShot(vis, ObserverOptions{
			Threshold: cfg.CounterThreshold,
			Margin:    cfg.CounterMargin,
		})
	}
	return a
}

// Observe arms the visibility trigger of each counter, or finishes every
// counter at once when animation is off.
func (a *CounterAnimator) Observe(targets []*CounterTarget) {
	for _, t := range targets {
		if t == nil || t.Element == nil {
			continue
		}
		a.counters = append(a.counters, t)
		if a.trigger == nil {
			a.finish(t)
			continue
		}
		a.trigger.Subscribe(t.Element, func(IntersectionEntry) {
			a.Animate(t)
		})
	}
}

// Counters returns the observed counters in observe order.
func (a *CounterAnimator) Counters() []*CounterTarget {
	return a.counters
}

// Animate starts t. It only has an effect on an idle counter, so repeated
// calls never restart an animation.
func (a *CounterAnimator) Animate(t *CounterTarget) {
	if t.State != CounterIdle {
		return
	}
	t.State = CounterRunning
	Logger().Debug("counter start", "target", t.Element.Name(), "value", t.Raw)
	a.loop.RequestFrame(func(now time.Duration) { a.step(t, now) })
}

// step is one frame of the animation. Progress comes from elapsed loop time,
// not from the number of frames.
func (a *CounterAnimator) step(t *CounterTarget, now time.Duration) {
	if !t.started {
		t.started = true
		t.Start = now
	}
	progress := 1.0
	if d := a.cfg.CounterDuration; d > 0 {
		progress = math.Max(0, math.Min(float64(now-t.Start)/float64(d), 1))
	}

	shown := t.Value
	if progress < 1 {
		shown = roundHalfUp(easeOutCubic(progress) * float64(t.Value))
	}
	t.Element.SetTextContent(t.Format(shown))
	t.Frames++

	if progress < 1 {
		a.loop.RequestFrame(func(now time.Duration) { a.step(t, now) })
		return
	}
	t.State = CounterDone
}

// finish writes the final value without interpolation.
func (a *CounterAnimator) finish(t *CounterTarget) {
	t.State = CounterDone
	t.Element.SetTextContent(t.FinalText())
}

// easeOutCubic maps linear progress in [0, 1] to 1 - (1-p)^3 in float64.
func easeOutCubic(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}

// roundHalfUp rounds to the nearest integer with ties toward +Inf.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
