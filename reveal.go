package unveil

import "time"

// RevealState is the lifecycle of a reveal target.
type RevealState uint8

const (
	RevealPending  RevealState = iota // observed, not yet visible enough
	RevealRevealed                    // terminal; never leaves this state
)

func (s RevealState) String() string {
	switch s {
	case RevealPending:
		return "pending"
	case RevealRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// RevealTarget is an element eligible for visibility-triggered reveal plus
// its stagger children in the order they should cascade.
type RevealTarget struct {
	Element  *Element
	Children []*Element
}

// ChildUnit is one stagger child of a reveal target.
type ChildUnit struct {
	Element *Element
	Index   int
	Delay   time.Duration
	// Timer is the pending reveal of this child, nil until the parent is
	// revealed and nil for synchronous reveals.
	Timer *Timer
	// Revealed is set when the revealed class has been applied.
	Revealed   bool
	RevealedAt time.Duration
}

// RevealRecord is the explicit state of one reveal target.
type RevealRecord struct {
	Target     *Element
	State      RevealState
	RevealedAt time.Duration
	Children   []*ChildUnit
}

// RevealScheduler reveals targets the first time they become visible enough
// and cascades the reveal across their children on fixed delays.
type RevealScheduler struct {
	cfg     *Config
	loop    *Loop
	trigger *OneShot

	records []*RevealRecord
	index   map[*Element]*RevealRecord

	// OnReveal, when set, runs right after a target turns revealed.
	OnReveal func(*RevealRecord)
}

// NewRevealScheduler builds a scheduler. vis may be nil when the host has no
// visibility mechanism; the scheduler then reveals synchronously, as it does
// under reduced motion.
func NewRevealScheduler(cfg *Config, loop *Loop, vis *Visibility) *RevealScheduler {
	s := &RevealScheduler{
		cfg:   cfg,
		loop:  loop,
		index: make(map[*Element]*RevealRecord),
	}
	if cfg.Animated() && vis != nil {
		s.trigger = NewOneShot(vis, ObserverOptions{
			Threshold: cfg.RevealThreshold,
			Margin:    cfg.RevealMargin,
		})
	}
	return s
}

// Observe registers targets. Targets already known to the scheduler are
// ignored, so a target is revealed at most once.
func (s *RevealScheduler) Observe(targets []RevealTarget) {
	for _, t := range targets {
		if t.Element == nil {
			continue
		}
		if _, ok := s.index[t.Element]; ok {
			continue
		}
		rec := &RevealRecord{Target: t.Element}
		for i, c := range t.Children {
			rec.Children = append(rec.Children, &ChildUnit{
				Element: c,
				Index:   i,
				Delay:   time.Duration(i) * s.cfg.ChildStride,
			})
		}
		s.records = append(s.records, rec)
		s.index[t.Element] = rec

		if s.trigger == nil {
			s.revealNow(rec)
			continue
		}
		s.trigger.Subscribe(t.Element, func(e IntersectionEntry) {
			s.reveal(rec, e.Time)
		})
	}
}

// State returns the state of el, and false when el is not a target.
func (s *RevealScheduler) State(el *Element) (RevealState, bool) {
	rec, ok := s.index[el]
	if !ok {
		return RevealPending, false
	}
	return rec.State, true
}

// Record returns the state record of el, or nil.
func (s *RevealScheduler) Record(el *Element) *RevealRecord {
	return s.index[el]
}

// Records returns every state record in observe order.
func (s *RevealScheduler) Records() []*RevealRecord {
	return s.records
}

// Pending returns the number of targets still waiting for visibility.
func (s *RevealScheduler) Pending() int {
	n := 0
	for _, rec := range s.records {
		if rec.State == RevealPending {
			n++
		}
	}
	return n
}

// reveal marks the target revealed and schedules each child on its own
// timer. Children are not checked for visibility again; they come in in
// ordinal order because their delays increase.
func (s *RevealScheduler) reveal(rec *RevealRecord, now time.Duration) {
	if rec.State == RevealRevealed {
		return
	}
	rec.State = RevealRevealed
	rec.RevealedAt = now
	rec.Target.AddClass(s.cfg.RevealedClass)
	Logger().Debug("reveal", "target", rec.Target.Name(), "children", len(rec.Children), "at", now)

	for _, c := range rec.Children {
		c.Timer = s.loop.AfterFunc(c.Delay, func() {
			c.Revealed = true
			c.RevealedAt = s.loop.Now()
			c.Element.AddClass(s.cfg.RevealedClass)
		})
	}
	if s.OnReveal != nil {
		s.OnReveal(rec)
	}
}

// revealNow is the fallback path: target and children are revealed
// synchronously with no delay.
func (s *RevealScheduler) revealNow(rec *RevealRecord) {
	now := s.loop.Now()
	rec.State = RevealRevealed
	rec.RevealedAt = now
	rec.Target.AddClass(s.cfg.RevealedClass)
	for _, c := range rec.Children {
		c.Revealed = true
		c.RevealedAt = now
		c.Element.AddClass(s.cfg.RevealedClass)
	}
	if s.OnReveal != nil {
		s.OnReveal(rec)
	}
}
