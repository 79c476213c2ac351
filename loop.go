package unveil

import (
	"container/heap"
	"time"
)

// Timer is a handle to a callback scheduled on a Loop. It stays inspectable
// after firing or being stopped.
type Timer struct {
	loop     *Loop
	deadline time.Duration
	seq      uint64
	fn       func()
	index    int // position in the loop heap, -1 when not queued
	fired    bool
}

// Deadline returns the loop time at which the timer fires.
func (t *Timer) Deadline() time.Duration {
	return t.deadline
}

// Pending reports whether the timer is still waiting to fire.
func (t *Timer) Pending() bool {
	return t != nil && t.index >= 0
}

// Fired reports whether the callback has run.
func (t *Timer) Fired() bool {
	return t != nil && t.fired
}

// Stop cancels the timer. It returns true if the call prevented the
// callback from running. Stopping a nil, fired or stopped timer is a no-op.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.loop.timers, t.index)
	t.index = -1
	return true
}

// timerHeap orders timers by deadline, then by scheduling order, so timers
// with equal deadlines fire in the order they were created.
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Loop is a cooperative, single-threaded scheduler with a virtual clock.
// It holds fixed-delay timers and per-frame callbacks; the host advances it
// once per frame. Nothing here blocks and nothing is safe for concurrent use.
type Loop struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
	frames []func(now time.Duration)
	swap   []func(now time.Duration)
}

// NewLoop returns a loop whose clock starts at zero.
func NewLoop() *Loop {
	return &Loop{}
}

// Now returns the current loop time.
func (l *Loop) Now() time.Duration {
	return l.now
}

// AfterFunc schedules fn to run once the loop time reaches Now()+delay.
// Negative delays are treated as zero. A zero delay still waits for the next
// timer pass; fn never runs synchronously.
func (l *Loop) AfterFunc(delay time.Duration, fn func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	l.seq++
	t := &Timer{loop: l, deadline: l.now + delay, seq: l.seq, fn: fn, index: -1}
	heap.Push(&l.timers, t)
	return t
}

// RequestFrame registers fn for the next frame pass. Callbacks requested
// while frames run are deferred to the following frame.
func (l *Loop) RequestFrame(fn func(now time.Duration)) {
	l.frames = append(l.frames, fn)
}

// PendingTimers returns the number of timers waiting to fire.
func (l *Loop) PendingTimers() int {
	return len(l.timers)
}

// PendingFrames returns the number of frame callbacks waiting for the next
// frame pass.
func (l *Loop) PendingFrames() int {
	return len(l.frames)
}

// Idle reports whether no timers or frame callbacks are waiting.
func (l *Loop) Idle() bool {
	return len(l.timers) == 0 && len(l.frames) == 0
}

// Tick moves the clock forward by dt without running anything.
func (l *Loop) Tick(dt time.Duration) {
	if dt > 0 {
		l.now += dt
	}
}

// Advance moves the clock forward by dt, fires due timers and then runs one
// frame pass.
func (l *Loop) Advance(dt time.Duration) {
	l.Tick(dt)
	l.RunTimers()
	l.RunFrames()
}

// RunTimers fires every timer whose deadline is at or before Now, in
// deadline order. Timers scheduled by a callback fire in the same pass when
// they are already due.
func (l *Loop) RunTimers() {
	for len(l.timers) > 0 && l.timers[0].deadline <= l.now {
		t := heap.Pop(&l.timers).(*Timer)
		t.fired = true
		t.fn()
	}
}

// RunFrames runs the callbacks registered before this pass, each receiving
// the current loop time as its frame timestamp.
func (l *Loop) RunFrames() {
	if len(l.frames) == 0 {
		return
	}
	run := l.frames
	l.frames = l.swap[:0]
	for i, fn := range run {
		fn(l.now)
		run[i] = nil
	}
	l.swap = run[:0]
}
