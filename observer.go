package unveil

import "time"

// IntersectionEntry describes one visibility change of an observed element.
type IntersectionEntry struct {
	Target *Element
	// Ratio is the fraction of the target's area inside the (margin
	// adjusted) viewport.
	Ratio float64
	// IsIntersecting is true when the target touches the adjusted viewport
	// and Ratio reaches the observer threshold.
	IsIntersecting bool
	BoundingRect   Rect
	RootBounds     Rect
	Time           time.Duration
}

// ObserverOptions configure an IntersectionObserver.
type ObserverOptions struct {
	// Threshold is the minimum visible fraction of a target's area.
	Threshold float64
	// Margin grows or shrinks the viewport before testing.
	Margin Insets
}

type observation struct {
	target     *Element
	reported   bool
	qualifying bool
}

// IntersectionObserver reports when observed elements start or stop
// satisfying its threshold against the viewport. Notifications are pushed
// in batches from Visibility.Deliver, never polled by the caller. The first
// delivery after Observe always reports the target's state.
type IntersectionObserver struct {
	opts     ObserverOptions
	callback func(entries []IntersectionEntry, o *IntersectionObserver)

	targets      []*observation
	index        map[*Element]*observation
	disconnected bool
}

// Observe starts watching el. Observing an element twice is a no-op.
func (o *IntersectionObserver) Observe(el *Element) {
	if el == nil || o.disconnected {
		return
	}
	if _, ok := o.index[el]; ok {
		return
	}
	obs := &observation{target: el}
	o.index[el] = obs
	o.targets = append(o.targets, obs)
}

// Unobserve stops watching el.
func (o *IntersectionObserver) Unobserve(el *Element) {
	obs, ok := o.index[el]
	if !ok {
		return
	}
	delete(o.index, el)
	for i, t := range o.targets {
		if t == obs {
			copy(o.targets[i:], o.targets[i+1:])
			o.targets[len(o.targets)-1] = nil
			o.targets = o.targets[:len(o.targets)-1]
			return
		}
	}
}

// Observing reports whether el is currently watched.
func (o *IntersectionObserver) Observing(el *Element) bool {
	_, ok := o.index[el]
	return ok
}

// Len returns the number of watched elements.
func (o *IntersectionObserver) Len() int {
	return len(o.targets)
}

// Disconnect stops watching every element. A disconnected observer is
// dropped from its Visibility on the next delivery.
func (o *IntersectionObserver) Disconnect() {
	o.disconnected = true
	o.targets = nil
	o.index = make(map[*Element]*observation)
}

// intersect computes an entry for target against root.
func (o *IntersectionObserver) intersect(target *Element, root Rect, now time.Duration) IntersectionEntry {
	adjusted := root.Inset(o.opts.Margin)
	box := target.Bounds
	touching := adjusted.Intersects(box)

	ratio := 0.0
	if touching {
		if area := box.Area(); area > 0 {
			ratio = adjusted.Intersection(box).Area() / area
		} else {
			// Zero-area targets count as fully visible once they touch.
			ratio = 1
		}
	}
	return IntersectionEntry{
		Target:         target,
		Ratio:          ratio,
		IsIntersecting: touching && ratio >= o.opts.Threshold,
		BoundingRect:   box,
		RootBounds:     adjusted,
		Time:           now,
	}
}

// deliver queues entries for every target whose state changed and invokes
// the callback once with the batch, in observe order.
func (o *IntersectionObserver) deliver(root Rect, now time.Duration) {
	var entries []IntersectionEntry
	for _, obs := range o.targets {
		if obs.target.IsDisposed() {
			continue
		}
		entry := o.intersect(obs.target, root, now)
		if obs.reported && entry.IsIntersecting == obs.qualifying {
			continue
		}
		obs.reported = true
		obs.qualifying = entry.IsIntersecting
		entries = append(entries, entry)
	}
	if len(entries) > 0 {
		o.callback(entries, o)
	}
}

// Visibility is the host's push-based visibility mechanism. It owns the
// intersection observers of a page and delivers their notifications.
type Visibility struct {
	observers []*IntersectionObserver
}

// NewVisibility returns an empty observer registry.
func NewVisibility() *Visibility {
	return &Visibility{}
}

// NewObserver creates an observer delivering to callback.
func (v *Visibility) NewObserver(opts ObserverOptions, callback func([]IntersectionEntry, *IntersectionObserver)) *IntersectionObserver {
	o := &IntersectionObserver{
		opts:     opts,
		callback: callback,
		index:    make(map[*Element]*observation),
	}
	v.observers = append(v.observers, o)
	return o
}

// Deliver tests every observed element against root (the document-space
// viewport rectangle) and runs the callbacks of observers with changes.
func (v *Visibility) Deliver(root Rect, now time.Duration) {
	live := v.observers[:0]
	for _, o := range v.observers {
		if !o.disconnected {
			live = append(live, o)
		}
	}
	for i := len(live); i < len(v.observers); i++ {
		v.observers[i] = nil
	}
	v.observers = live

	// Callbacks may create observers; only the ones present now deliver.
	n := len(v.observers)
	for i := 0; i < n; i++ {
		if o := v.observers[i]; !o.disconnected {
			o.deliver(root, now)
		}
	}
}

// OneShot is a visibility subscription that fires at most once per element:
// the first qualifying notification runs the handler and unobserves the
// element for good.
type OneShot struct {
	observer *IntersectionObserver
	handlers map[*Element]func(IntersectionEntry)
}

// NewOneShot creates a one-shot trigger with its own observer.
func NewOneShot(v *Visibility, opts ObserverOptions) *OneShot {
	s := &OneShot{handlers: make(map[*Element]func(IntersectionEntry))}
	s.observer = v.NewObserver(opts, s.notify)
	return s
}

// Subscribe arms the trigger for el. Subscribing an armed element replaces
// its handler; subscribing after it fired arms it again.
func (s *OneShot) Subscribe(el *Element, fn func(IntersectionEntry)) {
	if el == nil {
		return
	}
	s.handlers[el] = fn
	s.observer.Observe(el)
}

// Armed reports whether el is still waiting for its trigger.
func (s *OneShot) Armed(el *Element) bool {
	_, ok := s.handlers[el]
	return ok
}

// Pending returns the number of armed elements.
func (s *OneShot) Pending() int {
	return len(s.handlers)
}

// notify handles each qualifying entry independently, in report order.
func (s *OneShot) notify(entries []IntersectionEntry, o *IntersectionObserver) {
	for _, e := range entries {
		if !e.IsIntersecting {
			continue
		}
		fn, ok := s.handlers[e.Target]
		if !ok {
			continue
		}
		delete(s.handlers, e.Target)
		o.Unobserve(e.Target)
		fn(e)
	}
}
