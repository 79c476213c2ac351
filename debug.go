package unveil

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and scheduler metrics.
// Only populated when Page.debug is true.
type debugStats struct {
	inputTime      time.Duration
	visibilityTime time.Duration
	timerTime      time.Duration
	frameTime      time.Duration
	pendingTimers  int
	pendingFrames  int
	pendingReveals int
}

// debugLog writes timing and scheduler stats to the package logger.
func (p *Page) debugLog(stats debugStats) {
	if !p.debug {
		return
	}
	total := stats.inputTime + stats.visibilityTime + stats.timerTime + stats.frameTime
	Logger().Debug("frame",
		"input", stats.inputTime,
		"visibility", stats.visibilityTime,
		"timers", stats.timerTime,
		"frames", stats.frameTime,
		"total", total,
		"pending_timers", stats.pendingTimers,
		"pending_frames", stats.pendingFrames,
		"pending_reveals", stats.pendingReveals,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// element is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(e *Element, op string) {
	if e.disposed {
		panic(fmt.Sprintf("unveil debug: %s on disposed element %q (ID was %d)", op, e.Name(), e.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(e *Element) {
	depth := 0
	for n := e.node; n != nil; n = n.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"element", e.Name(), "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if an element has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Element) {
	if n := e.NumChildren(); n > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			"element", e.Name(), "children", n, "threshold", debugMaxChildCount)
	}
}
