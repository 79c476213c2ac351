package unveil

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Script errors.
var (
	// ErrEmptyScript is returned (wrapped) by LoadScript for a script
	// without steps.
	ErrEmptyScript = errors.New("unveil: script has no steps")
	// ErrUnknownAction is returned (wrapped) by LoadScript for a step whose
	// action is not recognized.
	ErrUnknownAction = errors.New("unveil: unknown script action")
	// ErrScriptTimeout is returned by Page.RunScript when the script did not
	// finish within the frame limit.
	ErrScriptTimeout = errors.New("unveil: script did not finish")
)

// scriptStep represents a single action in a script.
//
//	scroll    Y, optional Duration (ms): scroll the viewport to Y
//	click     X, Y: press and release at viewport coordinates
//	move      X, Y: move the pointer with the button up
//	wait      Frames or MS: idle for a number of frames or milliseconds
//	snapshot  Label: write the document HTML to the snapshot directory
type scriptStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	MS       float64 `json:"ms,omitempty"`
}

// script is the top-level JSON structure for a script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var knownActions = map[string]bool{
	"scroll": true, "click": true, "move": true, "wait": true, "snapshot": true,
}

// ScriptRunner sequences scrolling, injected input and snapshots across
// frames for headless runs. Attach to a Page via SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	waitUntil time.Duration
	done      bool
}

// LoadScript parses a JSON script and returns a ScriptRunner ready to be
// attached to a Page via SetScriptRunner.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	for i, st := range s.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: %w %q", i, ErrUnknownAction, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the page. The runner's step
// method is called from Page.Update before input is processed.
func (p *Page) SetScriptRunner(runner *ScriptRunner) {
	p.runner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Remaining returns the number of steps not yet started.
func (r *ScriptRunner) Remaining() int {
	return len(r.steps) - r.cursor
}

// step advances the runner by one frame. Called from Page.Update.
func (r *ScriptRunner) step(p *Page) {
	if r.done {
		return
	}
	// Wait for pending injections and scroll animations to drain.
	if len(p.injectQueue) > 0 || p.viewport.Scrolling() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if p.loop.Now() < r.waitUntil {
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		p.Snapshot(st.Label)
	case "click":
		p.InjectClick(st.X, st.Y)
	case "move":
		p.InjectMove(st.X, st.Y)
	case "scroll":
		p.ScrollTo(st.Y, msDuration(st.Duration))
	case "wait":
		switch {
		case st.Frames > 0:
			r.waitCount = st.Frames - 1 // this frame counts as one
		case st.MS > 0:
			r.waitUntil = p.loop.Now() + msDuration(st.MS)
		}
	}
	Logger().Debug("script step", "index", r.cursor-1, "action", st.Action, "frame", p.frame)
}

// RunScript attaches runner and calls Update with a fixed dt until the
// script is done, or returns ErrScriptTimeout after maxFrames frames. It
// returns the number of frames run.
func (p *Page) RunScript(runner *ScriptRunner, dt time.Duration, maxFrames int) (int, error) {
	p.SetScriptRunner(runner)
	for n := 1; n <= maxFrames; n++ {
		p.Update(dt)
		if runner.Done() {
			return n, nil
		}
	}
	return maxFrames, fmt.Errorf("run script: %w after %d frames", ErrScriptTimeout, maxFrames)
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
