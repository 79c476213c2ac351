// Package unveil animates the reveal of a marketing page's content as the
// reader scrolls: a headline whose words fade in one after another, blocks
// that appear the first time they enter the viewport with their children
// cascading in behind them, and statistics that count up from zero.
//
// The page is modeled headlessly. A [Document] wraps an HTML tree parsed
// with golang.org/x/net/html; a [Viewport] scrolls over it; a [Loop]
// provides timers and frame callbacks on a virtual clock; and [Visibility]
// delivers intersection notifications. A host drives everything through
// [Page.Update], which makes every behavior deterministic under test.
//
// # Quick start
//
//	doc, _ := unveil.ParseDocumentString(markup)
//	page, err := unveil.NewPage(doc, unveil.DefaultConfig(), 1280, 800)
//	if err != nil {
//		return err
//	}
//	if _, err := page.Mount(); err != nil {
//		return err
//	}
//	for !page.Loop().Idle() {
//		page.Update(time.Second / 60)
//	}
//
// For a window, see the ebitenhost package; for a terminal, termhost.
//
// # Components
//
// [Tokenizer] wraps every word outside tags in a span carrying its own
// transition delay. [HeadlineReveal] applies it to the heading once and
// flips all words to revealed after a single delay.
//
// [RevealScheduler] reveals each target the first time it is visible
// enough and schedules its children on fixed, increasing delays. Each
// target is revealed exactly once.
//
// [CounterAnimator] interpolates a displayed integer from zero to its
// target with a cubic ease-out (via [gween]), one step per frame.
//
// With [Config.ReducedMotion] set, or without visibility support, nothing
// animates: every target is revealed and every counter shows its final value
// at once.
//
// # Selection
//
// Components never select elements themselves. [Page.Mount] evaluates the
// configured [Selectors] with [cascadia] and hands each component its
// collection.
//
// # Scripting
//
// [LoadScript] reads a JSON script of scroll, click, move, wait and
// snapshot steps. [Page.RunScript] plays it headlessly:
//
//	{"steps": [
//		{"action": "scroll", "y": 900, "duration": 400},
//		{"action": "wait", "ms": 1200},
//		{"action": "snapshot", "label": "after-stats"}
//	]}
//
// [gween]: https://github.com/tanema/gween
// [cascadia]: https://github.com/andybalholm/cascadia
package unveil
