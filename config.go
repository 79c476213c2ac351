package unveil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned (wrapped) by Config.Validate.
var ErrInvalidConfig = errors.New("unveil: invalid config")

// Default timing and threshold values.
const (
	DefaultWordStride        = 80 * time.Millisecond
	DefaultWordRevealDelay   = 200 * time.Millisecond
	DefaultChildStride       = 80 * time.Millisecond
	DefaultRevealThreshold   = 0.08
	DefaultRevealBottomInset = -40
	DefaultCounterThreshold  = 0.3
	DefaultCounterDuration   = 1000 * time.Millisecond
	DefaultHideDelay         = 150 * time.Millisecond
	DefaultNavScrollOffset   = 80
	DefaultDesktopWidth      = 1024
	DefaultTiltMaxDegrees    = 3
	DefaultTiltPerspective   = 600
)

// Selectors are the marker selectors Mount uses to hand element collections
// to each component. The components themselves never select anything.
type Selectors struct {
	Heading     string
	Reveal      string
	RevealChild string
	Counter     string

	// CounterTargetAttr and CounterSuffixAttr name the attributes carrying a
	// counter's target value and its optional display suffix.
	CounterTargetAttr string
	CounterSuffixAttr string

	Nav             string
	NavToggle       string
	NavLinks        string
	FloatingButtons string
	// HeroAnchors are tried in order; the first match anchors the floating
	// buttons.
	HeroAnchors     []string
	ServiceCard     string
	FAQQuestion     string
	FAQItem         string
	FAQSection      string
	DropdownTrigger string
	Dropdown        string
}

// Config is built once at startup and passed by pointer into every
// component. Nothing reads package-level state instead.
type Config struct {
	// WordStride is the per-word delay step of the headline tokenizer.
	WordStride time.Duration
	// WordRevealDelay is the single delay after which every word unit of the
	// headline is flipped to revealed at once.
	WordRevealDelay time.Duration
	// ChildStride is the per-child delay step of a revealed target.
	ChildStride time.Duration

	// RevealThreshold is the visible fraction of a target's area that fires
	// its reveal. RevealMargin adjusts the viewport used for the test.
	RevealThreshold float64
	RevealMargin    Insets

	CounterThreshold float64
	CounterMargin    Insets
	CounterDuration  time.Duration

	// ReducedMotion disables all staggering and animation. It is read once;
	// changing it after components are built has no effect on them.
	ReducedMotion bool
	// VisibilitySupported reports whether the host delivers intersection
	// notifications. When false every reveal and counter completes
	// synchronously.
	VisibilitySupported bool

	HideDelay         time.Duration
	NavScrollOffset   float64
	DesktopWidth      float64
	TiltMaxDegrees    float64
	TiltPerspective   float64
	WordClass         string
	RevealedClass     string
	ScrollProgressVar string

	Selectors Selectors
}

// DefaultConfig returns the configuration used by the marketing page.
func DefaultConfig() *Config {
	return &Config{
		WordStride:          DefaultWordStride,
		WordRevealDelay:     DefaultWordRevealDelay,
		ChildStride:         DefaultChildStride,
		RevealThreshold:     DefaultRevealThreshold,
		RevealMargin:        Insets{Bottom: DefaultRevealBottomInset},
		CounterThreshold:    DefaultCounterThreshold,
		CounterDuration:     DefaultCounterDuration,
		VisibilitySupported: true,
		HideDelay:           DefaultHideDelay,
		NavScrollOffset:     DefaultNavScrollOffset,
		DesktopWidth:        DefaultDesktopWidth,
		TiltMaxDegrees:      DefaultTiltMaxDegrees,
		TiltPerspective:     DefaultTiltPerspective,
		WordClass:           "hero-word",
		RevealedClass:       "revealed",
		ScrollProgressVar:   "--scroll-progress",
		Selectors: Selectors{
			Heading:           "#hero-heading",
			Reveal:            ".reveal",
			RevealChild:       ".reveal-child",
			Counter:           ".stat-number[data-target]",
			CounterTargetAttr: "data-target",
			CounterSuffixAttr: "data-suffix",
			Nav:               ".nav",
			NavToggle:         "#nav-toggle",
			NavLinks:          "#nav-links",
			FloatingButtons:   ".floating-btns",
			HeroAnchors:       []string{".hero-buttons", ".hero-cta", ".hero-btns", ".hero"},
			ServiceCard:       ".service-card",
			FAQQuestion:       ".faq-question",
			FAQItem:           ".faq-item",
			FAQSection:        ".faq-section",
			DropdownTrigger:   ".nav-dropdown-trigger",
			Dropdown:          ".nav-dropdown",
		},
	}
}

// Animated reports whether staggered and animated behavior is enabled, i.e.
// reduced motion is off and the host can detect visibility.
func (c *Config) Animated() bool {
	return !c.ReducedMotion && c.VisibilitySupported
}

// Validate checks value ranges. The returned error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.WordStride < 0:
		return fmt.Errorf("%w: negative word stride %v", ErrInvalidConfig, c.WordStride)
	case c.WordRevealDelay < 0:
		return fmt.Errorf("%w: negative word reveal delay %v", ErrInvalidConfig, c.WordRevealDelay)
	case c.ChildStride < 0:
		return fmt.Errorf("%w: negative child stride %v", ErrInvalidConfig, c.ChildStride)
	case c.RevealThreshold < 0 || c.RevealThreshold > 1:
		return fmt.Errorf("%w: reveal threshold %v outside [0, 1]", ErrInvalidConfig, c.RevealThreshold)
	case c.CounterThreshold < 0 || c.CounterThreshold > 1:
		return fmt.Errorf("%w: counter threshold %v outside [0, 1]", ErrInvalidConfig, c.CounterThreshold)
	case c.CounterDuration <= 0:
		return fmt.Errorf("%w: counter duration must be positive, got %v", ErrInvalidConfig, c.CounterDuration)
	case c.HideDelay < 0:
		return fmt.Errorf("%w: negative hide delay %v", ErrInvalidConfig, c.HideDelay)
	case c.RevealedClass == "":
		return fmt.Errorf("%w: empty revealed class", ErrInvalidConfig)
	case c.WordClass == "":
		return fmt.Errorf("%w: empty word class", ErrInvalidConfig)
	}
	return nil
}
