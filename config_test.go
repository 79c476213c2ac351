package unveil

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate = %v, want nil", err)
	}
	if cfg.WordStride != 80*time.Millisecond || cfg.WordRevealDelay != 200*time.Millisecond {
		t.Errorf("word timing = %v/%v, want 80ms/200ms", cfg.WordStride, cfg.WordRevealDelay)
	}
	if cfg.RevealThreshold != 0.08 || cfg.RevealMargin.Bottom != -40 {
		t.Errorf("reveal trigger = %v/%v, want 0.08/-40", cfg.RevealThreshold, cfg.RevealMargin.Bottom)
	}
	if cfg.CounterThreshold != 0.3 || cfg.CounterDuration != time.Second {
		t.Errorf("counter = %v/%v, want 0.3/1s", cfg.CounterThreshold, cfg.CounterDuration)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"negative word stride", func(c *Config) { c.WordStride = -1 }},
		{"negative flip delay", func(c *Config) { c.WordRevealDelay = -1 }},
		{"negative child stride", func(c *Config) { c.ChildStride = -1 }},
		{"reveal threshold above 1", func(c *Config) { c.RevealThreshold = 1.5 }},
		{"counter threshold below 0", func(c *Config) { c.CounterThreshold = -0.1 }},
		{"zero counter duration", func(c *Config) { c.CounterDuration = 0 }},
		{"negative hide delay", func(c *Config) { c.HideDelay = -time.Millisecond }},
		{"empty revealed class", func(c *Config) { c.RevealedClass = "" }},
		{"empty word class", func(c *Config) { c.WordClass = "" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: Validate = %v, want ErrInvalidConfig", tt.name, err)
		}
	}
}

func TestConfigAnimated(t *testing.T) {
	tests := []struct {
		reduced, supported, want bool
	}{
		{false, true, true},
		{true, true, false},
		{false, false, false},
		{true, false, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.ReducedMotion = tt.reduced
		cfg.VisibilitySupported = tt.supported
		if got := cfg.Animated(); got != tt.want {
			t.Errorf("Animated(reduced=%v, supported=%v) = %v, want %v", tt.reduced, tt.supported, got, tt.want)
		}
	}
}

func TestNewPageRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CounterDuration = 0
	_, err := NewPage(mustDoc(t, ""), cfg, 800, 600)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewPage err = %v, want ErrInvalidConfig", err)
	}
	if _, err := NewPage(nil, nil, 800, 600); err == nil {
		t.Error("NewPage(nil doc) err = nil")
	}
}
