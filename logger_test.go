package unveil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// captureLogs routes the package logger into a buffer for the rest of the
// test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestLoggerDefaultSilent(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled, want silent")
	}
}

func TestSetLogger(t *testing.T) {
	buf := captureLogs(t)
	Logger().Info("hello", "k", 1)
	if !strings.Contains(buf.String(), "msg=hello k=1") {
		t.Errorf("log output = %q", buf.String())
	}
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}

func TestMountLogsSummary(t *testing.T) {
	buf := captureLogs(t)
	newLandingPage(t, nil, 1280)
	out := buf.String()
	if !strings.Contains(out, `msg="page mounted"`) {
		t.Fatalf("no mount summary in %q", out)
	}
	if !strings.Contains(out, "reveals=1") || !strings.Contains(out, "counters=2") {
		t.Errorf("mount summary missing counts: %q", out)
	}
}
