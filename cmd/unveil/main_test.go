package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// runCLI parses args and runs the selected command, returning its stdout.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var cli CLI
	var stdout, stderr bytes.Buffer
	parser, err := newParser(&cli, kong.Writers(&stdout, &stderr), kong.Exit(func(code int) {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}))
	if err != nil {
		t.Fatalf("newParser: %v", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q): %v", args, err)
	}
	if err := ctx.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return stdout.String()
}

func TestTokenizeUnits(t *testing.T) {
	got := runCLI(t, "tokenize", "--units", "<b>a</b> b")
	want := "0\t0s\t3\ta\n1\t80ms\t9\tb\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTokenizeMarkup(t *testing.T) {
	got := runCLI(t, "tokenize", "--class", "w", "--stride", "10ms", "x y")
	want := `<span class="w" style="transition-delay:0ms">x</span> ` +
		`<span class="w" style="transition-delay:10ms">y</span>` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConfigFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unveil.json")
	if err := os.WriteFile(path, []byte(`{"stride": "25ms"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := runCLI(t, "--config", path, "tokenize", "--units", "a b")
	if !strings.Contains(got, "1\t25ms\t2\tb") {
		t.Errorf("output = %q, want the stride from the config file", got)
	}
}

func TestVersion(t *testing.T) {
	if got := runCLI(t, "version"); got != "unveil "+version+"\n" {
		t.Errorf("output = %q", got)
	}
}
