package unveil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"after scroll", "after_scroll"},
		{"  ", "unlabeled"},
		{"a/b\\c", "a_b_c"},
		{"v1.2-final", "v1.2-final"},
		{"héllo", "h_llo"},
	}
	for _, tt := range tests {
		if got := SafeFileName(tt.in); got != tt.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteSnapshot(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	p.SnapshotDir = filepath.Join(t.TempDir(), "nested")
	byID(t, p.doc, "btn").AddClass("revealed")

	path, err := p.WriteSnapshot("first")
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if !strings.HasSuffix(path, "_001_first.html") {
		t.Errorf("path = %s, want sequence and label in the name", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `class="revealed"`) {
		t.Error("snapshot does not contain the current document")
	}

	path2, err := p.WriteSnapshot("second")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path2, "_002_second.html") {
		t.Errorf("path = %s, want sequence 002", path2)
	}
}

func TestSnapshotQueuedUntilUpdate(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	p.SnapshotDir = t.TempDir()
	p.Snapshot("queued")
	entries, _ := os.ReadDir(p.SnapshotDir)
	if len(entries) != 0 {
		t.Fatalf("snapshot written before Update")
	}
	p.Update(frame)
	entries, _ = os.ReadDir(p.SnapshotDir)
	if len(entries) != 1 {
		t.Errorf("files = %d after Update, want 1", len(entries))
	}
	if len(p.snapshotQueue) != 0 {
		t.Errorf("queue length = %d after flush, want 0", len(p.snapshotQueue))
	}
}

func TestWriteSnapshotBadDir(t *testing.T) {
	p := newTestPage(t, inputHTML, nil)
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	p.SnapshotDir = file
	if _, err := p.WriteSnapshot("x"); err == nil {
		t.Error("expected error when the snapshot dir is a file")
	}
	p.Snapshot("y")
	p.Update(frame)
}
