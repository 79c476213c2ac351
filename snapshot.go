package unveil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshot queues a labeled snapshot to be written at the end of the
// current Update. The file holds the serialized document and is written to
// SnapshotDir with a timestamped filename.
func (p *Page) Snapshot(label string) {
	p.snapshotQueue = append(p.snapshotQueue, label)
}

// flushSnapshots writes every queued snapshot. Called at the end of
// Page.Update.
func (p *Page) flushSnapshots() {
	if len(p.snapshotQueue) == 0 {
		return
	}
	for _, label := range p.snapshotQueue {
		if _, err := p.WriteSnapshot(label); err != nil {
			Logger().Error("snapshot", "label", label, "err", err)
		}
	}
	p.snapshotQueue = p.snapshotQueue[:0]
}

// WriteSnapshot writes the serialized document right away and returns the
// file path.
func (p *Page) WriteSnapshot(label string) (string, error) {
	markup, err := p.doc.HTML()
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	if err := os.MkdirAll(p.SnapshotDir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: mkdir %s: %w", p.SnapshotDir, err)
	}
	p.snapshotSeq++
	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%03d_%s.html", stamp, p.snapshotSeq, SafeFileName(label))
	path := filepath.Join(p.SnapshotDir, name)
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		return "", fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	Logger().Debug("snapshot written", "path", path, "frame", p.frame)
	return path, nil
}

// SafeFileName replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func SafeFileName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
