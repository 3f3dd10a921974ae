package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestBacklogManager(t *testing.T) (BacklogManager, string) {
	t.Helper()
	dir := t.TempDir()
	return NewBacklogManager(dir), dir
}

func writeBacklog(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, BacklogFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write backlog: %v", err)
	}
}

func TestRead_ParsesItems(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	writeBacklog(t, dir, "- call the venue\n- draft the announcement\n- fix the signup form\n")

	content, err := mgr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(content.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(content.Items))
	}
	if content.Items[0].Text != "call the venue" {
		t.Fatalf("expected first item text, got %q", content.Items[0].Text)
	}
	if content.Items[2].Text != "fix the signup form" {
		t.Fatalf("expected third item text, got %q", content.Items[2].Text)
	}
}

func TestRead_AttachesSubitems(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	writeBacklog(t, dir, "- plan the workshop\n  - book the room\n  - order lunch\n- email sponsors\n")

	content, err := mgr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(content.Items) != 2 {
		t.Fatalf("expected 2 top-level items, got %d", len(content.Items))
	}
	if len(content.Items[0].Subitems) != 2 {
		t.Fatalf("expected 2 subitems, got %v", content.Items[0].Subitems)
	}
	if content.Items[0].Subitems[1] != "order lunch" {
		t.Fatalf("subitem mismatch: %v", content.Items[0].Subitems)
	}
	if len(content.Items[1].Subitems) != 0 {
		t.Fatalf("second item should have no subitems: %v", content.Items[1].Subitems)
	}
}

func TestRead_IgnoresProseAndHeadings(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	writeBacklog(t, dir, "# Backlog\n\nSome notes that are not items.\n\n- the only real item\n")

	content, err := mgr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(content.Items) != 1 || content.Items[0].Text != "the only real item" {
		t.Fatalf("expected 1 item, got %v", content.Items)
	}
}

func TestRead_LeadingSubitemWithoutParentIsDropped(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	writeBacklog(t, dir, "  - orphaned subitem\n- first real item\n")

	content, err := mgr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(content.Items) != 1 || content.Items[0].Text != "first real item" {
		t.Fatalf("expected orphan dropped, got %v", content.Items)
	}
}

func TestRead_MissingFile(t *testing.T) {
	mgr, _ := newTestBacklogManager(t)

	_, err := mgr.Read()
	if err == nil {
		t.Fatal("expected error for missing backlog file")
	}
	if !strings.Contains(err.Error(), "BACKLOG.md not found") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestIsClear(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty file", "", true},
		{"sentinel only", BacklogSentinel, true},
		{"sentinel with whitespace", "  all done!\n\n", true},
		{"one item", "- something to do\n", false},
		{"prose only", "nothing structured here", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, dir := newTestBacklogManager(t)
			writeBacklog(t, dir, tt.content)

			content, err := mgr.Read()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if content.IsClear() != tt.want {
				t.Errorf("IsClear() = %v for %q, want %v", content.IsClear(), tt.content, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	writeBacklog(t, dir, "- top one\n  - sub one\n- top two\n\nloose prose\n")

	// Subitems count toward the total.
	count, err := mgr.Count()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestCount_MissingFileIsZero(t *testing.T) {
	mgr, _ := newTestBacklogManager(t)

	count, err := mgr.Count()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestCount_SentinelIsZero(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	writeBacklog(t, dir, BacklogSentinel+"\n")

	count, err := mgr.Count()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for sentinel, got %d", count)
	}
}

func TestClear(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	writeBacklog(t, dir, "- pending item one\n- pending item two\n")

	if err := mgr.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, BacklogFileName))
	if err != nil {
		t.Fatalf("backlog file missing after clear: %v", err)
	}
	if string(data) != BacklogSentinel {
		t.Fatalf("expected sentinel content, got %q", string(data))
	}

	content, err := mgr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !content.IsClear() {
		t.Fatal("backlog should be clear after Clear")
	}
	if len(content.Items) != 0 {
		t.Fatalf("expected no items after clear, got %v", content.Items)
	}
}

func TestClear_CreatesFileWhenMissing(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)

	if err := mgr.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, BacklogFileName)); err != nil {
		t.Fatalf("expected backlog file to exist: %v", err)
	}
}

func TestPath(t *testing.T) {
	mgr, dir := newTestBacklogManager(t)
	want := filepath.Join(dir, "BACKLOG.md")
	if mgr.Path() != want {
		t.Fatalf("Path() = %q, want %q", mgr.Path(), want)
	}
}
