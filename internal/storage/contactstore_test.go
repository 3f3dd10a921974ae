package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecrawford/sift/pkg/models"
)

func newTestContactStore(t *testing.T) (ContactStore, string) {
	t.Helper()
	dir := t.TempDir()
	return NewContactStore(dir), filepath.Join(dir, CRMDirName)
}

func sampleContactMeta(name string) models.ContactMeta {
	return models.ContactMeta{
		Name:                 name,
		CreatedDate:          "2025-01-15",
		RelationshipStrength: "new",
		Company:              "Globex",
		Location:             "Berlin",
	}
}

func TestContactCreateAndList(t *testing.T) {
	store, _ := newTestContactStore(t)
	meta := sampleContactMeta("Dana Whitfield")
	body := "\n\n# Dana Whitfield\n\n## Notes\nMet at the observability meetup.\n"

	if err := store.Create("Dana_Whitfield.md", meta, body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contacts, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	got := contacts[0]
	if got.Name != "Dana Whitfield" || got.Company != "Globex" || got.Location != "Berlin" {
		t.Fatalf("meta mismatch: %+v", got.ContactMeta)
	}
	if got.CreatedDate != "2025-01-15" || got.RelationshipStrength != "new" {
		t.Fatalf("stamps mismatch: %+v", got.ContactMeta)
	}
	if got.Filename != "Dana_Whitfield.md" {
		t.Fatalf("expected filename, got %q", got.Filename)
	}
	if !strings.Contains(got.BodyExcerpt, "observability meetup") {
		t.Fatalf("body excerpt missing content: %q", got.BodyExcerpt)
	}
}

func TestContactCreate_DuplicateFilename(t *testing.T) {
	store, _ := newTestContactStore(t)
	meta := sampleContactMeta("Dana Whitfield")

	if err := store.Create("Dana_Whitfield.md", meta, "\n\nfirst"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := store.Create("Dana_Whitfield.md", meta, "\n\nsecond")
	if err == nil {
		t.Fatal("expected error for duplicate filename")
	}
	if !strings.Contains(err.Error(), "contact already exists") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestContactList_MissingDirIsEmpty(t *testing.T) {
	store := NewContactStore(t.TempDir())
	contacts, err := store.List()
	if err != nil {
		t.Fatalf("missing directory should not error: %v", err)
	}
	if len(contacts) != 0 {
		t.Fatalf("expected 0 contacts, got %d", len(contacts))
	}
}

func TestContactList_SkipsMalformedFiles(t *testing.T) {
	store, dir := newTestContactStore(t)
	if err := store.Create("good.md", sampleContactMeta("Good Contact"), "\n\nbody"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	os.WriteFile(filepath.Join(dir, "prose.md"), []byte("no frontmatter here"), 0o644)
	os.WriteFile(filepath.Join(dir, "nameless.md"), []byte("---\ncompany: Initech\n---\nbody"), 0o644)

	contacts, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Name != "Good Contact" {
		t.Fatalf("expected only the good contact, got %+v", contacts)
	}
}

func TestContactList_SortedByFilename(t *testing.T) {
	store, _ := newTestContactStore(t)
	for _, name := range []string{"Zoe Quinn", "Amir Patel"} {
		filename := strings.ReplaceAll(name, " ", "_") + ".md"
		if err := store.Create(filename, sampleContactMeta(name), "\n\nbody"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	contacts, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contacts[0].Name != "Amir Patel" || contacts[1].Name != "Zoe Quinn" {
		t.Fatalf("contacts not sorted: %+v", contacts)
	}
}

func TestContactUpdate_RewritesFrontmatterKeepsBody(t *testing.T) {
	store, _ := newTestContactStore(t)
	meta := sampleContactMeta("Dana Whitfield")
	body := "\n\n# Dana Whitfield\n\n## Notes\nLong-standing notes survive updates.\n"
	if err := store.Create("Dana_Whitfield.md", meta, body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta.Email = "dana@globex.com"
	meta.RelationshipStrength = "strong"
	if err := store.Update("Dana_Whitfield.md", meta); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contacts, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := contacts[0]
	if got.Email != "dana@globex.com" || got.RelationshipStrength != "strong" {
		t.Fatalf("update not applied: %+v", got.ContactMeta)
	}
	if !strings.Contains(got.BodyExcerpt, "Long-standing notes survive updates.") {
		t.Fatalf("body lost on update: %q", got.BodyExcerpt)
	}
}

func TestContactUpdate_NotFound(t *testing.T) {
	store, _ := newTestContactStore(t)
	err := store.Update("nope.md", sampleContactMeta("Nobody"))
	if err == nil {
		t.Fatal("expected error for missing contact")
	}
	if !strings.Contains(err.Error(), "contact not found") {
		t.Fatalf("unexpected error message: %v", err)
	}
}
