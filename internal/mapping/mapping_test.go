package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"crate/internal/services"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "playlists.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", store.Len())
	}
}

func TestOpenMalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSetRemoveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Set("🎸 Guitar Anthems", "pl-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("🪩 Club Life", "pl-2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if id, ok := reloaded.Lookup("🎸 Guitar Anthems"); !ok || id != "pl-1" {
		t.Fatalf("expected pl-1, got %q (%v)", id, ok)
	}
	entries := reloaded.List()
	if len(entries) != 2 || entries[0].Category != "🎸 Guitar Anthems" {
		t.Fatalf("unexpected list %v", entries)
	}

	if err := reloaded.Remove("🎸 Guitar Anthems"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := reloaded.Remove("never existed"); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	final, err := Open(path)
	if err != nil {
		t.Fatalf("reload after remove: %v", err)
	}
	if final.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", final.Len())
	}
}

func TestSetRejectsEmptyValues(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "playlists.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Set("", "pl-1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := store.Set("🎸 Guitar Anthems", " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
