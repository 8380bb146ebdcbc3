package buckets

import (
	"testing"

	"crate/internal/config"
	"crate/internal/library"
	"crate/internal/logging"
	"crate/internal/rules"
)

const fallback = "🌍 Pop & Radio Hits"

func testConfig(policy string) *config.Config {
	cfg := config.Default()
	cfg.Genres = []config.Category{
		{Name: "🎸 Guitar Anthems"},
		{Name: "🪩 Club Life"},
		{Name: fallback},
	}
	cfg.Decades = []config.Interval{
		{Name: "📅 2020s Fresh Cuts", Start: 2020, End: 2029},
		{Name: "📼 Pre-2010 Classics", Start: 0, End: 2009},
	}
	cfg.Classifier.FallbackCategory = fallback
	cfg.Playlists.UnknownPolicy = policy
	cfg.Playlists.ExtrasName = "🧩 Extras"
	return &cfg
}

func newAggregator(t *testing.T, policy string) *Aggregator {
	t.Helper()
	cfg := testConfig(policy)
	return NewAggregator(rules.NewTable(cfg.Decades), cfg, logging.NewNop())
}

func track(id, label string, year int) library.Track {
	return library.Track{ID: id, Label: label, ReleaseYear: year}
}

func TestBuildMultiMembership(t *testing.T) {
	agg := newAggregator(t, "extras")
	tracks := []library.Track{track("t1", "A - X", 2021)}
	classifications := map[string][]string{
		"A - X": {"🎸 Guitar Anthems", "🪩 Club Life"},
	}

	m := agg.Build(tracks, classifications)

	for _, name := range []string{"📅 2020s Fresh Cuts", "🎸 Guitar Anthems", "🪩 Club Life"} {
		if got := m.Tracks(name); len(got) != 1 || got[0].ID != "t1" {
			t.Fatalf("bucket %q: expected t1, got %v", name, got)
		}
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 buckets, got %d (%v)", m.Len(), m.Names())
	}
}

func TestBuildCapsAIMemberships(t *testing.T) {
	agg := newAggregator(t, "extras")
	tracks := []library.Track{track("t1", "A - X", 0)}
	classifications := map[string][]string{
		"A - X": {"🎸 Guitar Anthems", "🪩 Club Life", fallback},
	}

	m := agg.Build(tracks, classifications)

	if m.Len() != 2 {
		t.Fatalf("expected at most 2 AI buckets, got %v", m.Names())
	}
	if len(m.Tracks(fallback)) != 0 {
		t.Fatal("third category should have been dropped")
	}
}

func TestBuildFallbackWhenUnclassified(t *testing.T) {
	agg := newAggregator(t, "extras")
	tracks := []library.Track{track("t1", "A - X", 0)}

	m := agg.Build(tracks, nil)

	if got := m.Tracks(fallback); len(got) != 1 {
		t.Fatalf("expected fallback bucket with 1 track, got %v", m.Names())
	}
}

func TestBuildZeroYearSkipsRuleBucket(t *testing.T) {
	agg := newAggregator(t, "extras")
	tracks := []library.Track{track("t1", "A - X", 0)}
	classifications := map[string][]string{"A - X": {"🪩 Club Life"}}

	m := agg.Build(tracks, classifications)

	if m.Len() != 1 || m.Names()[0] != "🪩 Club Life" {
		t.Fatalf("expected only the AI bucket, got %v", m.Names())
	}
}

func TestBuildDedupWithinBucket(t *testing.T) {
	agg := newAggregator(t, "extras")
	same := track("t1", "A - X", 2021)
	tracks := []library.Track{same, same}
	classifications := map[string][]string{"A - X": {"🎸 Guitar Anthems"}}

	m := agg.Build(tracks, classifications)

	if got := m.Tracks("🎸 Guitar Anthems"); len(got) != 1 {
		t.Fatalf("expected deduped bucket, got %d entries", len(got))
	}
	if got := m.Tracks("📅 2020s Fresh Cuts"); len(got) != 1 {
		t.Fatalf("expected deduped rule bucket, got %d entries", len(got))
	}
}

func TestBuildUnknownCategoryExtrasPolicy(t *testing.T) {
	agg := newAggregator(t, "extras")
	tracks := []library.Track{track("t1", "A - X", 0)}
	classifications := map[string][]string{"A - X": {"Vaporwave"}}

	m := agg.Build(tracks, classifications)

	if got := m.Tracks("🧩 Extras"); len(got) != 1 {
		t.Fatalf("expected extras bucket, got %v", m.Names())
	}
	if m.Discarded != 0 {
		t.Fatalf("extras policy should not count discards, got %d", m.Discarded)
	}
}

func TestBuildUnknownCategoryDiscardPolicy(t *testing.T) {
	agg := newAggregator(t, "discard")
	tracks := []library.Track{track("t1", "A - X", 0)}
	classifications := map[string][]string{"A - X": {"Vaporwave"}}

	m := agg.Build(tracks, classifications)

	if got := m.Tracks("🧩 Extras"); len(got) != 0 {
		t.Fatal("discard policy must not create an extras bucket")
	}
	if m.Discarded != 1 {
		t.Fatalf("expected 1 counted discard, got %d", m.Discarded)
	}
	// The track still lands somewhere: the fallback bucket.
	if got := m.Tracks(fallback); len(got) != 1 {
		t.Fatalf("expected fallback membership, got %v", m.Names())
	}
}

func TestBuildCanonicalOrder(t *testing.T) {
	agg := newAggregator(t, "extras")
	tracks := []library.Track{
		track("t1", "A - X", 2005),
		track("t2", "B - Y", 2021),
	}
	classifications := map[string][]string{
		"A - X": {"Vaporwave"},
		"B - Y": {"🎸 Guitar Anthems"},
	}

	m := agg.Build(tracks, classifications)

	want := []string{"📅 2020s Fresh Cuts", "📼 Pre-2010 Classics", "🎸 Guitar Anthems", "🧩 Extras"}
	got := m.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}
