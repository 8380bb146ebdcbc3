package reconcile

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"crate/internal/buckets"
	"crate/internal/config"
	"crate/internal/library"
	"crate/internal/logging"
	"crate/internal/mapping"
	"crate/internal/rules"
	"crate/internal/services"
	"crate/internal/services/spotify"
)

type fakeService struct {
	user      spotify.User
	playlists []spotify.Playlist
	contents  map[string][]string
	// forbidden playlist ids reject writes with a permission error.
	forbidden map[string]bool
	// forbiddenCreates rejects CreatePlaylist for the named playlists.
	forbiddenCreates map[string]bool
	nextID           int
	replaceCalls     int
}

func newFakeService() *fakeService {
	return &fakeService{
		user:             spotify.User{ID: "user-1"},
		contents:         make(map[string][]string),
		forbidden:        make(map[string]bool),
		forbiddenCreates: make(map[string]bool),
	}
}

func (f *fakeService) Me(context.Context) (spotify.User, error) { return f.user, nil }

func (f *fakeService) Playlists(context.Context) ([]spotify.Playlist, error) {
	return append([]spotify.Playlist(nil), f.playlists...), nil
}

func (f *fakeService) Playlist(_ context.Context, id string) (spotify.Playlist, error) {
	for _, playlist := range f.playlists {
		if playlist.ID == id {
			return playlist, nil
		}
	}
	return spotify.Playlist{}, services.Wrap(services.ErrNotFound, "spotify", "get playlist", id, nil)
}

func (f *fakeService) CreatePlaylist(_ context.Context, userID, name, _ string, _ bool) (spotify.Playlist, error) {
	if f.forbiddenCreates[name] {
		return spotify.Playlist{}, services.Wrap(services.ErrPermission, "spotify", "create playlist", name, nil)
	}
	f.nextID++
	playlist := spotify.Playlist{ID: fmt.Sprintf("pl-%d", f.nextID), Name: name, OwnerID: userID}
	f.playlists = append(f.playlists, playlist)
	f.contents[playlist.ID] = nil
	return playlist, nil
}

func (f *fakeService) ReplaceTracks(_ context.Context, playlistID string, uris []string) error {
	f.replaceCalls++
	if f.forbidden[playlistID] {
		return services.Wrap(services.ErrPermission, "spotify", "replace tracks", playlistID, nil)
	}
	f.contents[playlistID] = append([]string(nil), uris...)
	return nil
}

func emptyOverrides(t *testing.T) *mapping.Store {
	t.Helper()
	store, err := mapping.Open(filepath.Join(t.TempDir(), "playlists.json"))
	if err != nil {
		t.Fatalf("mapping.Open: %v", err)
	}
	return store
}

// bucketsFor builds a bucket map assigning each category the given tracks,
// in the listed category order.
func bucketsFor(t *testing.T, categories []string, byCategory map[string][]library.Track) *buckets.Map {
	t.Helper()
	cfg := config.Default()
	cfg.Decades = nil
	cfg.Genres = nil
	for _, category := range categories {
		cfg.Genres = append(cfg.Genres, config.Category{Name: category})
	}
	cfg.Classifier.FallbackCategory = categories[0]
	cfg.Playlists.UnknownPolicy = "extras"

	var tracks []library.Track
	classifications := make(map[string][]string)
	for _, category := range categories {
		for _, track := range byCategory[category] {
			if len(classifications[track.Label]) == 0 {
				tracks = append(tracks, track)
			}
			classifications[track.Label] = append(classifications[track.Label], category)
		}
	}

	agg := buckets.NewAggregator(rules.NewTable(nil), &cfg, logging.NewNop())
	return agg.Build(tracks, classifications)
}

func testTracks(prefix string, n int) []library.Track {
	tracks := make([]library.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, library.Track{
			ID:    fmt.Sprintf("spotify:track:%s%d", prefix, i),
			Label: fmt.Sprintf("%s - %d", prefix, i),
		})
	}
	return tracks
}

func TestSyncCreatesMissingPlaylist(t *testing.T) {
	fake := newFakeService()
	r := New(fake, emptyOverrides(t), true, "managed", logging.NewNop())
	m := bucketsFor(t, []string{"🎸 Guitar Anthems"}, map[string][]library.Track{
		"🎸 Guitar Anthems": testTracks("a", 3),
	})

	report, err := r.Sync(context.Background(), m)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Created() != 1 || report.Failed() != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	outcome := report.Outcomes[0]
	if outcome.TrackCount != 3 {
		t.Fatalf("expected 3 tracks written, got %d", outcome.TrackCount)
	}
	if got := fake.contents[outcome.PlaylistID]; len(got) != 3 || got[0] != "spotify:track:a0" {
		t.Fatalf("unexpected playlist contents %v", got)
	}
}

func TestSyncReusesByExactName(t *testing.T) {
	fake := newFakeService()
	fake.playlists = []spotify.Playlist{{ID: "pl-old", Name: "🎸 Guitar Anthems", OwnerID: "user-1"}}
	fake.contents["pl-old"] = []string{"spotify:track:stale"}
	r := New(fake, emptyOverrides(t), true, "managed", logging.NewNop())
	m := bucketsFor(t, []string{"🎸 Guitar Anthems"}, map[string][]library.Track{
		"🎸 Guitar Anthems": testTracks("a", 2),
	})

	report, err := r.Sync(context.Background(), m)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Reused() != 1 {
		t.Fatalf("expected reuse, got %+v", report.Outcomes)
	}
	if got := fake.contents["pl-old"]; len(got) != 2 || got[0] != "spotify:track:a0" {
		t.Fatalf("stale contents not replaced: %v", got)
	}
}

func TestSyncOverrideTakesPrecedence(t *testing.T) {
	fake := newFakeService()
	fake.playlists = []spotify.Playlist{
		{ID: "pl-name", Name: "🎸 Guitar Anthems", OwnerID: "user-1"},
		{ID: "pl-override", Name: "my old rock list", OwnerID: "user-1"},
	}
	overrides := emptyOverrides(t)
	if err := overrides.Set("🎸 Guitar Anthems", "pl-override"); err != nil {
		t.Fatal(err)
	}
	r := New(fake, overrides, true, "managed", logging.NewNop())
	m := bucketsFor(t, []string{"🎸 Guitar Anthems"}, map[string][]library.Track{
		"🎸 Guitar Anthems": testTracks("a", 1),
	})

	report, err := r.Sync(context.Background(), m)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Outcomes[0].PlaylistID != "pl-override" {
		t.Fatalf("expected override playlist, got %+v", report.Outcomes[0])
	}
	if len(fake.contents["pl-name"]) != 0 {
		t.Fatal("name-matched playlist should be untouched")
	}
}

func TestSyncForbiddenOverrideFallsThroughLadder(t *testing.T) {
	fake := newFakeService()
	fake.playlists = []spotify.Playlist{{ID: "pl-override", Name: "shared list", OwnerID: "someone-else"}}
	fake.forbidden["pl-override"] = true
	overrides := emptyOverrides(t)
	if err := overrides.Set("🎸 Guitar Anthems", "pl-override"); err != nil {
		t.Fatal(err)
	}
	r := New(fake, overrides, true, "managed", logging.NewNop())
	m := bucketsFor(t, []string{"🎸 Guitar Anthems"}, map[string][]library.Track{
		"🎸 Guitar Anthems": testTracks("a", 1),
	})

	report, err := r.Sync(context.Background(), m)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	outcome := report.Outcomes[0]
	if outcome.Status != StatusCreated {
		t.Fatalf("expected created after forbidden override, got %+v", outcome)
	}
	if outcome.PlaylistID == "pl-override" {
		t.Fatal("forbidden candidate should have been discarded")
	}
}

func TestSyncIdempotent(t *testing.T) {
	fake := newFakeService()
	r := New(fake, emptyOverrides(t), true, "managed", logging.NewNop())
	m := bucketsFor(t, []string{"🎸 Guitar Anthems", "🪩 Club Life"}, map[string][]library.Track{
		"🎸 Guitar Anthems": testTracks("a", 2),
		"🪩 Club Life":      testTracks("b", 2),
	})

	if _, err := r.Sync(context.Background(), m); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	snapshot := make(map[string][]string, len(fake.contents))
	for id, uris := range fake.contents {
		snapshot[id] = append([]string(nil), uris...)
	}

	report, err := r.Sync(context.Background(), m)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if report.Created() != 0 || report.Reused() != 2 {
		t.Fatalf("second sync should reuse both playlists: %+v", report.Outcomes)
	}
	if len(fake.contents) != len(snapshot) {
		t.Fatalf("playlist count changed: %d vs %d", len(fake.contents), len(snapshot))
	}
	for id, want := range snapshot {
		got := fake.contents[id]
		if len(got) != len(want) {
			t.Fatalf("playlist %s changed length", id)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("playlist %s changed at %d", id, i)
			}
		}
	}
}

func TestSyncOneFailedCategoryDoesNotBlockRest(t *testing.T) {
	fake := newFakeService()
	fake.forbiddenCreates["🎸 Guitar Anthems"] = true
	fake.forbiddenCreates["🎸 Guitar Anthems (crate)"] = true
	r := New(fake, emptyOverrides(t), true, "managed", logging.NewNop())
	m := bucketsFor(t, []string{"🎸 Guitar Anthems", "🪩 Club Life"}, map[string][]library.Track{
		"🎸 Guitar Anthems": testTracks("a", 1),
		"🪩 Club Life":      testTracks("b", 1),
	})

	report, err := r.Sync(context.Background(), m)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if report.Failed() != 1 || report.Created() != 1 {
		t.Fatalf("expected 1 failure and 1 success, got %+v", report.Outcomes)
	}
	failed := report.Outcomes[0]
	if failed.Status != StatusFailed || failed.Reason == "" {
		t.Fatalf("expected failed outcome with reason, got %+v", failed)
	}
}
