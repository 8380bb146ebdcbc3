package library

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Track is one saved item from the user's library. Immutable once fetched:
// the pipeline only reads tracks, never mutates them.
type Track struct {
	// ID is the stable, globally unique track URI used when writing
	// playlist contents.
	ID string `json:"id"`
	// Label is the "Artist - Title" display string. It is the cache and
	// classification key for the track.
	Label       string `json:"label"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	AllArtists  string `json:"all_artists"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date"`
	// ReleaseYear is parsed from ReleaseDate; 0 means unknown.
	ReleaseYear int       `json:"release_year"`
	AddedAt     time.Time `json:"added_at"`
}

// DisplayLabel builds the canonical "Artist - Title" label.
func DisplayLabel(artist, title string) string {
	artist = strings.TrimSpace(artist)
	if artist == "" {
		artist = "Unknown"
	}
	return artist + " - " + strings.TrimSpace(title)
}

// ParseReleaseYear extracts the year from a release date string, which may be
// "YYYY", "YYYY-MM", or "YYYY-MM-DD". Returns 0 when unparsable.
func ParseReleaseYear(releaseDate string) int {
	releaseDate = strings.TrimSpace(releaseDate)
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year < 0 {
		return 0
	}
	return year
}

// ProgressFunc reports incremental fetch progress as (done, total).
type ProgressFunc func(done, total int)

// Source produces the user's saved tracks. Implementations page through the
// remote service and report progress per page.
type Source interface {
	SavedTracks(ctx context.Context, progress ProgressFunc) ([]Track, error)
}

// Labels returns the distinct display labels of tracks in first-seen order.
func Labels(tracks []Track) []string {
	seen := make(map[string]struct{}, len(tracks))
	labels := make([]string, 0, len(tracks))
	for _, track := range tracks {
		if _, ok := seen[track.Label]; ok {
			continue
		}
		seen[track.Label] = struct{}{}
		labels = append(labels, track.Label)
	}
	return labels
}
