package spotify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crate/internal/library"
)

const savedTracksPageSize = 50

type savedTracksPage struct {
	Total int    `json:"total"`
	Next  string `json:"next"`
	Items []struct {
		AddedAt string `json:"added_at"`
		Track   struct {
			URI     string `json:"uri"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name        string `json:"name"`
				ReleaseDate string `json:"release_date"`
			} `json:"album"`
		} `json:"track"`
	} `json:"items"`
}

// SavedTracks walks the authenticated user's saved-track collection in
// pages of 50 and returns all entries in library order (most recently
// saved first, as the API reports them). The progress callback, when
// non-nil, fires after every page.
func (c *Client) SavedTracks(ctx context.Context, progress library.ProgressFunc) ([]library.Track, error) {
	var tracks []library.Track
	offset := 0
	for {
		var page savedTracksPage
		path := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", savedTracksPageSize, offset)
		if err := c.getJSON(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("fetch saved tracks at offset %d: %w", offset, err)
		}

		for _, item := range page.Items {
			track := library.Track{
				ID:          item.Track.URI,
				Name:        item.Track.Name,
				Album:       item.Track.Album.Name,
				ReleaseDate: item.Track.Album.ReleaseDate,
				ReleaseYear: library.ParseReleaseYear(item.Track.Album.ReleaseDate),
			}
			if added, err := time.Parse(time.RFC3339, item.AddedAt); err == nil {
				track.AddedAt = added
			}
			names := make([]string, 0, len(item.Track.Artists))
			for _, artist := range item.Track.Artists {
				names = append(names, artist.Name)
			}
			if len(names) > 0 {
				track.Artist = names[0]
			}
			track.AllArtists = strings.Join(names, ", ")
			track.Label = library.DisplayLabel(track.Artist, track.Name)
			tracks = append(tracks, track)
		}

		if progress != nil {
			progress(len(tracks), page.Total)
		}

		offset += savedTracksPageSize
		if strings.TrimSpace(page.Next) == "" || len(page.Items) == 0 || len(tracks) >= page.Total {
			break
		}
	}
	return tracks, nil
}
