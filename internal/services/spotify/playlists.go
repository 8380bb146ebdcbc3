package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	playlistsPageSize = 50
	// The playlist tracks endpoint accepts at most 100 URIs per request.
	trackChunkSize = 100
)

type playlistsPage struct {
	Total int    `json:"total"`
	Next  string `json:"next"`
	Items []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Owner struct {
			ID string `json:"id"`
		} `json:"owner"`
	} `json:"items"`
}

// Playlists returns every playlist visible to the authenticated user.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist
	offset := 0
	for {
		var page playlistsPage
		path := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", playlistsPageSize, offset)
		if err := c.getJSON(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("fetch playlists at offset %d: %w", offset, err)
		}
		for _, item := range page.Items {
			playlists = append(playlists, Playlist{ID: item.ID, Name: item.Name, OwnerID: item.Owner.ID})
		}
		offset += playlistsPageSize
		if strings.TrimSpace(page.Next) == "" || len(page.Items) == 0 || len(playlists) >= page.Total {
			break
		}
	}
	return playlists, nil
}

type playlistBody struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner struct {
		ID string `json:"id"`
	} `json:"owner"`
}

// Playlist fetches one playlist by ID.
func (c *Client) Playlist(ctx context.Context, id string) (Playlist, error) {
	var body playlistBody
	path := "/playlists/" + url.PathEscape(id) + "?fields=id,name,owner(id)"
	if err := c.getJSON(ctx, path, &body); err != nil {
		return Playlist{}, fmt.Errorf("fetch playlist %s: %w", id, err)
	}
	return Playlist{ID: body.ID, Name: body.Name, OwnerID: body.Owner.ID}, nil
}

// CreatePlaylist creates a new playlist owned by userID.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (Playlist, error) {
	payload := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}
	var body playlistBody
	path := "/users/" + url.PathEscape(userID) + "/playlists"
	if err := c.doJSON(ctx, "POST", path, payload, &body); err != nil {
		return Playlist{}, fmt.Errorf("create playlist %q: %w", name, err)
	}
	return Playlist{ID: body.ID, Name: body.Name, OwnerID: userID}, nil
}

// ReplaceTracks overwrites the playlist's contents with uris. The first
// chunk is a replace, every following chunk an append, so the result is
// exactly uris regardless of the playlist's prior state. An empty uris
// slice clears the playlist.
func (c *Client) ReplaceTracks(ctx context.Context, playlistID string, uris []string) error {
	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"

	first := uris
	if len(first) > trackChunkSize {
		first = uris[:trackChunkSize]
	}
	if first == nil {
		first = []string{}
	}
	if err := c.doJSON(ctx, "PUT", path, map[string]any{"uris": first}, nil); err != nil {
		return fmt.Errorf("replace tracks in %s: %w", playlistID, err)
	}

	for start := trackChunkSize; start < len(uris); start += trackChunkSize {
		end := start + trackChunkSize
		if end > len(uris) {
			end = len(uris)
		}
		if err := c.doJSON(ctx, "POST", path, map[string]any{"uris": uris[start:end]}, nil); err != nil {
			return fmt.Errorf("append tracks to %s: %w", playlistID, err)
		}
	}
	return nil
}
