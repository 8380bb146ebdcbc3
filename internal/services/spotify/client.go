package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	spotifyauth "golang.org/x/oauth2/spotify"

	"crate/internal/config"
	"crate/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// Client wraps the Spotify Web API endpoints crate needs: saved-track
// listing and playlist management.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the OAuth-backed HTTP client (useful for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Spotify client. The stored refresh token is
// exchanged for access tokens automatically via the OAuth2 token source.
func NewClient(ctx context.Context, cfg config.Spotify, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = "https://api.spotify.com/v1"
	}

	if client.httpClient == nil {
		if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
			return nil, services.Wrap(services.ErrConfiguration, "spotify", "new client", "client id, secret, and refresh token required", nil)
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     spotifyauth.Endpoint,
		}
		source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		client.httpClient = oauth2.NewClient(ctx, source)
		client.httpClient.Timeout = defaultHTTPTimeout
	}

	return client, nil
}

// User identifies the authenticated account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Playlist is the subset of remote playlist metadata crate uses.
type Playlist struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.getJSON(ctx, "/me", &user); err != nil {
		return User{}, fmt.Errorf("fetch current user: %w", err)
	}
	return user, nil
}

type apiErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		endpoint = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "spotify", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return services.Wrap(services.ErrTransient, "spotify", method, "read body", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(resp.StatusCode, payload, method, path)
	}

	if target == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) statusError(status int, payload []byte, method, path string) error {
	message := strings.TrimSpace(string(payload))
	var body apiErrorBody
	if err := json.Unmarshal(payload, &body); err == nil && body.Error.Message != "" {
		message = body.Error.Message
	}
	detail := fmt.Sprintf("http %d: %s", status, message)

	switch {
	case status == http.StatusForbidden:
		return services.Wrap(services.ErrPermission, "spotify", method+" "+path, detail, nil)
	case status == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "spotify", method+" "+path, detail, nil)
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return services.Wrap(services.ErrTransient, "spotify", method+" "+path, detail, nil)
	default:
		return fmt.Errorf("spotify: %s %s: %s", method, path, detail)
	}
}

// IsForbidden reports whether err carries the remote service's explicit
// forbidden status.
func IsForbidden(err error) bool {
	return errors.Is(err, services.ErrPermission)
}
