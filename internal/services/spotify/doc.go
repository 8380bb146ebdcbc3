// Package spotify implements the Spotify Web API client used to read the
// saved-track library and to create and rewrite playlists. Authentication
// uses a long-lived refresh token exchanged through the standard OAuth2
// token source; callers never see access tokens.
package spotify
