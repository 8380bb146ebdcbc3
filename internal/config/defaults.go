package config

const (
	defaultDataDir              = "~/.local/share/crate"
	defaultLogDir               = "~/.local/share/crate/logs"
	defaultSpotifyBaseURL       = "https://api.spotify.com/v1"
	defaultGeminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel          = "gemini-2.0-flash"
	defaultGeminiTimeoutSeconds = 60
	defaultBatchSize            = 10
	defaultMaxAttempts          = 5
	defaultRetryDelaySeconds    = 10
	defaultBatchPauseSeconds    = 4
	defaultFallbackCategory     = "🌍 Pop & Radio Hits"
	defaultUnknownPolicy        = "extras"
	defaultExtrasName           = "✨ Extras"
	defaultPlaylistDescription  = "Managed by crate"
	defaultNotifyTimeout        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Spotify: Spotify{
			BaseURL: defaultSpotifyBaseURL,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeoutSeconds,
		},
		Classifier: Classifier{
			BatchSize:         defaultBatchSize,
			MaxAttempts:       defaultMaxAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			BatchPauseSeconds: defaultBatchPauseSeconds,
			FallbackCategory:  defaultFallbackCategory,
		},
		Playlists: Playlists{
			Public:        true,
			Description:   defaultPlaylistDescription,
			UnknownPolicy: defaultUnknownPolicy,
			ExtrasName:    defaultExtrasName,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Genres:  defaultGenres(),
		Decades: defaultDecades(),
	}
}

func defaultGenres() []Category {
	return []Category{
		{Name: "🤪 Memes & Novelty", Hint: "cartoon themes, troll songs, meme anthems, comedy and novelty tracks"},
		{Name: "🎧 Indie Corner", Hint: "indie rock, indie pop, alternative"},
		{Name: "🌍 Pop & Radio Hits", Hint: "mainstream pop, international radio hits, synthpop"},
		{Name: "🎸 Guitar Anthems", Hint: "classic rock, hard rock, metal (not indie)"},
		{Name: "🏙️ Concrete Jungle", Hint: "rap, trap, hip hop, R&B, urban"},
		{Name: "🪩 Club Life", Hint: "house, techno, EDM, dance"},
		{Name: "💔 Deep & Emotional", Hint: "sad songs, emotional ballads"},
		{Name: "⚡ High Voltage", Hint: "high-energy workout tracks that fit no other category"},
		{Name: "🍃 Chill State of Mind", Hint: "relaxing music, lo-fi, acoustic, background listening"},
	}
}

func defaultDecades() []Interval {
	return []Interval{
		{Name: "📅 2020s Fresh Cuts", Start: 2020, End: 0},
		{Name: "🗓️ 2010s Throwbacks", Start: 2010, End: 2019},
		{Name: "📼 Pre-2010 Classics", Start: 0, End: 2009},
	}
}
