package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"crate/internal/buckets"
	"crate/internal/library"
	"crate/internal/logging"
	"crate/internal/mapping"
	"crate/internal/services"
	"crate/internal/services/spotify"
)

// Service is the remote playlist surface the reconciler drives. Satisfied by
// *spotify.Client.
type Service interface {
	Me(ctx context.Context) (spotify.User, error)
	Playlists(ctx context.Context) ([]spotify.Playlist, error)
	Playlist(ctx context.Context, id string) (spotify.Playlist, error)
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (spotify.Playlist, error)
	ReplaceTracks(ctx context.Context, playlistID string, uris []string) error
}

// Reconciler applies a bucket map to the user's remote playlists: one
// playlist per non-empty bucket, contents fully replaced so re-running
// against an unchanged bucket map leaves the remote state unchanged.
type Reconciler struct {
	service     Service
	overrides   *mapping.Store
	public      bool
	description string
	logger      *slog.Logger
}

// New builds a Reconciler. overrides may be empty but not nil.
func New(service Service, overrides *mapping.Store, public bool, description string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		service:     service,
		overrides:   overrides,
		public:      public,
		description: description,
		logger:      logging.NewComponentLogger(logger, "reconcile"),
	}
}

// candidate is one playlist resolution the ladder may commit to. Create
// candidates defer the remote create until the ladder reaches them.
type candidate struct {
	status  string
	resolve func(ctx context.Context) (spotify.Playlist, error)
}

// Sync walks the bucket map in order and reconciles each non-empty bucket.
// A category whose every candidate fails the permission check is recorded as
// failed and the remaining categories still run; only errors that make any
// further work pointless (listing playlists, resolving the user) abort.
func (r *Reconciler) Sync(ctx context.Context, m *buckets.Map) (*Report, error) {
	user, err := r.service.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	existing, err := r.service.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	byName := make(map[string][]spotify.Playlist)
	for _, playlist := range existing {
		byName[playlist.Name] = append(byName[playlist.Name], playlist)
	}

	report := &Report{}
	for _, category := range m.Names() {
		tracks := m.Tracks(category)
		if len(tracks) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome := r.syncCategory(ctx, category, trackIDs(tracks), byName, user.ID)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Status == StatusFailed {
			r.logger.Warn("category sync failed",
				logging.String("category", category),
				logging.String("reason", outcome.Reason),
				logging.String(logging.FieldImpact, "playlist left unchanged"))
			continue
		}
		r.logger.Info("category synced",
			logging.String("category", category),
			logging.String("playlist_id", outcome.PlaylistID),
			logging.Int("tracks", outcome.TrackCount),
			logging.String("outcome", outcome.Status))
	}
	return report, nil
}

// syncCategory runs the resolution ladder for one bucket: override id, then
// exact-name matches, then a fresh playlist, then a fresh playlist under a
// disambiguated name. The replace write doubles as the writability check; a
// forbidden write discards the candidate and moves down the ladder.
func (r *Reconciler) syncCategory(ctx context.Context, category string, uris []string, byName map[string][]spotify.Playlist, userID string) Outcome {
	var ladder []candidate

	if overrideID, ok := r.overrides.Lookup(category); ok {
		ladder = append(ladder, candidate{status: StatusReused, resolve: func(ctx context.Context) (spotify.Playlist, error) {
			return r.service.Playlist(ctx, overrideID)
		}})
	}
	for _, match := range byName[category] {
		playlist := match
		ladder = append(ladder, candidate{status: StatusReused, resolve: func(context.Context) (spotify.Playlist, error) {
			return playlist, nil
		}})
	}
	for _, name := range []string{category, category + " (crate)"} {
		createName := name
		ladder = append(ladder, candidate{status: StatusCreated, resolve: func(ctx context.Context) (spotify.Playlist, error) {
			return r.service.CreatePlaylist(ctx, userID, createName, r.description, r.public)
		}})
	}

	var lastReason string
	for _, step := range ladder {
		playlist, err := step.resolve(ctx)
		if err != nil {
			if errors.Is(err, services.ErrPermission) || errors.Is(err, services.ErrNotFound) {
				lastReason = err.Error()
				r.logger.Debug("candidate discarded",
					logging.String("category", category),
					logging.Error(err))
				continue
			}
			return Outcome{Category: category, Status: StatusFailed, Reason: err.Error()}
		}

		if err := r.service.ReplaceTracks(ctx, playlist.ID, uris); err != nil {
			if errors.Is(err, services.ErrPermission) {
				lastReason = err.Error()
				r.logger.Debug("candidate not writable",
					logging.String("category", category),
					logging.String("playlist_id", playlist.ID),
					logging.Error(err))
				continue
			}
			return Outcome{Category: category, PlaylistID: playlist.ID, Status: StatusFailed, Reason: err.Error()}
		}

		return Outcome{
			Category:   category,
			PlaylistID: playlist.ID,
			TrackCount: len(uris),
			Status:     step.status,
		}
	}

	if lastReason == "" {
		lastReason = "no writable playlist candidate"
	}
	return Outcome{Category: category, Status: StatusFailed, Reason: lastReason}
}

func trackIDs(tracks []library.Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, track := range tracks {
		ids = append(ids, track.ID)
	}
	return ids
}
