package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"crate/internal/buckets"
	"crate/internal/classify"
	"crate/internal/config"
	"crate/internal/history"
	"crate/internal/labelcache"
	"crate/internal/library"
	"crate/internal/logging"
	"crate/internal/notifications"
	"crate/internal/reconcile"
	"crate/internal/services"
)

// Deps bundles the collaborators a Pipeline drives. Store may be nil when
// run history is not wanted (dry runs, tests).
type Deps struct {
	Config     *config.Config
	Source     library.Source
	Snapshot   *library.Snapshot
	Cache      *labelcache.Cache
	Engine     *classify.Engine
	Aggregator *buckets.Aggregator
	Reconciler *reconcile.Reconciler
	Store      *history.Store
	Notifier   notifications.Service
	Logger     *slog.Logger
}

// Options adjust a single run.
type Options struct {
	// DryRun stops before reconciliation.
	DryRun bool
	// RefreshTracks forces a remote fetch even when a snapshot exists.
	RefreshTracks bool
	// Progress receives saved-track fetch progress.
	Progress library.ProgressFunc
	// Observer receives classification progress steps.
	Observer classify.Observer
}

// Result is what a completed (or dry) run produced.
type Result struct {
	RunID      string
	TrackTotal int
	CacheHits  int
	Classified int
	Buckets    *buckets.Map
	// Report is nil for dry runs.
	Report *reconcile.Report
}

// RunState is the transient in-memory progress of the current run. It is
// never persisted; the cache and history store are the durable record.
type RunState struct {
	Processed int
	Total     int
	Running   bool
	LastErr   string
}

// Pipeline orchestrates one end-to-end sync: fetch, classify, aggregate,
// reconcile, record.
type Pipeline struct {
	deps   Deps
	lock   *flock.Flock
	logger *slog.Logger

	mu    sync.Mutex
	state RunState
}

// New builds a Pipeline over deps.
func New(deps Deps) (*Pipeline, error) {
	if deps.Config == nil || deps.Source == nil || deps.Cache == nil || deps.Engine == nil || deps.Aggregator == nil {
		return nil, fmt.Errorf("pipeline requires config, source, cache, engine, and aggregator")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(deps.Config)
	}
	return &Pipeline{
		deps:   deps,
		lock:   flock.New(deps.Config.LockPath()),
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// State returns a copy of the current run state.
func (p *Pipeline) State() RunState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(update func(*RunState)) {
	p.mu.Lock()
	update(&p.state)
	p.mu.Unlock()
}

// Run executes the pipeline once. The data directory lock is held for the
// whole run; a second concurrent run fails fast with a configuration-class
// error instead of racing the cache and mapping files.
func (p *Pipeline) Run(ctx context.Context, opts Options) (result *Result, err error) {
	if err := p.deps.Config.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure data directories: %w", err)
	}

	locked, lockErr := p.lock.TryLock()
	if lockErr != nil {
		return nil, fmt.Errorf("acquire pipeline lock: %w", lockErr)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "lock",
			"another crate run is already using this data directory", nil)
	}
	defer func() {
		if unlockErr := p.lock.Unlock(); unlockErr != nil {
			p.logger.Warn("failed to release pipeline lock", logging.Error(unlockErr))
		}
	}()

	started := time.Now()
	p.setState(func(s *RunState) { *s = RunState{Running: true} })
	defer p.setState(func(s *RunState) {
		s.Running = false
		if err != nil {
			s.LastErr = err.Error()
		}
	})

	var runID string
	if p.deps.Store != nil {
		runID, err = p.deps.Store.StartRun(ctx)
		if err != nil {
			return nil, fmt.Errorf("start history record: %w", err)
		}
	}

	result, err = p.run(ctx, opts, runID)

	if p.deps.Store != nil && runID != "" {
		summary := history.Summary{Status: history.StatusCompleted}
		if result != nil {
			summary.TrackTotal = result.TrackTotal
			summary.CacheHits = result.CacheHits
			summary.Classified = result.Classified
			summary.Report = result.Report
		}
		if err != nil {
			summary.Status = history.StatusFailed
			summary.Error = err.Error()
		}
		if finishErr := p.deps.Store.FinishRun(ctx, runID, summary); finishErr != nil {
			p.logger.Warn("failed to record run history", logging.Error(finishErr))
		}
	}

	if err != nil {
		if notifyErr := p.deps.Notifier.NotifyError(ctx, err, "sync"); notifyErr != nil {
			p.logger.Debug("error notification failed", logging.Error(notifyErr))
		}
		return result, err
	}
	if result.Report != nil {
		if notifyErr := p.deps.Notifier.NotifySyncCompleted(ctx, result.Report, time.Since(started)); notifyErr != nil {
			p.logger.Debug("completion notification failed", logging.Error(notifyErr))
		}
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, opts Options, runID string) (*Result, error) {
	tracks, err := p.loadTracks(ctx, opts)
	if err != nil {
		return nil, err
	}

	labels := library.Labels(tracks)
	cached, missing := p.deps.Cache.Partition(labels)

	result := &Result{
		RunID:      runID,
		TrackTotal: len(tracks),
		CacheHits:  len(cached),
		Classified: len(missing),
	}
	p.setState(func(s *RunState) { s.Total = len(labels) })

	if len(missing) > 0 {
		if notifyErr := p.deps.Notifier.NotifySyncStarted(ctx, len(missing)); notifyErr != nil {
			p.logger.Debug("start notification failed", logging.Error(notifyErr))
		}
	}

	observer := func(step classify.Step) bool {
		p.setState(func(s *RunState) {
			s.Processed = step.Processed
			s.Total = step.Total
		})
		if opts.Observer != nil {
			return opts.Observer(step)
		}
		return true
	}

	classifications, err := p.deps.Engine.Run(ctx, labels, observer)
	if err != nil {
		return result, fmt.Errorf("classification: %w", err)
	}

	result.Buckets = p.deps.Aggregator.Build(tracks, classifications)
	p.logger.Info("buckets built",
		logging.Int("buckets", result.Buckets.Len()),
		logging.Int("tracks", len(tracks)),
		logging.Int("discarded", result.Buckets.Discarded))

	if opts.DryRun {
		return result, nil
	}
	if p.deps.Reconciler == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "sync", "no reconciler configured", nil)
	}

	report, err := p.deps.Reconciler.Sync(ctx, result.Buckets)
	if err != nil {
		return result, fmt.Errorf("reconciliation: %w", err)
	}
	result.Report = report
	return result, nil
}

// loadTracks returns the snapshot when present, otherwise fetches from the
// remote source and snapshots the result.
func (p *Pipeline) loadTracks(ctx context.Context, opts Options) ([]library.Track, error) {
	if !opts.RefreshTracks && p.deps.Snapshot != nil {
		if tracks, ok := p.deps.Snapshot.Load(); ok && len(tracks) > 0 {
			p.logger.Info("using track snapshot", logging.Int("tracks", len(tracks)))
			return tracks, nil
		}
	}

	tracks, err := p.deps.Source.SavedTracks(ctx, opts.Progress)
	if err != nil {
		return nil, fmt.Errorf("fetch saved tracks: %w", err)
	}
	if p.deps.Snapshot != nil {
		if saveErr := p.deps.Snapshot.Save(tracks); saveErr != nil {
			p.logger.Warn("failed to save track snapshot", logging.Error(saveErr))
		}
	}
	p.logger.Info("fetched saved tracks", logging.Int("tracks", len(tracks)))
	return tracks, nil
}
