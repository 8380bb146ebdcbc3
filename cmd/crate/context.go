package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"crate/internal/buckets"
	"crate/internal/classify"
	"crate/internal/config"
	"crate/internal/history"
	"crate/internal/labelcache"
	"crate/internal/library"
	"crate/internal/logging"
	"crate/internal/mapping"
	"crate/internal/pipeline"
	"crate/internal/reconcile"
	"crate/internal/rules"
	"crate/internal/services/gemini"
	"crate/internal/services/spotify"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openCache() (*labelcache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return labelcache.Open(cfg.CachePath(), logger), nil
}

func (c *commandContext) openMapping() (*mapping.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return mapping.Open(cfg.MappingPath())
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.HistoryPath())
}

func (c *commandContext) spotifyClient(ctx context.Context) (*spotify.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return spotify.NewClient(ctx, cfg.Spotify)
}

func (c *commandContext) geminiClient() (*gemini.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	// The delay grows linearly, so base*attempts is the largest step a run
	// can reach; use it as the cap.
	retryBase := cfg.Classifier.RetryDelay()
	retryCap := retryBase * time.Duration(cfg.Classifier.MaxAttempts)
	return gemini.NewClient(gemini.Config{
		APIKey:         cfg.Gemini.APIKey,
		BaseURL:        cfg.Gemini.BaseURL,
		Model:          cfg.Gemini.Model,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
	},
		gemini.WithRetryMaxAttempts(cfg.Classifier.MaxAttempts),
		gemini.WithRetryDelay(retryBase, retryCap),
	), nil
}

// newPipeline wires the full dependency graph. The returned cleanup closes
// the history store and must run after the pipeline finishes.
func (c *commandContext) newPipeline(ctx context.Context, withReconciler bool) (*pipeline.Pipeline, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	cache, err := c.openCache()
	if err != nil {
		return nil, nil, err
	}
	overrides, err := c.openMapping()
	if err != nil {
		return nil, nil, err
	}
	source, err := c.spotifyClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	remote, err := c.geminiClient()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.openHistory()
	if err != nil {
		return nil, nil, err
	}

	deps := pipeline.Deps{
		Config:     cfg,
		Source:     source,
		Snapshot:   library.NewSnapshot(cfg.TracksPath(), logger),
		Cache:      cache,
		Engine:     classify.NewEngine(remote, cache, cfg.Classifier, cfg.Genres, logger),
		Aggregator: buckets.NewAggregator(rules.NewTable(cfg.Decades), cfg, logger),
		Store:      store,
		Logger:     logger,
	}
	if withReconciler {
		deps.Reconciler = reconcile.New(source, overrides, cfg.Playlists.Public, cfg.Playlists.Description, logger)
	}

	p, err := pipeline.New(deps)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return p, func() { _ = store.Close() }, nil
}
