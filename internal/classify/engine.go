package classify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"crate/internal/config"
	"crate/internal/labelcache"
	"crate/internal/logging"
	"crate/internal/services"
	"crate/internal/services/gemini"
)

// RemoteClassifier is the external AI classification call. Implemented by
// gemini.Client; tests substitute a counting fake.
type RemoteClassifier interface {
	ClassifyBatch(ctx context.Context, systemPrompt string, labels []string) (map[string][]string, error)
}

// Step is one unit of classification progress. The first step of a run may
// carry the already-cached subset; every later step carries one dispatched
// batch's validated results.
type Step struct {
	Processed int
	Total     int
	// Cached marks the initial step that reports prior progress without a
	// remote call.
	Cached bool
	Batch  map[string][]string
}

// Observer receives a Step after the cached partition and after every batch.
// Returning false stops the run at the next batch boundary; results merged so
// far are kept.
type Observer func(Step) bool

// Engine drives batched classification of track labels: cache partition,
// fixed-size batch dispatch, output validation, fallback degradation, and
// persist-after-every-batch cache merges.
type Engine struct {
	client   RemoteClassifier
	cache    *labelcache.Cache
	matcher  *Matcher
	prompt   string
	batch    int
	fallback string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewEngine builds an Engine from the classifier configuration and the genre
// vocabulary. The rate limiter spaces remote calls by the configured batch
// pause; the first call is never delayed.
func NewEngine(client RemoteClassifier, cache *labelcache.Cache, cfg config.Classifier, genres []config.Category, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	pause := time.Duration(cfg.BatchPauseSeconds) * time.Second
	limit := rate.Inf
	if pause > 0 {
		limit = rate.Every(pause)
	}
	return &Engine{
		client:   client,
		cache:    cache,
		matcher:  NewMatcher(genres),
		prompt:   gemini.SystemPrompt(genres),
		batch:    cfg.BatchSize,
		fallback: cfg.FallbackCategory,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logging.NewComponentLogger(logger, "classify"),
	}
}

// Run classifies every label, consulting the cache first. It returns the full
// label->categories mapping for the requested labels, including entries
// degraded to the fallback category. Cancellation is checked at batch
// boundaries only; a stopped or cancelled run keeps all cache merges made so
// far.
func (e *Engine) Run(ctx context.Context, labels []string, observer Observer) (map[string][]string, error) {
	cached, missing := e.cache.Partition(labels)
	total := len(labels)
	results := e.cache.Subset(cached)

	e.logger.Info("classification started",
		logging.Int("labels", total),
		logging.Int("cached", len(cached)),
		logging.Int("missing", len(missing)))

	if len(cached) > 0 && observer != nil {
		if !observer(Step{Processed: len(cached), Total: total, Cached: true, Batch: e.cache.Subset(cached)}) {
			return results, nil
		}
	}

	processed := len(cached)
	for start := 0; start < len(missing); start += e.batch {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		end := start + e.batch
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		if err := e.limiter.Wait(ctx); err != nil {
			return results, err
		}

		validated, err := e.classifyBatch(ctx, batch)
		if err != nil {
			return results, err
		}
		for label, categories := range validated {
			results[label] = categories
		}

		processed += len(batch)
		if observer != nil && !observer(Step{Processed: processed, Total: total, Batch: validated}) {
			return results, nil
		}
	}

	e.logger.Info("classification finished",
		logging.Int("processed", processed),
		logging.Int("total", total))
	return results, nil
}

// classifyBatch dispatches one batch and validates the response. Exhausted
// retries degrade every label in the batch to the fallback category; degraded
// assignments are not persisted, so a later run retries those labels.
func (e *Engine) classifyBatch(ctx context.Context, batch []string) (map[string][]string, error) {
	raw, err := e.client.ClassifyBatch(ctx, e.prompt, batch)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !services.IsTransient(err) {
			return nil, fmt.Errorf("classify batch: %w", err)
		}
		e.logger.Warn("batch degraded to fallback category",
			logging.Int("labels", len(batch)),
			logging.String(logging.FieldErrorHint, "check classifier availability and API key"),
			logging.Error(err))
		degraded := make(map[string][]string, len(batch))
		for _, label := range batch {
			degraded[label] = []string{e.fallback}
		}
		return degraded, nil
	}

	validated := make(map[string][]string, len(batch))
	for _, label := range batch {
		validated[label] = e.matcher.Validate(raw[label], e.fallback)
	}
	if err := e.cache.Merge(validated); err != nil {
		return nil, fmt.Errorf("persist batch results: %w", err)
	}
	return validated, nil
}
