package classify

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"crate/internal/config"
	"crate/internal/labelcache"
	"crate/internal/logging"
	"crate/internal/services"
)

const testFallback = "🌍 Pop & Radio Hits"

func testGenres() []config.Category {
	return []config.Category{
		{Name: "🎸 Guitar Anthems", Hint: "rock, metal, guitar-driven bands"},
		{Name: "🪩 Club Life", Hint: "dance, house, EDM"},
		{Name: testFallback, Hint: "mainstream pop and radio staples"},
	}
}

type fakeClassifier struct {
	batches [][]string
	answer  func(labels []string) (map[string][]string, error)
}

func (f *fakeClassifier) ClassifyBatch(_ context.Context, _ string, labels []string) (map[string][]string, error) {
	f.batches = append(f.batches, append([]string(nil), labels...))
	if f.answer != nil {
		return f.answer(labels)
	}
	result := make(map[string][]string, len(labels))
	for _, label := range labels {
		result[label] = []string{"🎸 Guitar Anthems"}
	}
	return result, nil
}

func newTestEngine(t *testing.T, fake *fakeClassifier) (*Engine, *labelcache.Cache) {
	t.Helper()
	cache := labelcache.Open(filepath.Join(t.TempDir(), "cache.json"), logging.NewNop())
	cfg := config.Classifier{BatchSize: 2, MaxAttempts: 3, FallbackCategory: testFallback}
	return NewEngine(fake, cache, cfg, testGenres(), logging.NewNop()), cache
}

func TestRunDispatchesFixedBatches(t *testing.T) {
	fake := &fakeClassifier{}
	engine, _ := newTestEngine(t, fake)

	var steps []Step
	results, err := engine.Run(context.Background(), []string{"A - X", "B - Y", "C - Z"}, func(step Step) bool {
		steps = append(steps, step)
		return true
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(fake.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(fake.batches))
	}
	if fake.batches[0][0] != "A - X" || fake.batches[0][1] != "B - Y" || fake.batches[1][0] != "C - Z" {
		t.Fatalf("unexpected batch split %v", fake.batches)
	}
	if len(steps) != 2 || steps[0].Processed != 2 || steps[1].Processed != 3 || steps[1].Total != 3 {
		t.Fatalf("unexpected progress steps %+v", steps)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	fake := &fakeClassifier{}
	engine, _ := newTestEngine(t, fake)
	labels := []string{"A - X", "B - Y", "C - Z"}

	first, err := engine.Run(context.Background(), labels, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	remoteCalls := len(fake.batches)

	var cachedStep *Step
	second, err := engine.Run(context.Background(), labels, func(step Step) bool {
		if step.Cached {
			copied := step
			cachedStep = &copied
		}
		return true
	})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(fake.batches) != remoteCalls {
		t.Fatalf("second run made %d extra remote calls", len(fake.batches)-remoteCalls)
	}
	if cachedStep == nil || cachedStep.Processed != 3 || len(cachedStep.Batch) != 3 {
		t.Fatalf("expected cached step carrying all 3 labels, got %+v", cachedStep)
	}
	for label, categories := range first {
		got := second[label]
		if len(got) != len(categories) || got[0] != categories[0] {
			t.Fatalf("label %q changed between runs: %v vs %v", label, categories, got)
		}
	}
}

func TestExhaustedRetriesDegradeToFallback(t *testing.T) {
	fake := &fakeClassifier{answer: func([]string) (map[string][]string, error) {
		return nil, services.Wrap(services.ErrTransient, "gemini", "classify batch", "attempts exhausted", nil)
	}}
	engine, cache := newTestEngine(t, fake)

	results, err := engine.Run(context.Background(), []string{"A - X", "B - Y", "C - Z"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(fake.batches) != 2 {
		t.Fatalf("degraded batch should not stop the run; got %d batches", len(fake.batches))
	}
	for _, label := range []string{"A - X", "B - Y", "C - Z"} {
		categories := results[label]
		if len(categories) != 1 || categories[0] != testFallback {
			t.Fatalf("label %q: expected fallback, got %v", label, categories)
		}
	}
	// Degraded assignments stay out of the cache so a later run retries.
	if cache.Count() != 0 {
		t.Fatalf("expected empty cache after degraded run, got %d entries", cache.Count())
	}
}

func TestNonTransientErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeClassifier{answer: func([]string) (map[string][]string, error) {
		return nil, boom
	}}
	engine, _ := newTestEngine(t, fake)

	_, err := engine.Run(context.Background(), []string{"A - X"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestObserverStopsAtBatchBoundary(t *testing.T) {
	fake := &fakeClassifier{}
	engine, cache := newTestEngine(t, fake)

	results, err := engine.Run(context.Background(), []string{"A - X", "B - Y", "C - Z"}, func(Step) bool {
		return false
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(fake.batches) != 1 {
		t.Fatalf("expected run to stop after first batch, got %d", len(fake.batches))
	}
	if len(results) != 2 {
		t.Fatalf("expected the first batch's results, got %d entries", len(results))
	}
	if cache.Count() != 2 {
		t.Fatalf("first batch should be persisted before the stop, cache has %d", cache.Count())
	}
}

func TestContextCancelledBetweenBatches(t *testing.T) {
	fake := &fakeClassifier{}
	engine, _ := newTestEngine(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := engine.Run(ctx, []string{"A - X", "B - Y", "C - Z"}, func(Step) bool {
		cancel()
		return true
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(fake.batches) != 1 {
		t.Fatalf("expected cancellation before second batch, got %d", len(fake.batches))
	}
}

func TestRunValidatesModelOutput(t *testing.T) {
	fake := &fakeClassifier{answer: func(labels []string) (map[string][]string, error) {
		return map[string][]string{
			"A - X": {"Rock"},
			"B - Y": {"🎸 Guitar Anthems", "🪩 Club Life", testFallback},
			"C - Z": {"Shoegaze Revival"},
		}, nil
	}}
	engine, _ := newTestEngine(t, fake)

	results, err := engine.Run(context.Background(), []string{"A - X", "B - Y", "C - Z"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := results["A - X"]; len(got) != 1 || got[0] != "🎸 Guitar Anthems" {
		t.Fatalf("expected fuzzy match for Rock, got %v", got)
	}
	if got := results["B - Y"]; len(got) != 2 {
		t.Fatalf("expected cap at 2 categories, got %v", got)
	}
	if got := results["C - Z"]; len(got) != 1 || got[0] != testFallback {
		t.Fatalf("expected fallback for unknown category, got %v", got)
	}
}
