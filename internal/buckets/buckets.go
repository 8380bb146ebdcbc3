package buckets

import (
	"log/slog"

	"crate/internal/config"
	"crate/internal/library"
	"crate/internal/logging"
	"crate/internal/rules"
)

// Policy controls what happens to AI categories outside the vocabulary.
type Policy string

const (
	// PolicyExtras folds unknown categories into one reserved bucket.
	PolicyExtras Policy = "extras"
	// PolicyDiscard drops unknown categories, logged and counted.
	PolicyDiscard Policy = "discard"
)

// maxAIMemberships bounds how many AI buckets a single track may join; a
// rule bucket comes on top of that.
const maxAIMemberships = 2

// Map holds named buckets of tracks in discovery order. Order of both
// buckets and tracks within a bucket follows first insertion.
type Map struct {
	order   []string
	buckets map[string][]library.Track
	members map[string]map[string]struct{}
	// Discarded counts category assignments dropped under PolicyDiscard.
	Discarded int
}

// Names returns bucket names in insertion order.
func (m *Map) Names() []string {
	return m.order
}

// Tracks returns the bucket's tracks in insertion order.
func (m *Map) Tracks(name string) []library.Track {
	return m.buckets[name]
}

// Len returns the number of non-empty buckets.
func (m *Map) Len() int {
	return len(m.order)
}

func (m *Map) insert(name string, track library.Track) {
	if m.members == nil {
		m.members = make(map[string]map[string]struct{})
		m.buckets = make(map[string][]library.Track)
	}
	ids, ok := m.members[name]
	if !ok {
		ids = make(map[string]struct{})
		m.members[name] = ids
		m.order = append(m.order, name)
	}
	if _, dup := ids[track.ID]; dup {
		return
	}
	ids[track.ID] = struct{}{}
	m.buckets[name] = append(m.buckets[name], track)
}

// Aggregator merges rule-based and AI-based assignments into buckets.
type Aggregator struct {
	rules      rules.Table
	vocabulary map[string]struct{}
	genreOrder []string
	fallback   string
	policy     Policy
	extrasName string
	logger     *slog.Logger
}

// NewAggregator builds an Aggregator over the configured vocabulary and
// interval table. The fallback category must be part of the vocabulary.
func NewAggregator(table rules.Table, cfg *config.Config, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewNop()
	}
	vocabulary := make(map[string]struct{})
	genreOrder := make([]string, 0, len(cfg.Genres))
	for _, genre := range cfg.Genres {
		vocabulary[genre.Name] = struct{}{}
		genreOrder = append(genreOrder, genre.Name)
	}
	return &Aggregator{
		rules:      table,
		vocabulary: vocabulary,
		genreOrder: genreOrder,
		fallback:   cfg.Classifier.FallbackCategory,
		policy:     Policy(cfg.Playlists.UnknownPolicy),
		extrasName: cfg.Playlists.ExtrasName,
		logger:     logging.NewComponentLogger(logger, "buckets"),
	}
}

// Build computes the bucket map for tracks. Each track lands in its rule
// bucket (when the release year matches an interval) and in up to two AI
// buckets looked up by display label; a label absent from classifications
// receives the fallback category. Duplicate insertion within one bucket is
// skipped, so Build is idempotent over its input.
func (a *Aggregator) Build(tracks []library.Track, classifications map[string][]string) *Map {
	result := &Map{}
	for _, track := range tracks {
		if name, ok := a.rules.Classify(track); ok {
			result.insert(name, track)
		}

		categories := classifications[track.Label]
		if len(categories) == 0 {
			categories = []string{a.fallback}
		}
		inserted := 0
		for _, category := range categories {
			if inserted == maxAIMemberships {
				break
			}
			resolved, ok := a.resolve(category, result)
			if !ok {
				continue
			}
			result.insert(resolved, track)
			inserted++
		}
		if inserted == 0 {
			result.insert(a.fallback, track)
		}
	}
	a.orderCanonically(result)
	return result
}

// orderCanonically rewrites the bucket order to interval buckets first, then
// genre buckets in vocabulary order, then the extras bucket. Sync walks
// buckets in this order.
func (a *Aggregator) orderCanonically(m *Map) {
	ordered := make([]string, 0, len(m.order))
	listed := make(map[string]struct{}, len(m.order))
	add := func(name string) {
		if _, ok := m.buckets[name]; !ok {
			return
		}
		if _, dup := listed[name]; dup {
			return
		}
		listed[name] = struct{}{}
		ordered = append(ordered, name)
	}
	for _, name := range a.rules.Names() {
		add(name)
	}
	for _, name := range a.genreOrder {
		add(name)
	}
	add(a.extrasName)
	// Anything left over keeps its discovery position at the end.
	for _, name := range m.order {
		add(name)
	}
	m.order = ordered
}

// resolve maps a category name onto a bucket name, applying the unknown
// policy for names outside the vocabulary.
func (a *Aggregator) resolve(category string, m *Map) (string, bool) {
	if _, ok := a.vocabulary[category]; ok {
		return category, true
	}
	if a.policy == PolicyDiscard {
		m.Discarded++
		a.logger.Warn("discarded unknown category",
			logging.String("category", category),
			logging.String(logging.FieldErrorHint, "add it to the genre vocabulary to keep it"))
		return "", false
	}
	return a.extrasName, true
}
