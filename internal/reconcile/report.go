package reconcile

// Outcome statuses.
const (
	StatusCreated = "created"
	StatusReused  = "reused"
	StatusFailed  = "failed"
)

// Outcome records the result of syncing one category.
type Outcome struct {
	Category   string
	PlaylistID string
	TrackCount int
	Status     string
	// Reason explains a failed outcome.
	Reason string
}

// Report is the per-category record of a sync run.
type Report struct {
	Outcomes []Outcome
}

// Created counts freshly created playlists.
func (r *Report) Created() int { return r.count(StatusCreated) }

// Reused counts playlists that already existed.
func (r *Report) Reused() int { return r.count(StatusReused) }

// Failed counts categories that could not be synced.
func (r *Report) Failed() int { return r.count(StatusFailed) }

// TracksWritten sums the items written across successful categories.
func (r *Report) TracksWritten() int {
	total := 0
	for _, outcome := range r.Outcomes {
		total += outcome.TrackCount
	}
	return total
}

func (r *Report) count(status string) int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			n++
		}
	}
	return n
}
