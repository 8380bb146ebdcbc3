// Package rules assigns tracks to year-interval categories. Classification is
// a pure function of the track's release year and the configured table.
package rules

import (
	"crate/internal/config"
	"crate/internal/library"
)

// Table is an ordered list of year intervals. Order is authoritative: the
// first matching interval wins when intervals overlap.
type Table struct {
	intervals []config.Interval
}

// NewTable builds a rule table from the configured intervals.
func NewTable(intervals []config.Interval) Table {
	copied := make([]config.Interval, len(intervals))
	copy(copied, intervals)
	return Table{intervals: copied}
}

// Classify returns the category for the track's release year. A release year
// of zero or below never classifies.
func (t Table) Classify(track library.Track) (string, bool) {
	if track.ReleaseYear <= 0 {
		return "", false
	}
	for _, interval := range t.intervals {
		if track.ReleaseYear >= interval.Start && track.ReleaseYear <= interval.End {
			return interval.Name, true
		}
	}
	return "", false
}

// Names returns the interval category names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.intervals))
	for _, interval := range t.intervals {
		names = append(names, interval.Name)
	}
	return names
}
