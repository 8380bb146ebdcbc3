package main

import (
	"fmt"
	"io"
	"strconv"

	"crate/internal/buckets"
	"crate/internal/reconcile"
)

func printBucketSummary(out io.Writer, m *buckets.Map) {
	rows := make([][]string, 0, m.Len())
	for _, name := range m.Names() {
		rows = append(rows, []string{name, strconv.Itoa(len(m.Tracks(name)))})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Bucket", "Tracks"},
		rows,
		1,
	))
	if m.Discarded > 0 {
		fmt.Fprintf(out, "%d unknown category assignments discarded\n", m.Discarded)
	}
}

func printSyncReport(out io.Writer, report *reconcile.Report) {
	rows := make([][]string, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		status := outcome.Status
		if outcome.Status == reconcile.StatusFailed && outcome.Reason != "" {
			status = fmt.Sprintf("failed: %s", outcome.Reason)
		}
		rows = append(rows, []string{
			outcome.Category,
			outcome.PlaylistID,
			strconv.Itoa(outcome.TrackCount),
			status,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Category", "Playlist", "Tracks", "Outcome"},
		rows,
		2,
	))
	fmt.Fprintf(out, "%d created, %d reused, %d failed, %d tracks written\n",
		report.Created(), report.Reused(), report.Failed(), report.TracksWritten())
}
