package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				outcomes, err := store.Categories(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(outcomes) == 0 {
					fmt.Fprintf(out, "No category outcomes recorded for run %s\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, outcome := range outcomes {
					status := outcome.Outcome
					if outcome.Reason != "" {
						status = fmt.Sprintf("%s: %s", outcome.Outcome, outcome.Reason)
					}
					rows = append(rows, []string{outcome.Category, outcome.PlaylistID, strconv.Itoa(outcome.TrackCount), status})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Category", "Playlist", "Tracks", "Outcome"},
					rows,
					2,
				))
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				duration := ""
				if !run.FinishedAt.IsZero() {
					duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					duration,
					strconv.Itoa(run.TrackTotal),
					strconv.Itoa(run.CacheHits),
					strconv.Itoa(run.Classified),
					run.Status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Duration", "Tracks", "Cached", "Classified", "Status"},
				rows,
				2, 3, 4, 5,
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum runs to display")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-category outcomes for one run id")
	return cmd
}
