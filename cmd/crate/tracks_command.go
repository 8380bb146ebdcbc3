package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"crate/internal/library"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var limit int

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Show the saved-track library and summary stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			snapshot := library.NewSnapshot(cfg.TracksPath(), logger)
			tracks, ok := snapshot.Load()
			if refresh || !ok || len(tracks) == 0 {
				client, err := ctx.spotifyClient(cmd.Context())
				if err != nil {
					return err
				}
				progress := newProgressPrinter("Fetched")
				tracks, err = client.SavedTracks(cmd.Context(), progress.update)
				progress.finish()
				if err != nil {
					return err
				}
				if err := snapshot.Save(tracks); err != nil {
					return fmt.Errorf("save track snapshot: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			shown := tracks
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			rows := make([][]string, 0, len(shown))
			for _, track := range shown {
				year := ""
				if track.ReleaseYear > 0 {
					year = strconv.Itoa(track.ReleaseYear)
				}
				rows = append(rows, []string{track.Artist, track.Name, track.Album, year})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Artist", "Title", "Album", "Year"},
				rows,
				3,
			))
			if len(shown) < len(tracks) {
				fmt.Fprintf(out, "... and %d more\n", len(tracks)-len(shown))
			}

			printLibraryStats(out, tracks)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch the saved library instead of using the snapshot")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum rows to display (0 shows all)")
	return cmd
}

func printLibraryStats(out io.Writer, tracks []library.Track) {
	artists := make(map[string]struct{}, len(tracks))
	minYear, maxYear := 0, 0
	for _, track := range tracks {
		if track.Artist != "" {
			artists[track.Artist] = struct{}{}
		}
		if track.ReleaseYear > 0 {
			if minYear == 0 || track.ReleaseYear < minYear {
				minYear = track.ReleaseYear
			}
			if track.ReleaseYear > maxYear {
				maxYear = track.ReleaseYear
			}
		}
	}
	fmt.Fprintf(out, "%d tracks, %d artists", len(tracks), len(artists))
	if minYear > 0 {
		fmt.Fprintf(out, ", years %d-%d", minYear, maxYear)
	}
	fmt.Fprintln(out)
}
