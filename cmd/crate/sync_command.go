package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"crate/internal/classify"
	"crate/internal/pipeline"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var refresh bool
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Classify the saved library and sync playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if batchSize > 0 {
				cfg.Classifier.BatchSize = batchSize
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, cleanup, err := ctx.newPipeline(runCtx, !dryRun)
			if err != nil {
				return err
			}
			defer cleanup()

			fetchProgress := newProgressPrinter("Fetched")
			classifyProgress := newProgressPrinter("Classified")
			result, err := p.Run(runCtx, pipeline.Options{
				DryRun:        dryRun,
				RefreshTracks: refresh,
				Progress:      fetchProgress.update,
				Observer: func(step classify.Step) bool {
					classifyProgress.update(step.Processed, step.Total)
					return true
				},
			})
			fetchProgress.finish()
			classifyProgress.finish()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d tracks, %d cached, %d newly classified\n",
				result.TrackTotal, result.CacheHits, result.Classified)
			printBucketSummary(out, result.Buckets)
			if dryRun {
				fmt.Fprintln(out, "Dry run: playlists left untouched.")
				return nil
			}
			printSyncReport(out, result.Report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Stop before touching remote playlists")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch the saved library instead of using the snapshot")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Override the classification batch size")
	return cmd
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify the saved library without syncing playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, cleanup, err := ctx.newPipeline(runCtx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			progress := newProgressPrinter("Classified")
			result, err := p.Run(runCtx, pipeline.Options{
				DryRun:        true,
				RefreshTracks: refresh,
				Observer: func(step classify.Step) bool {
					progress.update(step.Processed, step.Total)
					return true
				},
			})
			progress.finish()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d tracks, %d cached, %d newly classified\n",
				result.TrackTotal, result.CacheHits, result.Classified)
			printBucketSummary(out, result.Buckets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch the saved library instead of using the snapshot")
	return cmd
}
