package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the classification cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached classifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}

			entries := cache.All()
			labels := make([]string, 0, len(entries))
			for label := range entries {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			if limit > 0 && len(labels) > limit {
				labels = labels[:limit]
			}

			rows := make([][]string, 0, len(labels))
			for _, label := range labels {
				rows = append(rows, []string{label, strings.Join(entries[label], ", ")})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Track", "Categories"},
				rows,
			))
			fmt.Fprintf(out, "%d cached tracks\n", cache.Count())
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to display (0 shows all)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			count := cache.Count()
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached classifications\n", count)
			return nil
		},
	}
}
