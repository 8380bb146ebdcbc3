package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMappingCommand(ctx *commandContext) *cobra.Command {
	mappingCmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage category to playlist overrides",
	}
	mappingCmd.AddCommand(newMappingListCommand(ctx))
	mappingCmd.AddCommand(newMappingSetCommand(ctx))
	mappingCmd.AddCommand(newMappingRemoveCommand(ctx))
	return mappingCmd
}

func newMappingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List playlist overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openMapping()
			if err != nil {
				return err
			}
			entries := store.List()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No overrides configured.")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Category, entry.PlaylistID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Category", "Playlist"},
				rows,
			))
			return nil
		},
	}
}

func newMappingSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <playlist-id>",
		Short: "Pin a category to an existing playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openMapping()
			if err != nil {
				return err
			}
			if err := store.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mapped %q to playlist %s\n", args[0], args[1])
			return nil
		},
	}
}

func newMappingRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category>",
		Short: "Remove a category override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openMapping()
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed override for %q\n", args[0])
			return nil
		},
	}
}
