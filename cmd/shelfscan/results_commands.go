package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shelfscan/internal/config"
	"shelfscan/internal/store"
)

func newResultsCommand(ctx *commandContext) *cobra.Command {
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect and manage saved analyses",
	}

	resultsCmd.AddCommand(newResultsListCommand(ctx))
	resultsCmd.AddCommand(newResultsShowCommand(ctx))
	resultsCmd.AddCommand(newResultsDeleteCommand(ctx))

	return resultsCmd
}

func newResultsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved analyses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, s *store.Store) error {
				analyses, err := s.List(cmd.Context(), limit)
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, analyses)
				}

				if len(analyses) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved analyses")
					return nil
				}

				rows := make([][]string, 0, len(analyses))
				for _, a := range analyses {
					rows = append(rows, []string{
						a.ID,
						truncate(a.VideoPath, 48),
						formatTimestamp(a.CreatedAt),
						fmt.Sprintf("%d", a.DetectedCount),
						fmt.Sprintf("%.2f", a.Confidence),
					})
				}
				table := renderTable(
					[]string{"ID", "Video", "Created", "Items", "Conf"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of analyses to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the list as JSON")
	return cmd
}

func newResultsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved analysis with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, s *store.Store) error {
				a, err := s.GetByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a == nil {
					return fmt.Errorf("no analysis with id %s", args[0])
				}

				if jsonOutput {
					return writeJSON(cmd, a)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:       %s\n", a.ID)
				fmt.Fprintf(out, "Video:    %s\n", a.VideoPath)
				fmt.Fprintf(out, "Created:  %s\n", formatTimestamp(a.CreatedAt))
				fmt.Fprintf(out, "Items:    %d (confidence %.2f)\n", a.DetectedCount, a.Confidence)
				if len(a.Items) > 0 {
					fmt.Fprintln(out, renderItemsTable(a.Items))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the analysis as JSON")
	return cmd
}

func newResultsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, s *store.Store) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}
