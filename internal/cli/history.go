package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/reelcut/internal/storage"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			h, err := storage.Open(settings.HistoryDB)
			if err != nil {
				return err
			}
			defer h.Close()

			runs, err := h.List(context.Background(), limit)
			if err != nil {
				return err
			}
			return printRuns(cmd, runs)
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum runs to show")
	return cmd
}

func printRuns(cmd *cobra.Command, runs []storage.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tMODE\tCLIPS\tINPUT\tRUN DIR")
	for _, r := range runs {
		input := r.Input
		if input == "" {
			input = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.CreatedAt.Local().Format(time.DateTime), r.Mode, r.Clips, input, r.RunDir)
	}
	return w.Flush()
}
