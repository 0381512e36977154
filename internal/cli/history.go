package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Question history commands",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryRefreshCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var (
		category int64
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded questions, newest first",
		Long: `List recorded questions, newest first.

--category filters to one category and --all clears the filter. The filter
is kept by the server; without either flag the current filter applies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HistoryState
			var err error
			switch {
			case all:
				err = client.Post(cmd.Context(), "/api/v1/history/filter", map[string]any{"category_id": nil}, &result)
			case cmd.Flags().Changed("category"):
				err = client.Post(cmd.Context(), "/api/v1/history/filter", map[string]any{"category_id": category}, &result)
			default:
				err = client.Get(cmd.Context(), "/api/v1/history", &result)
			}
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&category, "category", 0, "Only show entries from this category ID")
	cmd.Flags().BoolVar(&all, "all", false, "Show entries from every category")
	cmd.MarkFlagsMutuallyExclusive("category", "all")

	return cmd
}

func newHistoryRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the history from storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HistoryState
			if err := client.Post(cmd.Context(), "/api/v1/history/refresh", nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HistoryState
			if err := client.Delete(cmd.Context(), "/api/v1/history", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
