package cli

import (
	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List question categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CategoryList

			if err := client.Get(cmd.Context(), "/api/v1/categories", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
