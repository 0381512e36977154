package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameNextCmd())
	cmd.AddCommand(newGameRecordCmd())
	cmd.AddCommand(newGameClearErrorCmd())

	return cmd
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Get(cmd.Context(), "/api/v1/game", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Draw another random question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Post(cmd.Context(), "/api/v1/game/next", nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameRecordCmd() *cobra.Command {
	var firstTouch bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the current question in the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			body := map[string]bool{"is_first_touch": firstTouch}
			if err := client.Post(cmd.Context(), "/api/v1/game/record", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&firstTouch, "first-touch", false, "Mark this as the first-touch moment")

	return cmd
}

func newGameClearErrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-error",
		Short: "Dismiss a game error",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState
			if err := client.Delete(cmd.Context(), "/api/v1/game/error", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
