package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Player setup commands",
	}

	cmd.AddCommand(newSetupStatusCmd())
	cmd.AddCommand(newSetupManualCmd())
	cmd.AddCommand(newSetupSoloCmd())
	cmd.AddCommand(newSetupNFCCmd())
	cmd.AddCommand(newSetupReceiveCmd())
	cmd.AddCommand(newSetupOfferCmd())
	cmd.AddCommand(newSetupListenCmd())
	cmd.AddCommand(newSetupResetCmd())
	cmd.AddCommand(newSetupClearErrorCmd())

	return cmd
}

func newSetupStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the setup state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SetupState
			if err := client.Get(cmd.Context(), "/api/v1/setup", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSetupManualCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manual <player-name> <partner-name>",
		Short: "Configure both players on this device",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postSetup(cmd, "/api/v1/setup/manual", map[string]string{
				"player_name":  args[0],
				"partner_name": args[1],
			})
		},
	}
}

func newSetupSoloCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solo <player-name>",
		Short: "Configure a single player without a partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postSetup(cmd, "/api/v1/setup/solo", map[string]string{
				"player_name": args[0],
			})
		},
	}
}

func newSetupNFCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nfc <player-name>",
		Short: "Get ready to receive partner data from another device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postSetup(cmd, "/api/v1/setup/nfc", map[string]string{
				"player_name": args[0],
			})
		},
	}
}

func newSetupReceiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receive <player-name> <partner-name> <partner-id>",
		Short: "Deliver partner data received from another device",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postSetup(cmd, "/api/v1/setup/nfc/receive", map[string]string{
				"player_name":  args[0],
				"partner_name": args[1],
				"partner_id":   args[2],
			})
		},
	}
}

func newSetupOfferCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "offer <player-name> <partner-name> <partner-id>",
		Short: "Offer partner data to another device under a pairing code",
		Long: `Publish partner data for another device to pick up with "setup listen".

Without --code the server generates a code and prints it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"player_name":  args[0],
				"partner_name": args[1],
				"partner_id":   args[2],
			}
			if code != "" {
				body["code"] = code
			}

			var result PairingOffer
			if err := client.Post(cmd.Context(), "/api/v1/pairing/offer", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Pairing code to offer under")

	return cmd
}

func newSetupListenCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "listen <code>",
		Short: "Wait for partner data offered under a pairing code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			var result SetupState
			err := client.Post(ctx, "/api/v1/setup/nfc/listen", map[string]string{"code": args[0]}, &result)
			if IsAPIError(err, "PAIRING_TIMEOUT") {
				return fmt.Errorf("no partner data arrived for code %s; ask your partner to run \"setup offer\" again", args[0])
			}
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 3*time.Minute, "How long to wait for the server to answer")

	return cmd
}

func newSetupResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the player configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postSetup(cmd, "/api/v1/setup/reset", nil)
		},
	}
}

func newSetupClearErrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-error",
		Short: "Dismiss a setup error",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SetupState
			if err := client.Delete(cmd.Context(), "/api/v1/setup/error", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func postSetup(cmd *cobra.Command, path string, body any) error {
	var result SetupState
	if err := client.Post(cmd.Context(), path, body, &result); err != nil {
		return err
	}
	output(cmd).Print(result)
	return nil
}
