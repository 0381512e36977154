package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "couples",
		Short: "CLI tool for the couples question deck API",
		Long: `couples is a CLI tool for the couples question deck server.

It drives the setup flow, draws and records questions, browses the
question history and streams live state changes over SSE.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != OutputText && cfg.Output != OutputJSON {
				return fmt.Errorf("invalid output format %q: must be %q or %q", cfg.Output, OutputText, OutputJSON)
			}
			client = NewClient(cfg.ServerURL, cfg.Timeout)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: COUPLES_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: COUPLES_OUTPUT)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout (env: COUPLES_TIMEOUT)")

	// Add subcommands
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// output returns a formatter writing to the command's stdout
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
