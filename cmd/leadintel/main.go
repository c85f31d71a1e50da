// Package main provides the leadintel CLI: the lead intake API server and
// admin commands for scoring and managing leads.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/lead-intel/internal/config"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "leadintel",
		Short:         "Lead intelligence: AI lead scoring and admin tools",
		Long:          "leadintel scores inbound sales leads with an LLM, stores them newest-first, and serves the intake and admin HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.verbose {
				cfg.Verbose = true
			}
			opts.cfg = cfg

			// Diagnostics go to stderr only when asked for; the server always logs.
			if cfg.Verbose || cmd.Name() == "serve" {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON or TOML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print diagnostic logs")

	cmd.AddCommand(
		newServeCmd(opts),
		newScoreCmd(opts),
		newScoreBatchCmd(opts),
		newLeadsCmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
