package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lead-cli",
	Short: "Multi-source lead discovery and enrichment",
	Long:  "Discovers businesses through place, organization and people searches, then enriches each lead through B2B, owner, email, phone, review and AI lookups into one merged record.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
