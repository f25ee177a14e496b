package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kisansetu/config"
	"kisansetu/pkg/logging"
)

var (
	cfg    config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kisansetu",
	Short: "KisanSetu farmer portal API",
	Long: `kisansetu serves the farmer portal API: crop calculators, calendar,
equipment rental, mandi prices, schemes, news, community, knowledge base and
the farming assistant.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		var err error
		logger, err = logging.New(cfg.Debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, exportMarketCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
