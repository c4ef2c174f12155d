package main

import (
	"fmt"
	"os"

	"github.com/pbaille/mindmate/internal/config"
	"github.com/pbaille/mindmate/internal/journal"
	"github.com/pbaille/mindmate/internal/logging"
	"github.com/pbaille/mindmate/internal/metrics"
	"github.com/pbaille/mindmate/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	dataPath   string
	driver     string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mindmate",
		Short:        "Mood journal with trend analysis and self-care suggestions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("data") {
				cfg.Storage.Path = dataPath
			}
			if flags.Changed("driver") {
				cfg.Storage.Driver = driver
			}
			if flags.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err = logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "mindmate.yaml", "config file (ignored if missing)")
	root.PersistentFlags().StringVar(&dataPath, "data", "", "mood log path (overrides config)")
	root.PersistentFlags().StringVar(&driver, "driver", "", "storage driver: json or sqlite (overrides config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(serveCmd())
	root.AddCommand(logCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(suggestCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(statsCmd())

	return root
}

func getStore() (store.Store, error) {
	return store.Open(cfg.Storage, logger)
}

// withJournal opens the store, runs fn and closes the store
func withJournal(collector *metrics.Collector, fn func(svc *journal.Service) error) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(journal.New(s, collector, logger))
}
