package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/config"
	"github.com/listing-resolver/internal/pkg/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "complex-index",
	Short: "Offline apartment complex table builder",
	Long:  "Links the curated complex CSV export with OSM building and landuse polygons and assigns streets and geo nodes to the resulting complexes.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logger.New(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(rebuildCmd, enrichCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
