package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/config"
	"github.com/listing-resolver/internal/index"
	"github.com/listing-resolver/internal/matching"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/logger"
	"github.com/listing-resolver/internal/repository/csvsource"
	"github.com/listing-resolver/internal/repository/postgres"
	"github.com/listing-resolver/internal/repository/postgresosm"
	"github.com/listing-resolver/internal/usecase"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the apartment complex table from CSV and OSM",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if path, _ := cmd.Flags().GetString("csv"); path != "" {
			cfg.Complex.CSVPath = path
		}
		bbox, ok := cfg.Complex.BoundingBox()
		if !ok {
			return errors.ErrInvalidConfig.WithDetails(map[string]interface{}{"field": "COMPLEX_BBOX"})
		}

		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		osmDB, err := postgresosm.New(&cfg.OSMDatabase, log)
		if err != nil {
			return err
		}
		defer osmDB.Close()

		uc := complexIndexUseCase(db, osmDB, cfg)
		snap, err := loadSnapshot(ctx, db)
		if err != nil {
			return err
		}

		report, err := uc.Rebuild(ctx, snap, bbox)
		if err != nil {
			return err
		}

		fmt.Printf("Complexes: %d (merged %d, csv-only %d, osm-only %d), with street %d, with geo %d, took %s\n",
			report.Merged+report.CSVOnly+report.OSMOnly,
			report.Merged, report.CSVOnly, report.OSMOnly,
			report.WithStreet, report.WithGeo, report.Duration)
		return nil
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Assign streets and geo nodes to stored complexes that lack them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		snap, err := loadSnapshot(ctx, db)
		if err != nil {
			return err
		}

		uc := usecase.NewComplexIndexUseCase(
			nil, nil,
			postgres.NewComplexRepository(db),
			nil,
			cfg.Resolver.StreetRadii,
			logger.Component(log, "complex-index"),
		)

		updated, err := uc.EnrichStored(ctx, snap)
		if err != nil {
			return err
		}

		fmt.Printf("Complexes enriched: %d\n", updated)
		return nil
	},
}

func init() {
	rebuildCmd.Flags().String("csv", "", "path to the complex CSV export (overrides COMPLEX_CSV_PATH)")
}

func complexIndexUseCase(db *postgres.DB, osmDB *postgresosm.DB, cfg *config.Config) *usecase.ComplexIndexUseCase {
	linker := matching.NewLinker(matching.LinkerConfig{
		MatchRadius:     cfg.Complex.MatchRadius,
		MatchThreshold:  cfg.Complex.MatchThreshold,
		DistancePenalty: matching.DefaultDistancePenalty,
	}, logger.Component(log, "linker"))

	return usecase.NewComplexIndexUseCase(
		csvsource.NewComplexFileSource(cfg.Complex.CSVPath, log),
		postgresosm.NewFeatureRepository(osmDB),
		postgres.NewComplexRepository(db),
		linker,
		cfg.Resolver.StreetRadii,
		logger.Component(log, "complex-index"),
	)
}

func loadSnapshot(ctx context.Context, db *postgres.DB) (*index.Snapshot, error) {
	loader := usecase.NewSnapshotLoader(
		postgres.NewGeoNodeRepository(db),
		postgres.NewStreetRepository(db),
		postgres.NewComplexRepository(db),
		logger.Component(log, "snapshot"),
	)
	snap, err := loader.Load(ctx)
	if err != nil {
		log.Error("Failed to load reference snapshot", zap.Error(err))
		return nil, err
	}
	return snap, nil
}
