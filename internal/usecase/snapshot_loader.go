package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/index"
	"github.com/listing-resolver/internal/pkg/errors"
)

// SnapshotLoader загружает справочники и строит неизменяемый снимок индексов
type SnapshotLoader struct {
	geoRepo     repository.GeoNodeRepository
	streetRepo  repository.StreetRepository
	complexRepo repository.ComplexRepository
	logger      *zap.Logger
}

// NewSnapshotLoader создает новый SnapshotLoader
func NewSnapshotLoader(
	geoRepo repository.GeoNodeRepository,
	streetRepo repository.StreetRepository,
	complexRepo repository.ComplexRepository,
	logger *zap.Logger,
) *SnapshotLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLoader{
		geoRepo:     geoRepo,
		streetRepo:  streetRepo,
		complexRepo: complexRepo,
		logger:      logger,
	}
}

// Load читает справочники параллельно и строит снимок
func (l *SnapshotLoader) Load(ctx context.Context) (*index.Snapshot, error) {
	start := time.Now()

	var (
		nodes     []*domain.GeoNode
		streets   []*domain.Street
		complexes []*domain.ApartmentComplex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodes, err = l.geoRepo.LoadAll(gctx)
		if err != nil {
			return fmt.Errorf("load geo nodes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		streets, err = l.streetRepo.LoadAll(gctx)
		if err != nil {
			return fmt.Errorf("load streets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		complexes, err = l.complexRepo.LoadAll(gctx)
		if err != nil {
			return fmt.Errorf("load complexes: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, errors.ErrSnapshotInvalid.Wrap(err)
	}

	if len(nodes) == 0 {
		return nil, errors.ErrSnapshotInvalid.WithDetails(map[string]interface{}{"reason": "no geo nodes"})
	}

	snap := index.Build(nodes, streets, complexes, l.logger)

	l.logger.Info("Reference snapshot loaded",
		zap.Int("geo_nodes", snap.Geo.Len()),
		zap.Int("streets", snap.Streets.Len()),
		zap.Int("complexes", snap.Complexes.Len()),
		zap.Duration("duration", time.Since(start)))

	return snap, nil
}
