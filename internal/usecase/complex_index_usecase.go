package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/domain/repository"
	"github.com/listing-resolver/internal/index"
	"github.com/listing-resolver/internal/matching"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/pkg/geometry"
)

// ComplexIndexReport - итог перестроения таблицы ЖК
type ComplexIndexReport struct {
	Records    int
	Features   int
	Merged     int
	CSVOnly    int
	OSMOnly    int
	WithStreet int
	WithGeo    int
	Duration   time.Duration
}

// ComplexIndexUseCase - офлайн-построение таблицы ЖК: связывание CSV и OSM,
// привязка ЖК к улице и гео-узлу, запись таблицы
type ComplexIndexUseCase struct {
	source      repository.ComplexRecordSource
	osmRepo     repository.OSMFeatureRepository
	complexRepo repository.ComplexRepository
	linker      *matching.Linker
	radii       []float64
	logger      *zap.Logger
}

// NewComplexIndexUseCase создает новый ComplexIndexUseCase
func NewComplexIndexUseCase(
	source repository.ComplexRecordSource,
	osmRepo repository.OSMFeatureRepository,
	complexRepo repository.ComplexRepository,
	linker *matching.Linker,
	radii []float64,
	logger *zap.Logger,
) *ComplexIndexUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplexIndexUseCase{
		source:      source,
		osmRepo:     osmRepo,
		complexRepo: complexRepo,
		linker:      linker,
		radii:       streetRadii(radii, logger),
		logger:      logger,
	}
}

// Build читает выгрузку CSV и объекты OSM в bbox и связывает их
func (uc *ComplexIndexUseCase) Build(ctx context.Context, bbox domain.BoundingBox) (*matching.LinkResult, error) {
	if !bbox.Valid() {
		return nil, errors.ErrInvalidConfig.WithDetails(map[string]interface{}{"bbox": bbox})
	}

	records, err := uc.source.ReadComplexes(ctx)
	if err != nil {
		return nil, errors.ErrSourceError.Wrap(err)
	}

	features, err := uc.osmRepo.FeaturesInBBox(ctx, bbox)
	if err != nil {
		return nil, fmt.Errorf("fetch osm features: %w", err)
	}

	for _, f := range features {
		if !f.Centroid.Valid() {
			if lon, lat, ok := geometry.Centroid(f.Geometry); ok {
				f.Centroid = domain.Point{Lat: lat, Lon: lon}
			}
		}
	}

	res := uc.linker.Link(records, features)
	return &res, nil
}

// AssignReferences заполняет пустые улицу и гео-узел ЖК той же логикой, что и для объявлений:
// гео по полигонам, улица - ближайшая с расширением радиуса. Возвращает число измененных ЖК.
func (uc *ComplexIndexUseCase) AssignReferences(snap *index.Snapshot, complexes []*domain.ApartmentComplex) int {
	changed := 0
	for _, c := range complexes {
		p := c.Centroid
		if !p.Valid() {
			lon, lat, ok := geometry.Centroid(c.Footprint)
			if !ok {
				continue
			}
			p = domain.Point{Lat: lat, Lon: lon}
		}

		updated := false
		if c.GeoID == nil {
			if node := snap.Geo.Resolve(p); node != nil {
				c.GeoID = domain.Int64Ptr(node.ID)
				updated = true
			}
		}
		if c.StreetID == nil {
			for _, r := range uc.radii {
				if ns := snap.Streets.Nearest(p, c.GeoID, r); ns != nil {
					c.StreetID = domain.Int64Ptr(ns.Street.ID)
					updated = true
					break
				}
			}
		}
		if updated {
			changed++
		}
	}
	return changed
}

// Rebuild перестраивает таблицу ЖК целиком
func (uc *ComplexIndexUseCase) Rebuild(ctx context.Context, snap *index.Snapshot, bbox domain.BoundingBox) (*ComplexIndexReport, error) {
	start := time.Now()

	res, err := uc.Build(ctx, bbox)
	if err != nil {
		return nil, err
	}

	uc.AssignReferences(snap, res.Complexes)

	if err := uc.complexRepo.ReplaceAll(ctx, res.Complexes); err != nil {
		return nil, fmt.Errorf("replace complexes: %w", err)
	}

	report := &ComplexIndexReport{
		Records:  res.Records,
		Features: res.Features,
		Merged:   res.Merged,
		CSVOnly:  res.CSVOnly,
		OSMOnly:  res.OSMOnly,
		Duration: time.Since(start),
	}
	for _, c := range res.Complexes {
		if c.StreetID != nil {
			report.WithStreet++
		}
		if c.GeoID != nil {
			report.WithGeo++
		}
	}

	uc.logger.Info("Complex table rebuilt",
		zap.Int("records", report.Records),
		zap.Int("features", report.Features),
		zap.Int("merged", report.Merged),
		zap.Int("csv_only", report.CSVOnly),
		zap.Int("osm_only", report.OSMOnly),
		zap.Int("with_street", report.WithStreet),
		zap.Int("with_geo", report.WithGeo),
		zap.Duration("duration", report.Duration))

	return report, nil
}

// EnrichStored дозаполняет улицу и гео-узел у ЖК, уже записанных в таблицу
func (uc *ComplexIndexUseCase) EnrichStored(ctx context.Context, snap *index.Snapshot) (int, error) {
	complexes, err := uc.complexRepo.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load complexes: %w", err)
	}

	pending := make([]*domain.ApartmentComplex, 0, len(complexes))
	for _, c := range complexes {
		if c.StreetID == nil || c.GeoID == nil {
			pending = append(pending, c)
		}
	}

	uc.AssignReferences(snap, pending)

	updated := 0
	for _, c := range pending {
		if c.StreetID == nil && c.GeoID == nil {
			continue
		}
		if err := uc.complexRepo.AssignReferences(ctx, c.ID, c.StreetID, c.GeoID); err != nil {
			return updated, fmt.Errorf("assign references for complex %d: %w", c.ID, err)
		}
		updated++
	}

	uc.logger.Info("Stored complexes enriched",
		zap.Int("pending", len(pending)),
		zap.Int("updated", updated))

	return updated, nil
}
