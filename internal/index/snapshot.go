package index

import (
	"time"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
)

// Snapshot - неизменяемый набор справочных индексов одного прогона.
// Строится один раз и разделяется всеми воркерами только на чтение;
// для обновления справочников нужен новый прогон.
type Snapshot struct {
	Geo       *GeoIndex
	Streets   *StreetIndex
	Complexes *ComplexIndex
	BuiltAt   time.Time
}

// NewSnapshot собирает снимок. Пустые индексы подставляются вместо nil.
func NewSnapshot(geo *GeoIndex, streets *StreetIndex, complexes *ComplexIndex) *Snapshot {
	if geo == nil {
		geo = NewGeoIndex(nil, nil)
	}
	if streets == nil {
		streets = NewStreetIndex(nil, nil)
	}
	if complexes == nil {
		complexes = NewComplexIndex(nil, nil)
	}
	return &Snapshot{
		Geo:       geo,
		Streets:   streets,
		Complexes: complexes,
		BuiltAt:   time.Now(),
	}
}

// Build строит снимок из справочных данных
func Build(nodes []*domain.GeoNode, streets []*domain.Street, complexes []*domain.ApartmentComplex, logger *zap.Logger) *Snapshot {
	return NewSnapshot(
		NewGeoIndex(nodes, logger),
		NewStreetIndex(streets, logger),
		NewComplexIndex(complexes, logger),
	)
}
