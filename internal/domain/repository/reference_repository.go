package repository

import (
	"context"

	"github.com/listing-resolver/internal/domain"
)

// GeoNodeRepository - чтение географической иерархии
type GeoNodeRepository interface {
	// LoadAll возвращает все узлы с полигонами
	LoadAll(ctx context.Context) ([]*domain.GeoNode, error)
}

// StreetRepository - чтение улиц с историей названий
type StreetRepository interface {
	// LoadAll возвращает все улицы с геометрией
	LoadAll(ctx context.Context) ([]*domain.Street, error)
}

// ComplexRepository - итоговая таблица ЖК
type ComplexRepository interface {
	// LoadAll возвращает все ЖК
	LoadAll(ctx context.Context) ([]*domain.ApartmentComplex, error)

	// ReplaceAll заменяет таблицу ЖК целиком в одной транзакции
	ReplaceAll(ctx context.Context, complexes []*domain.ApartmentComplex) error

	// AssignReferences заполняет улицу и гео-узел ЖК, если они пусты
	AssignReferences(ctx context.Context, id int64, streetID, geoID *int64) error
}

// OSMFeatureRepository - источник зданий и жилых зон OSM
type OSMFeatureRepository interface {
	// FeaturesInBBox возвращает именованные жилые объекты в bbox
	FeaturesInBBox(ctx context.Context, bbox domain.BoundingBox) ([]*domain.OSMFeature, error)
}

// ComplexRecordSource - выгрузка ЖК из внешнего источника (CSV)
type ComplexRecordSource interface {
	// ReadComplexes возвращает все валидные записи выгрузки
	ReadComplexes(ctx context.Context) ([]domain.ComplexRecord, error)
}
