package domain

import "github.com/twpayne/go-geom"

// ComplexSource - происхождение записи о ЖК
type ComplexSource string

const (
	ComplexSourceCSV    ComplexSource = "csv-import"
	ComplexSourceOSM    ComplexSource = "osm"
	ComplexSourceMerged ComplexSource = "merged"
)

// ApartmentComplex - жилой комплекс из итоговой таблицы
type ApartmentComplex struct {
	ID        int64
	Name      MultiName
	Centroid  Point
	Footprint geom.T
	StreetID  *int64
	GeoID     *int64
	Source    ComplexSource
	OSMID     *int64
}

// HasReferences - есть ли у ЖК улица или гео-узел для наследования
func (c *ApartmentComplex) HasReferences() bool {
	return c.StreetID != nil || c.GeoID != nil
}

// ComplexRecord - строка выгрузки ЖК из CSV
type ComplexRecord struct {
	ExternalID string
	Name       MultiName
	Centroid   Point
}

// OSMFeature - здание или landuse с названием из OSM
type OSMFeature struct {
	OSMID    int64
	Name     MultiName
	Kind     string
	Geometry geom.T
	Centroid Point
}
