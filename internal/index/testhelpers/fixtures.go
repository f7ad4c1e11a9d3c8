// Package testhelpers строит справочные данные для тестов: полигоны и линии
// в метрах от заданной точки и небольшой фрагмент Одессы.
package testhelpers

import (
	"github.com/twpayne/go-geom"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/pkg/utils"
)

// Center - точка на Дерибасовской, относительно которой строятся фикстуры
var Center = domain.Point{Lat: 46.4843, Lon: 30.7383}

// Offset сдвигает точку на dx метров на восток и dy метров на север
func Offset(p domain.Point, dxM, dyM float64) domain.Point {
	return domain.Point{
		Lat: p.Lat + dyM/utils.MetersPerDegreeLat,
		Lon: p.Lon + dxM/utils.MetersPerDegreeLon(p.Lat),
	}
}

// Square - квадратный полигон с центром в p и половиной стороны halfM метров
func Square(p domain.Point, halfM float64) *geom.Polygon {
	sw := Offset(p, -halfM, -halfM)
	ne := Offset(p, halfM, halfM)
	return geom.NewPolygonFlat(geom.XY, []float64{
		sw.Lon, sw.Lat,
		ne.Lon, sw.Lat,
		ne.Lon, ne.Lat,
		sw.Lon, ne.Lat,
		sw.Lon, sw.Lat,
	}, []int{10})
}

// HorizontalLine - отрезок длиной lengthM, проходящий в dyM метрах к северу от p
// (отрицательное dyM - к югу)
func HorizontalLine(p domain.Point, dyM, lengthM float64) *geom.LineString {
	a := Offset(p, -lengthM/2, dyM)
	b := Offset(p, lengthM/2, dyM)
	return geom.NewLineStringFlat(geom.XY, []float64{a.Lon, a.Lat, b.Lon, b.Lat})
}

// GeoNode строит узел иерархии
func GeoNode(id int64, parent *int64, t domain.GeoType, name string, left, right int, polygon geom.T) *domain.GeoNode {
	return &domain.GeoNode{
		ID:       id,
		ParentID: parent,
		Type:     t,
		Name:     domain.MultiName{Uk: name},
		Left:     left,
		Right:    right,
		Polygon:  polygon,
	}
}

// Street строит улицу с текущим названием и необязательными прежними названиями (uk)
func Street(id, geoID int64, name string, g geom.T, former ...string) *domain.Street {
	return &domain.Street{
		ID:       id,
		GeoID:    geoID,
		Name:     domain.MultiName{Uk: name},
		History:  map[string][]string{domain.LangUk: append([]string{name}, former...)},
		Geometry: g,
	}
}

// IDs фрагмента Одессы
const (
	RegionOdesaID    int64 = 1
	CityOdesaID      int64 = 2
	PrymorskyiID     int64 = 3
	KyivskyiID       int64 = 4
	DerybasivskaID   int64 = 100
	PushkinskaID     int64 = 101
	HretskaID        int64 = 102
	KyivskyiStreetID int64 = 103
	AuroraComplexID  int64 = 500
	PerlynaComplexID int64 = 501
)

// PerlynaFootprintM - половина стороны футпринта ЖК "Перлина"
const PerlynaFootprintM = 60.0

// OdesaGeo - область, город и два района города (вложенность по nested set).
// Приморский район - квадрат 2x2 км вокруг Center, Киевский - в 5 км к югу.
func OdesaGeo() []*domain.GeoNode {
	region := RegionOdesaID
	city := CityOdesaID
	return []*domain.GeoNode{
		GeoNode(RegionOdesaID, nil, domain.GeoTypeRegion, "Одеська область", 1, 8, Square(Center, 50000)),
		GeoNode(CityOdesaID, &region, domain.GeoTypeCity, "Одеса", 2, 7, Square(Center, 10000)),
		GeoNode(PrymorskyiID, &city, domain.GeoTypeCityDistrict, "Приморський район", 3, 4, Square(Center, 1000)),
		GeoNode(KyivskyiID, &city, domain.GeoTypeCityDistrict, "Київський район", 5, 6, Square(Offset(Center, 0, -5000), 1000)),
	}
}

// OdesaStreets - улицы Приморского района и одна улица Киевского:
// Дерибасовская в 80 м к северу от Center, Пушкинская в 300 м к югу,
// Греческая в 600 м к северу (прежнее название - Карла Маркса).
func OdesaStreets() []*domain.Street {
	return []*domain.Street{
		Street(DerybasivskaID, PrymorskyiID, "Дерибасівська", HorizontalLine(Center, 80, 1000)),
		Street(PushkinskaID, PrymorskyiID, "Пушкінська", HorizontalLine(Center, -300, 1000)),
		Street(HretskaID, PrymorskyiID, "Грецька", HorizontalLine(Center, 600, 1000), "Карла Маркса"),
		Street(KyivskyiStreetID, KyivskyiID, "Академіка Корольова", HorizontalLine(Offset(Center, 0, -5000), 0, 1000)),
	}
}

// OdesaComplexes - ЖК "Аврора" на Греческой в Приморском районе (без футпринта)
// и ЖК "Перлина" с футпринтом в 2 км к востоку от Center
func OdesaComplexes() []*domain.ApartmentComplex {
	return []*domain.ApartmentComplex{
		{
			ID:       AuroraComplexID,
			Name:     domain.MultiName{Uk: "Аврора", En: "Aurora"},
			Centroid: Offset(Center, 0, 600),
			StreetID: domain.Int64Ptr(HretskaID),
			GeoID:    domain.Int64Ptr(PrymorskyiID),
			Source:   domain.ComplexSourceCSV,
		},
		{
			ID:        PerlynaComplexID,
			Name:      domain.MultiName{Uk: "Перлина"},
			Centroid:  Offset(Center, 2000, 0),
			Footprint: Square(Offset(Center, 2000, 0), PerlynaFootprintM),
			Source:    domain.ComplexSourceOSM,
			OSMID:     domain.Int64Ptr(9001),
		},
	}
}
