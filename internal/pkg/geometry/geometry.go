// Package geometry содержит геометрические операции поверх go-geom:
// попадание точки в полигон, расстояние от точки до линии в метрах и
// сеточный (geohash) префильтр для пространственного поиска.
package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/listing-resolver/internal/pkg/utils"
)

// Contains проверяет попадание точки в Polygon или MultiPolygon.
// Точка на границе считается внутри, точка в дыре - снаружи.
func Contains(g geom.T, lon, lat float64) bool {
	c := geom.Coord{lon, lat}
	switch t := g.(type) {
	case *geom.Polygon:
		return polygonContains(t, c)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if polygonContains(t.Polygon(i), c) {
				return true
			}
		}
	}
	return false
}

func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p == nil || p.NumLinearRings() == 0 {
		return false
	}
	if !p.Bounds().OverlapsPoint(geom.XY, c) {
		return false
	}
	layout := p.Layout()
	if !xy.IsPointInRing(layout, c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(layout, c, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// DistanceMeters возвращает минимальное расстояние от точки до линейной геометрии в метрах.
// Геометрия проецируется в локальную равнопромежуточную проекцию вокруг точки,
// погрешность на радиусах до 10 км - доли процента.
// Второе значение false, если геометрия пуста или не поддерживается.
func DistanceMeters(g geom.T, lon, lat float64) (float64, bool) {
	kx := utils.MetersPerDegreeLon(lat)
	ky := utils.MetersPerDegreeLat

	best := math.Inf(1)
	found := false

	visit := func(flat []float64, stride int) {
		if stride < 2 || len(flat) < stride {
			return
		}
		proj := make([]float64, 0, len(flat)/stride*2)
		for i := 0; i+1 < len(flat); i += stride {
			proj = append(proj, (flat[i]-lon)*kx, (flat[i+1]-lat)*ky)
		}

		var d float64
		if len(proj) == 2 {
			d = math.Hypot(proj[0], proj[1])
		} else {
			d = xy.DistanceFromPointToLineString(geom.XY, geom.Coord{0, 0}, proj)
		}
		if d < best {
			best = d
			found = true
		}
	}

	switch t := g.(type) {
	case *geom.LineString:
		visit(t.FlatCoords(), t.Stride())
	case *geom.MultiLineString:
		for i := 0; i < t.NumLineStrings(); i++ {
			ls := t.LineString(i)
			visit(ls.FlatCoords(), ls.Stride())
		}
	case *geom.Point:
		visit(t.FlatCoords(), t.Stride())
	case *geom.Polygon:
		if polygonContains(t, geom.Coord{lon, lat}) {
			return 0, true
		}
		for i := 0; i < t.NumLinearRings(); i++ {
			ring := t.LinearRing(i)
			visit(ring.FlatCoords(), ring.Stride())
		}
	}

	return best, found
}

// BoundsAround строит bbox вокруг точки с радиусом в метрах
func BoundsAround(lon, lat, radiusM float64) *geom.Bounds {
	dLat := radiusM / utils.MetersPerDegreeLat
	kx := utils.MetersPerDegreeLon(lat)
	dLon := 180.0
	if kx > 1e-9 {
		dLon = radiusM / kx
	}
	return geom.NewBounds(geom.XY).Set(lon-dLon, lat-dLat, lon+dLon, lat+dLat)
}

// BoundsOf возвращает bbox геометрии или nil для пустой геометрии
func BoundsOf(g geom.T) *geom.Bounds {
	if g == nil {
		return nil
	}
	b := g.Bounds()
	if b == nil || b.Min(0) > b.Max(0) || b.Min(1) > b.Max(1) {
		return nil
	}
	return b
}

// BoundsArea - площадь bbox в квадратных градусах, используется только для сравнения
func BoundsArea(b *geom.Bounds) float64 {
	if b == nil {
		return math.Inf(1)
	}
	return (b.Max(0) - b.Min(0)) * (b.Max(1) - b.Min(1))
}

// Centroid возвращает центр bbox геометрии (lon, lat)
func Centroid(g geom.T) (float64, float64, bool) {
	b := BoundsOf(g)
	if b == nil {
		return 0, 0, false
	}
	return (b.Min(0) + b.Max(0)) / 2, (b.Min(1) + b.Max(1)) / 2, true
}

// IsAreal - является ли геометрия площадной (полигон или мультиполигон)
func IsAreal(g geom.T) bool {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return true
	}
	return false
}

// IsLinear - является ли геометрия линейной (линия или мультилиния)
func IsLinear(g geom.T) bool {
	switch g.(type) {
	case *geom.LineString, *geom.MultiLineString:
		return true
	}
	return false
}
