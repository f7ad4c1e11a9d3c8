package geometry

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// SRID4326 - WGS84, в нем хранятся все геометрии справочников
const SRID4326 = 4326

// DecodeEWKB разбирает результат ST_AsEWKB. Пустой ввод (NULL в базе) - nil без ошибки.
func DecodeEWKB(data []byte) (geom.T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode ewkb: %w", err)
	}
	return g, nil
}

// EncodeEWKB готовит геометрию для ST_GeomFromEWKB. nil геометрия - NULL.
func EncodeEWKB(g geom.T) ([]byte, error) {
	if g == nil {
		return nil, nil
	}
	if g.SRID() == 0 {
		g = withSRID(g)
	}
	data, err := ewkb.Marshal(g, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode ewkb: %w", err)
	}
	return data, nil
}

func withSRID(g geom.T) geom.T {
	switch t := g.(type) {
	case *geom.Point:
		return t.Clone().SetSRID(SRID4326)
	case *geom.LineString:
		return t.Clone().SetSRID(SRID4326)
	case *geom.MultiLineString:
		return t.Clone().SetSRID(SRID4326)
	case *geom.Polygon:
		return t.Clone().SetSRID(SRID4326)
	case *geom.MultiPolygon:
		return t.Clone().SetSRID(SRID4326)
	}
	return g
}
