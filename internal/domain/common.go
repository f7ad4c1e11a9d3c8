package domain

import "github.com/listing-resolver/internal/pkg/utils"

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Valid проверяет, что координаты пригодны для геометрических шагов
func (p Point) Valid() bool {
	return utils.ValidateCoordinates(p.Lat, p.Lon)
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat" mapstructure:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon" mapstructure:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat" mapstructure:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon" mapstructure:"max_lon"`
}

// Valid проверяет, что bbox непустой и лежит в допустимых границах
func (b BoundingBox) Valid() bool {
	return b.MinLat < b.MaxLat && b.MinLon < b.MaxLon &&
		b.MinLat >= -90 && b.MaxLat <= 90 &&
		b.MinLon >= -180 && b.MaxLon <= 180
}

// Contains проверяет попадание точки в bbox (границы включительно)
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Int64Ptr возвращает указатель на значение
func Int64Ptr(v int64) *int64 {
	return &v
}
