package geometry

import (
	"math"
	"sort"

	"github.com/mmcloughlin/geohash"
	"github.com/twpayne/go-geom"
)

const (
	// PrecisionCoarse - ячейка ~39x19 км, для административных полигонов
	PrecisionCoarse uint = 4
	// PrecisionFine - ячейка ~1.2x0.6 км, для улиц и футпринтов ЖК
	PrecisionFine uint = 6

	// maxCellsPerItem - объекты, покрывающие больше ячеек, хранятся отдельным списком
	maxCellsPerItem = 4096
)

// Grid - неизменяемый после построения сеточный индекс по ячейкам geohash.
// Хранит целочисленные идентификаторы (обычно индексы в слайсе владельца).
type Grid struct {
	precision uint
	cells     map[string][]int
	oversized []int
}

// NewGrid создает пустую сетку с заданной точностью geohash
func NewGrid(precision uint) *Grid {
	return &Grid{
		precision: precision,
		cells:     make(map[string][]int),
	}
}

// Insert добавляет объект с заданным bbox в сетку
func (g *Grid) Insert(id int, b *geom.Bounds) {
	if b == nil {
		return
	}
	hashes, ok := g.cover(b)
	if !ok {
		g.oversized = append(g.oversized, id)
		return
	}
	for _, h := range hashes {
		g.cells[h] = append(g.cells[h], id)
	}
}

// Query возвращает отсортированные без повторов идентификаторы объектов,
// чьи ячейки пересекаются с bbox. Это кандидаты, точная проверка - на вызывающем.
func (g *Grid) Query(b *geom.Bounds) []int {
	seen := make(map[int]struct{})
	for _, id := range g.oversized {
		seen[id] = struct{}{}
	}

	hashes, ok := g.cover(b)
	if !ok {
		// запрос крупнее лимита: проходим по всем ячейкам
		for _, ids := range g.cells {
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		}
	} else {
		for _, h := range hashes {
			for _, id := range g.cells[h] {
				seen[id] = struct{}{}
			}
		}
	}

	result := make([]int, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	sort.Ints(result)
	return result
}

// QueryPoint возвращает кандидатов для одной точки
func (g *Grid) QueryPoint(lon, lat float64) []int {
	return g.Query(geom.NewBounds(geom.XY).Set(lon, lat, lon, lat))
}

// cover перечисляет ячейки geohash, покрывающие bbox.
// На фиксированной точности ячейки образуют регулярную сетку,
// поэтому достаточно шагать по центрам от угловой ячейки.
func (g *Grid) cover(b *geom.Bounds) ([]string, bool) {
	minLon, minLat := clampLon(b.Min(0)), clampLat(b.Min(1))
	maxLon, maxLat := clampLon(b.Max(0)), clampLat(b.Max(1))

	corner := geohash.BoundingBox(geohash.EncodeWithPrecision(minLat, minLon, g.precision))
	dLat := corner.MaxLat - corner.MinLat
	dLon := corner.MaxLng - corner.MinLng
	if dLat <= 0 || dLon <= 0 {
		return nil, false
	}

	nLat := int(math.Floor((maxLat-corner.MinLat)/dLat)) + 1
	nLon := int(math.Floor((maxLon-corner.MinLng)/dLon)) + 1
	if nLat <= 0 || nLon <= 0 || nLat*nLon > maxCellsPerItem {
		return nil, false
	}

	hashes := make([]string, 0, nLat*nLon)
	for i := 0; i < nLat; i++ {
		lat := clampLat(corner.MinLat + (float64(i)+0.5)*dLat)
		for j := 0; j < nLon; j++ {
			lon := clampLon(corner.MinLng + (float64(j)+0.5)*dLon)
			hashes = append(hashes, geohash.EncodeWithPrecision(lat, lon, g.precision))
		}
	}
	return hashes, true
}

func clampLat(lat float64) float64 {
	return math.Max(-89.999999, math.Min(89.999999, lat))
}

func clampLon(lon float64) float64 {
	return math.Max(-179.999999, math.Min(179.999999, lon))
}
