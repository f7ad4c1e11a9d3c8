package index

import (
	"sort"
	"unicode/utf8"

	"github.com/armon/go-radix"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/matching"
	"github.com/listing-resolver/internal/pkg/geometry"
	"github.com/listing-resolver/internal/pkg/normalizer"
)

// fuzzyBlockRunes - длина префикса, по которому отбираются кандидаты для нечеткого поиска
const fuzzyBlockRunes = 2

// ComplexIndex - неизменяемый индекс ЖК: точный и нечеткий поиск по названию
// (radix-дерево нормализованных названий) и поиск по попаданию в футпринт
type ComplexIndex struct {
	complexes  []*domain.ApartmentComplex
	byID       map[int64]*domain.ApartmentComplex
	names      *radix.Tree
	grid       *geometry.Grid
	footprints []*domain.ApartmentComplex
}

// NewComplexIndex строит индекс по всем языковым вариантам названий
func NewComplexIndex(complexes []*domain.ApartmentComplex, logger *zap.Logger) *ComplexIndex {
	if logger == nil {
		logger = zap.NewNop()
	}

	idx := &ComplexIndex{
		byID:  make(map[int64]*domain.ApartmentComplex, len(complexes)),
		names: radix.New(),
		grid:  geometry.NewGrid(geometry.PrecisionFine),
	}

	for _, c := range complexes {
		if c == nil {
			continue
		}
		if _, dup := idx.byID[c.ID]; dup {
			logger.Warn("Duplicate complex skipped", zap.Int64("id", c.ID))
			continue
		}
		idx.byID[c.ID] = c
		idx.complexes = append(idx.complexes, c)
	}
	sort.Slice(idx.complexes, func(i, j int) bool { return idx.complexes[i].ID < idx.complexes[j].ID })

	for _, c := range idx.complexes {
		for _, v := range c.Name.Variants() {
			key := normalizer.Normalize(v)
			if key == "" {
				continue
			}
			// первым остается ЖК с меньшим ID
			if _, exists := idx.names.Get(key); !exists {
				idx.names.Insert(key, c)
			}
		}

		if c.Footprint != nil && geometry.IsAreal(c.Footprint) {
			idx.grid.Insert(len(idx.footprints), geometry.BoundsOf(c.Footprint))
			idx.footprints = append(idx.footprints, c)
		}
	}

	logger.Info("Complex index built",
		zap.Int("complexes", len(idx.complexes)),
		zap.Int("names", idx.names.Len()),
		zap.Int("with_footprint", len(idx.footprints)))

	return idx
}

// ByName ищет ЖК по точному нормализованному названию
func (c *ComplexIndex) ByName(normalized string) *domain.ApartmentComplex {
	v, ok := c.names.Get(normalized)
	if !ok {
		return nil
	}
	return v.(*domain.ApartmentComplex)
}

// Fuzzy ищет ЖК с наибольшим отношением Левенштейна не ниже threshold.
// Кандидаты отбираются по общему префиксу из первых двух символов.
// При равном счете побеждает меньший ID.
func (c *ComplexIndex) Fuzzy(normalized string, threshold float64) (*domain.ApartmentComplex, float64) {
	if utf8.RuneCountInString(normalized) < fuzzyBlockRunes || threshold <= 0 {
		return nil, 0
	}

	prefix := string([]rune(normalized)[:fuzzyBlockRunes])

	var best *domain.ApartmentComplex
	bestScore := 0.0
	c.names.WalkPrefix(prefix, func(key string, v interface{}) bool {
		score := matching.LevenshteinRatio(normalized, key)
		if score < threshold {
			return false
		}
		cx := v.(*domain.ApartmentComplex)
		if best == nil || score > bestScore || (score == bestScore && cx.ID < best.ID) {
			best, bestScore = cx, score
		}
		return false
	})
	return best, bestScore
}

// Containing возвращает ЖК, в футпринт которого попадает точка.
// При нескольких - с наименьшей площадью bbox, затем с меньшим ID.
func (c *ComplexIndex) Containing(p domain.Point) *domain.ApartmentComplex {
	if !p.Valid() {
		return nil
	}

	var best *domain.ApartmentComplex
	bestArea := 0.0
	for _, i := range c.grid.QueryPoint(p.Lon, p.Lat) {
		cx := c.footprints[i]
		if !geometry.Contains(cx.Footprint, p.Lon, p.Lat) {
			continue
		}
		area := geometry.BoundsArea(geometry.BoundsOf(cx.Footprint))
		if best == nil || area < bestArea || (area == bestArea && cx.ID < best.ID) {
			best, bestArea = cx, area
		}
	}
	return best
}

// Complex возвращает ЖК по ID
func (c *ComplexIndex) Complex(id int64) *domain.ApartmentComplex {
	return c.byID[id]
}

// All возвращает все ЖК по возрастанию ID
func (c *ComplexIndex) All() []*domain.ApartmentComplex {
	out := make([]*domain.ApartmentComplex, len(c.complexes))
	copy(out, c.complexes)
	return out
}

// Len - число ЖК в индексе
func (c *ComplexIndex) Len() int {
	return len(c.complexes)
}

var _ matching.ComplexLookup = (*ComplexIndex)(nil)
