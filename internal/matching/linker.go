package matching

import (
	"sort"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/pkg/geometry"
	"github.com/listing-resolver/internal/pkg/utils"
)

const (
	// DefaultMatchRadius - максимальное расстояние между записью CSV и объектом OSM, м
	DefaultMatchRadius = 500.0
	// DefaultMatchThreshold - минимальный счет для слияния (строго больше)
	DefaultMatchThreshold = 0.5
	// DefaultDistancePenalty - доля счета, которую съедает расстояние на границе радиуса
	DefaultDistancePenalty = 0.2
	// DefaultFuzzyLookupThreshold - минимальное отношение Левенштейна для нечеткого поиска ЖК
	DefaultFuzzyLookupThreshold = 0.9
)

// LinkerConfig - пороги связывания записей ЖК из разных источников
type LinkerConfig struct {
	MatchRadius     float64
	MatchThreshold  float64
	DistancePenalty float64
}

// DefaultLinkerConfig возвращает пороги по умолчанию
func DefaultLinkerConfig() LinkerConfig {
	return LinkerConfig{
		MatchRadius:     DefaultMatchRadius,
		MatchThreshold:  DefaultMatchThreshold,
		DistancePenalty: DefaultDistancePenalty,
	}
}

// LinkResult - итог связывания
type LinkResult struct {
	Complexes []*domain.ApartmentComplex
	Records   int
	Features  int
	Merged    int
	CSVOnly   int
	OSMOnly   int
}

// Linker объединяет записи ЖК из CSV и объекты OSM в одну таблицу
type Linker struct {
	cfg    LinkerConfig
	logger *zap.Logger
}

// NewLinker создает Linker
func NewLinker(cfg LinkerConfig, logger *zap.Logger) *Linker {
	if cfg.MatchRadius <= 0 {
		cfg.MatchRadius = DefaultMatchRadius
	}
	if cfg.DistancePenalty < 0 {
		cfg.DistancePenalty = DefaultDistancePenalty
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linker{cfg: cfg, logger: logger}
}

type linkPair struct {
	record  int
	feature int
	score   float64
}

// Score считает счет пары: сходство названий, уменьшенное пропорционально расстоянию
func (l *Linker) Score(nameSimilarity, distanceM float64) float64 {
	return nameSimilarity * (1 - l.cfg.DistancePenalty*distanceM/l.cfg.MatchRadius)
}

// Link связывает записи. Каждый объект OSM сливается не более чем с одной записью CSV:
// пары выбираются жадно по убыванию счета (при равенстве - меньший номер строки CSV,
// затем меньший OSM ID). Идентификаторы результата назначаются с 1 по порядку:
// сначала записи CSV в исходном порядке, затем оставшиеся объекты OSM по OSM ID.
func (l *Linker) Link(records []domain.ComplexRecord, features []*domain.OSMFeature) LinkResult {
	sorted := make([]*domain.OSMFeature, 0, len(features))
	for _, f := range features {
		if f != nil {
			sorted = append(sorted, f)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OSMID < sorted[j].OSMID })

	grid := geometry.NewGrid(geometry.PrecisionFine)
	for i, f := range sorted {
		grid.Insert(i, geometry.BoundsAround(f.Centroid.Lon, f.Centroid.Lat, 0))
	}

	var pairs []linkPair
	for i, rec := range records {
		if !rec.Centroid.Valid() {
			continue
		}
		area := geometry.BoundsAround(rec.Centroid.Lon, rec.Centroid.Lat, l.cfg.MatchRadius)
		for _, j := range grid.Query(area) {
			f := sorted[j]
			d := utils.HaversineDistance(rec.Centroid.Lat, rec.Centroid.Lon, f.Centroid.Lat, f.Centroid.Lon)
			if d > l.cfg.MatchRadius {
				continue
			}
			score := l.Score(NameSimilarity(rec.Name, f.Name), d)
			if score > l.cfg.MatchThreshold {
				pairs = append(pairs, linkPair{record: i, feature: j, score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].score != pairs[b].score {
			return pairs[a].score > pairs[b].score
		}
		if pairs[a].record != pairs[b].record {
			return pairs[a].record < pairs[b].record
		}
		return sorted[pairs[a].feature].OSMID < sorted[pairs[b].feature].OSMID
	})

	recordMatch := make(map[int]int)
	featureUsed := make(map[int]bool)
	for _, p := range pairs {
		if _, ok := recordMatch[p.record]; ok || featureUsed[p.feature] {
			continue
		}
		recordMatch[p.record] = p.feature
		featureUsed[p.feature] = true
	}

	result := LinkResult{
		Complexes: make([]*domain.ApartmentComplex, 0, len(records)+len(sorted)-len(featureUsed)),
		Records:   len(records),
		Features:  len(sorted),
	}
	nextID := int64(1)

	for i, rec := range records {
		c := &domain.ApartmentComplex{
			ID:       nextID,
			Name:     rec.Name,
			Centroid: rec.Centroid,
			Source:   domain.ComplexSourceCSV,
		}
		if j, ok := recordMatch[i]; ok {
			f := sorted[j]
			c.Source = domain.ComplexSourceMerged
			c.Footprint = f.Geometry
			c.OSMID = domain.Int64Ptr(f.OSMID)
			c.Name = fillMissingNames(rec.Name, f.Name)
			result.Merged++
		} else {
			result.CSVOnly++
		}
		result.Complexes = append(result.Complexes, c)
		nextID++
	}

	for j, f := range sorted {
		if featureUsed[j] {
			continue
		}
		result.Complexes = append(result.Complexes, &domain.ApartmentComplex{
			ID:        nextID,
			Name:      f.Name,
			Centroid:  f.Centroid,
			Footprint: f.Geometry,
			Source:    domain.ComplexSourceOSM,
			OSMID:     domain.Int64Ptr(f.OSMID),
		})
		result.OSMOnly++
		nextID++
	}

	l.logger.Info("Complex records linked",
		zap.Int("csv_records", len(records)),
		zap.Int("osm_features", len(sorted)),
		zap.Int("merged", result.Merged),
		zap.Int("csv_only", result.CSVOnly),
		zap.Int("osm_only", result.OSMOnly))

	return result
}

// fillMissingNames оставляет названия CSV и добавляет языки, которых в CSV нет
func fillMissingNames(primary, secondary domain.MultiName) domain.MultiName {
	out := primary
	if out.Uk == "" {
		out.Uk = secondary.Uk
	}
	if out.Ru == "" {
		out.Ru = secondary.Ru
	}
	if out.En == "" {
		out.En = secondary.En
	}
	return out
}
