package index

import (
	"sort"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/matching"
	"github.com/listing-resolver/internal/pkg/geometry"
	"github.com/listing-resolver/internal/pkg/normalizer"
)

// StreetIndex - неизменяемый индекс улиц: пространственный поиск ближайшей улицы
// и поиск по нормализованным текущим и историческим названиям
type StreetIndex struct {
	streets []*domain.Street
	byID    map[int64]*domain.Street
	grid    *geometry.Grid

	byName  map[string][]*domain.Street
	byGeo   map[int64]map[string][]*domain.Street
	current map[int64]map[string]struct{}

	global *matching.CandidateSet
	scoped map[int64]*matching.CandidateSet
}

// NearestStreet - результат пространственного поиска
type NearestStreet struct {
	Street   *domain.Street
	Distance float64
}

// NewStreetIndex строит индекс. Улицы без линейной геометрии участвуют только в поиске по названию.
func NewStreetIndex(streets []*domain.Street, logger *zap.Logger) *StreetIndex {
	if logger == nil {
		logger = zap.NewNop()
	}

	idx := &StreetIndex{
		byID:    make(map[int64]*domain.Street, len(streets)),
		grid:    geometry.NewGrid(geometry.PrecisionFine),
		byName:  make(map[string][]*domain.Street),
		byGeo:   make(map[int64]map[string][]*domain.Street),
		current: make(map[int64]map[string]struct{}),
		scoped:  make(map[int64]*matching.CandidateSet),
	}

	for _, s := range streets {
		if s == nil {
			continue
		}
		if _, dup := idx.byID[s.ID]; dup {
			logger.Warn("Duplicate street skipped", zap.Int64("id", s.ID))
			continue
		}
		idx.byID[s.ID] = s
		idx.streets = append(idx.streets, s)
	}
	sort.Slice(idx.streets, func(i, j int) bool { return idx.streets[i].ID < idx.streets[j].ID })

	withGeometry := 0
	for i, s := range idx.streets {
		if s.Geometry != nil && geometry.IsLinear(s.Geometry) {
			if b := geometry.BoundsOf(s.Geometry); b != nil {
				idx.grid.Insert(i, b)
				withGeometry++
			}
		}

		cur := make(map[string]struct{})
		for _, v := range s.Name.Variants() {
			if key := normalizer.Normalize(v); key != "" {
				cur[key] = struct{}{}
			}
		}
		idx.current[s.ID] = cur

		for _, v := range s.NameVariants() {
			key := normalizer.Normalize(v)
			if key == "" {
				continue
			}
			idx.byName[key] = appendUnique(idx.byName[key], s)

			geo := idx.byGeo[s.GeoID]
			if geo == nil {
				geo = make(map[string][]*domain.Street)
				idx.byGeo[s.GeoID] = geo
			}
			geo[key] = appendUnique(geo[key], s)
		}
	}

	names := make([]string, 0, len(idx.byName))
	for k := range idx.byName {
		names = append(names, k)
	}
	idx.global = matching.NewCandidateSet(names...)

	for geoID, m := range idx.byGeo {
		scoped := make([]string, 0, len(m))
		for k := range m {
			scoped = append(scoped, k)
		}
		idx.scoped[geoID] = matching.NewCandidateSet(scoped...)
	}

	logger.Info("Street index built",
		zap.Int("streets", len(idx.streets)),
		zap.Int("with_geometry", withGeometry),
		zap.Int("names", len(idx.byName)),
		zap.Int("geo_nodes", len(idx.byGeo)))

	return idx
}

func appendUnique(list []*domain.Street, s *domain.Street) []*domain.Street {
	for _, x := range list {
		if x.ID == s.ID {
			return list
		}
	}
	return append(list, s)
}

// Nearest ищет ближайшую улицу в радиусе (граница включительно).
// Сначала среди улиц geoID; если там в радиусе ничего нет или geoID не задан - среди всех.
// При равном расстоянии побеждает меньший ID.
func (s *StreetIndex) Nearest(p domain.Point, geoID *int64, radiusM float64) *NearestStreet {
	if !p.Valid() || radiusM <= 0 {
		return nil
	}

	var scoped, closest *NearestStreet
	for _, i := range s.grid.Query(geometry.BoundsAround(p.Lon, p.Lat, radiusM)) {
		st := s.streets[i]
		d, ok := geometry.DistanceMeters(st.Geometry, p.Lon, p.Lat)
		if !ok || d > radiusM {
			continue
		}
		if closest == nil || d < closest.Distance {
			closest = &NearestStreet{Street: st, Distance: d}
		}
		if geoID != nil && st.GeoID == *geoID && (scoped == nil || d < scoped.Distance) {
			scoped = &NearestStreet{Street: st, Distance: d}
		}
	}

	if scoped != nil {
		return scoped
	}
	return closest
}

// ByNormalizedName возвращает все улицы, текущее или историческое название которых
// после нормализации равно name
func (s *StreetIndex) ByNormalizedName(name string) []*domain.Street {
	list := s.byName[name]
	out := make([]*domain.Street, len(list))
	copy(out, list)
	return out
}

// StreetByName выбирает улицу для найденного в тексте названия:
// в пределах geoID, если он задан, иначе по глобальному индексу. При нескольких - меньший ID.
func (s *StreetIndex) StreetByName(name string, geoID *int64) *domain.Street {
	var list []*domain.Street
	if geoID != nil {
		list = s.byGeo[*geoID][name]
	} else {
		list = s.byName[name]
	}
	if len(list) == 0 {
		return nil
	}
	best := list[0]
	for _, st := range list[1:] {
		if st.ID < best.ID {
			best = st
		}
	}
	return best
}

// NamesForGeo - нормализованные названия улиц гео-узла в порядке поиска в тексте
func (s *StreetIndex) NamesForGeo(geoID int64) *matching.CandidateSet {
	return s.scoped[geoID]
}

// GlobalNames - нормализованные названия всех улиц
func (s *StreetIndex) GlobalNames() *matching.CandidateSet {
	return s.global
}

// RenameLookup возвращает улицы, у которых oldName есть среди прежних названий,
// а текущее название другое
func (s *StreetIndex) RenameLookup(oldName string) []*domain.Street {
	key := normalizer.Normalize(oldName)
	var out []*domain.Street
	for _, st := range s.byName[key] {
		if _, isCurrent := s.current[st.ID][key]; isCurrent {
			continue
		}
		out = append(out, st)
	}
	return out
}

// Street возвращает улицу по ID
func (s *StreetIndex) Street(id int64) *domain.Street {
	return s.byID[id]
}

// Len - число улиц в индексе
func (s *StreetIndex) Len() int {
	return len(s.streets)
}
