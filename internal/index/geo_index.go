package index

import (
	"sort"

	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/pkg/geometry"
)

// GeoIndex - неизменяемый индекс географической иерархии.
// Безопасен для параллельного чтения.
type GeoIndex struct {
	byID     map[int64]*domain.GeoNode
	byLeft   []*domain.GeoNode
	polygons []*domain.GeoNode
	grid     *geometry.Grid
}

// NewGeoIndex строит индекс. Узлы с неизвестным типом, пустыми границами nested set
// или не вложенные в своего родителя исключаются с предупреждением.
func NewGeoIndex(nodes []*domain.GeoNode, logger *zap.Logger) *GeoIndex {
	if logger == nil {
		logger = zap.NewNop()
	}

	all := make(map[int64]*domain.GeoNode, len(nodes))
	for _, n := range nodes {
		if n != nil {
			all[n.ID] = n
		}
	}

	idx := &GeoIndex{
		byID: make(map[int64]*domain.GeoNode, len(all)),
		grid: geometry.NewGrid(geometry.PrecisionCoarse),
	}

	for _, n := range nodes {
		if n == nil {
			continue
		}
		if reason := invalidNode(n, all); reason != "" {
			logger.Warn("Geo node excluded from index",
				zap.Int64("id", n.ID),
				zap.String("type", string(n.Type)),
				zap.String("reason", reason))
			continue
		}
		idx.byID[n.ID] = n
		idx.byLeft = append(idx.byLeft, n)
	}

	sort.Slice(idx.byLeft, func(i, j int) bool { return idx.byLeft[i].Left < idx.byLeft[j].Left })

	for _, n := range idx.byLeft {
		if n.Polygon == nil || !geometry.IsAreal(n.Polygon) {
			continue
		}
		idx.grid.Insert(len(idx.polygons), geometry.BoundsOf(n.Polygon))
		idx.polygons = append(idx.polygons, n)
	}

	logger.Info("Geo index built",
		zap.Int("nodes", len(idx.byLeft)),
		zap.Int("with_polygon", len(idx.polygons)),
		zap.Int("excluded", len(nodes)-len(idx.byLeft)))

	return idx
}

func invalidNode(n *domain.GeoNode, all map[int64]*domain.GeoNode) string {
	if !n.Type.Valid() {
		return "unknown type"
	}
	if n.Left >= n.Right {
		return "empty nested set bounds"
	}
	if n.ParentID != nil {
		parent, ok := all[*n.ParentID]
		if !ok {
			return "parent not found"
		}
		if !parent.Encloses(n) {
			return "bounds outside parent"
		}
	}
	return ""
}

// Resolve возвращает самый специфичный узел, полигон которого содержит точку:
// наименьший приоритет типа, при равенстве - больший left (глубже по дереву).
// nil, если точка не попала ни в один полигон или координаты невалидны.
func (g *GeoIndex) Resolve(p domain.Point) *domain.GeoNode {
	if !p.Valid() {
		return nil
	}

	var best *domain.GeoNode
	for _, i := range g.grid.QueryPoint(p.Lon, p.Lat) {
		n := g.polygons[i]
		if best != nil && !moreSpecific(n, best) {
			continue
		}
		if geometry.Contains(n.Polygon, p.Lon, p.Lat) {
			best = n
		}
	}
	return best
}

func moreSpecific(a, b *domain.GeoNode) bool {
	pa, pb := a.Type.Priority(), b.Type.Priority()
	if pa != pb {
		return pa < pb
	}
	return a.Left > b.Left
}

// Node возвращает узел по ID
func (g *GeoIndex) Node(id int64) *domain.GeoNode {
	return g.byID[id]
}

// Ancestors возвращает предков узла от корня вниз
func (g *GeoIndex) Ancestors(id int64) []*domain.GeoNode {
	n, ok := g.byID[id]
	if !ok {
		return nil
	}
	var out []*domain.GeoNode
	for _, candidate := range g.byLeft {
		if candidate.Left >= n.Left {
			break
		}
		if candidate.Encloses(n) {
			out = append(out, candidate)
		}
	}
	return out
}

// IsAncestor проверяет, что ancestor строго содержит node по nested set
func (g *GeoIndex) IsAncestor(ancestor, node int64) bool {
	a, ok := g.byID[ancestor]
	if !ok {
		return false
	}
	n, ok := g.byID[node]
	if !ok {
		return false
	}
	return a.Encloses(n)
}

// Len - число узлов в индексе
func (g *GeoIndex) Len() int {
	return len(g.byLeft)
}
