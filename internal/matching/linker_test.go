package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	"github.com/listing-resolver/internal/pkg/utils"
)

const (
	testLat = 46.4600
	testLon = 30.7500
)

func northOf(meters float64) domain.Point {
	return domain.Point{Lat: testLat + meters/utils.MetersPerDegreeLat, Lon: testLon}
}

func osmFeature(id int64, name string, at domain.Point) *domain.OSMFeature {
	d := 0.0005
	return &domain.OSMFeature{
		OSMID:    id,
		Name:     domain.MultiName{Uk: name},
		Kind:     "apartments",
		Centroid: at,
		Geometry: geom.NewPolygonFlat(geom.XY, []float64{
			at.Lon - d, at.Lat - d,
			at.Lon + d, at.Lat - d,
			at.Lon + d, at.Lat + d,
			at.Lon - d, at.Lat + d,
			at.Lon - d, at.Lat - d,
		}, []int{10}),
	}
}

func record(name string, at domain.Point) domain.ComplexRecord {
	return domain.ComplexRecord{ExternalID: name, Name: domain.MultiName{Uk: name}, Centroid: at}
}

func TestLinker_DistanceThreshold(t *testing.T) {
	linker := NewLinker(DefaultLinkerConfig(), zap.NewNop())
	origin := domain.Point{Lat: testLat, Lon: testLon}

	t.Run("600m apart do not merge", func(t *testing.T) {
		res := linker.Link(
			[]domain.ComplexRecord{record("Аврора", origin)},
			[]*domain.OSMFeature{osmFeature(100, "ЖК Аврора", northOf(600))},
		)
		assert.Equal(t, 0, res.Merged)
		assert.Equal(t, 1, res.CSVOnly)
		assert.Equal(t, 1, res.OSMOnly)
		require.Len(t, res.Complexes, 2)
		assert.Equal(t, domain.ComplexSourceCSV, res.Complexes[0].Source)
		assert.Equal(t, domain.ComplexSourceOSM, res.Complexes[1].Source)
	})

	t.Run("200m apart merge", func(t *testing.T) {
		res := linker.Link(
			[]domain.ComplexRecord{record("Аврора", origin)},
			[]*domain.OSMFeature{osmFeature(100, "ЖК Аврора", northOf(200))},
		)
		assert.Equal(t, 1, res.Merged)
		require.Len(t, res.Complexes, 1)

		c := res.Complexes[0]
		assert.Equal(t, domain.ComplexSourceMerged, c.Source)
		assert.Equal(t, int64(1), c.ID)
		require.NotNil(t, c.OSMID)
		assert.Equal(t, int64(100), *c.OSMID)
		assert.NotNil(t, c.Footprint)
		assert.Equal(t, origin, c.Centroid, "centroid comes from the curated record")
	})
}

func TestLinker_Score(t *testing.T) {
	linker := NewLinker(DefaultLinkerConfig(), nil)

	assert.InDelta(t, 0.92, linker.Score(1.0, 200), 1e-9)
	assert.InDelta(t, 0.8, linker.Score(1.0, 500), 1e-9)
	assert.InDelta(t, 0.72, linker.Score(0.9, 500), 1e-9)
}

func TestLinker_LowSimilarityNotMerged(t *testing.T) {
	linker := NewLinker(DefaultLinkerConfig(), nil)
	origin := domain.Point{Lat: testLat, Lon: testLon}

	res := linker.Link(
		[]domain.ComplexRecord{record("Перлина", origin)},
		[]*domain.OSMFeature{osmFeature(1, "Аврора", origin)},
	)
	assert.Equal(t, 0, res.Merged)
	assert.Len(t, res.Complexes, 2)
}

func TestLinker_FeatureMergedAtMostOnce(t *testing.T) {
	linker := NewLinker(DefaultLinkerConfig(), nil)
	origin := domain.Point{Lat: testLat, Lon: testLon}

	// обе записи похожи на один объект OSM; ближняя получает его, дальняя остается сама по себе
	res := linker.Link(
		[]domain.ComplexRecord{
			record("Аврора", northOf(300)),
			record("Аврора", northOf(20)),
		},
		[]*domain.OSMFeature{osmFeature(7, "Аврора", origin)},
	)

	require.Len(t, res.Complexes, 2)
	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, domain.ComplexSourceCSV, res.Complexes[0].Source)
	assert.Equal(t, domain.ComplexSourceMerged, res.Complexes[1].Source)
	assert.Equal(t, []int64{1, 2}, []int64{res.Complexes[0].ID, res.Complexes[1].ID})
}

func TestLinker_BestCandidateWins(t *testing.T) {
	linker := NewLinker(DefaultLinkerConfig(), nil)
	origin := domain.Point{Lat: testLat, Lon: testLon}

	res := linker.Link(
		[]domain.ComplexRecord{record("Аврора", origin)},
		[]*domain.OSMFeature{
			osmFeature(1, "Аврора Плюс", northOf(10)),
			osmFeature(2, "Аврора", northOf(100)),
		},
	)

	require.Len(t, res.Complexes, 2)
	merged := res.Complexes[0]
	require.NotNil(t, merged.OSMID)
	assert.Equal(t, int64(2), *merged.OSMID)
	assert.Equal(t, int64(1), *res.Complexes[1].OSMID)
	assert.Equal(t, domain.ComplexSourceOSM, res.Complexes[1].Source)
}

func TestLinker_FillsMissingLanguages(t *testing.T) {
	linker := NewLinker(DefaultLinkerConfig(), nil)
	origin := domain.Point{Lat: testLat, Lon: testLon}

	f := osmFeature(3, "Аврора", origin)
	f.Name.En = "Aurora"

	res := linker.Link([]domain.ComplexRecord{record("Аврора", origin)}, []*domain.OSMFeature{f})
	require.Len(t, res.Complexes, 1)
	assert.Equal(t, domain.MultiName{Uk: "Аврора", En: "Aurora"}, res.Complexes[0].Name)
}
