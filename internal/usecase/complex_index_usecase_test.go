package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/listing-resolver/internal/domain"
	th "github.com/listing-resolver/internal/index/testhelpers"
	"github.com/listing-resolver/internal/matching"
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/usecase"
)

var odesaBBox = domain.BoundingBox{MinLat: 46.3, MinLon: 30.6, MaxLat: 46.6, MaxLon: 30.9}

func newComplexIndexUseCase(source *MockComplexRecordSource, osm *MockOSMFeatureRepository, repo *MockComplexRepository) *usecase.ComplexIndexUseCase {
	return usecase.NewComplexIndexUseCase(
		source, osm, repo,
		matching.NewLinker(matching.DefaultLinkerConfig(), nil),
		[]float64{200, 500, 5000},
		nil,
	)
}

func TestComplexIndexUseCase_Rebuild(t *testing.T) {
	source := new(MockComplexRecordSource)
	osm := new(MockOSMFeatureRepository)
	repo := new(MockComplexRepository)

	near := th.Offset(th.Center, 0, 85)
	source.On("ReadComplexes", mock.Anything).Return([]domain.ComplexRecord{
		{ExternalID: "a-1", Name: domain.MultiName{Uk: "Аврора"}, Centroid: near},
		{ExternalID: "a-2", Name: domain.MultiName{Uk: "Садиба"}, Centroid: th.Offset(th.Center, 0, -5000)},
	}, nil)
	osm.On("FeaturesInBBox", mock.Anything, odesaBBox).Return([]*domain.OSMFeature{
		// центроид не задан, берется из геометрии
		{OSMID: 77, Name: domain.MultiName{Uk: "Аврора", En: "Aurora"}, Kind: "building", Geometry: th.Square(near, 30)},
		{OSMID: 78, Name: domain.MultiName{Uk: "Чорноморський"}, Kind: "landuse", Geometry: th.Square(th.Offset(th.Center, 9000, 9000), 100)},
	}, nil)

	var stored []*domain.ApartmentComplex
	repo.On("ReplaceAll", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).([]*domain.ApartmentComplex)
		}).
		Return(nil)

	snap := odesaSnapshot()
	report, err := newComplexIndexUseCase(source, osm, repo).Rebuild(context.Background(), snap, odesaBBox)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 2, report.Features)
	assert.Equal(t, 1, report.Merged)
	assert.Equal(t, 1, report.CSVOnly)
	assert.Equal(t, 1, report.OSMOnly)
	assert.Equal(t, 3, report.WithGeo)

	require.Len(t, stored, 3)

	aurora := stored[0]
	assert.Equal(t, int64(1), aurora.ID)
	assert.Equal(t, domain.ComplexSourceMerged, aurora.Source)
	require.NotNil(t, aurora.OSMID)
	assert.Equal(t, int64(77), *aurora.OSMID)
	assert.Equal(t, "Aurora", aurora.Name.En)
	require.NotNil(t, aurora.GeoID)
	assert.Equal(t, th.PrymorskyiID, *aurora.GeoID)
	require.NotNil(t, aurora.StreetID)
	assert.Equal(t, th.DerybasivskaID, *aurora.StreetID)

	sadyba := stored[1]
	assert.Equal(t, domain.ComplexSourceCSV, sadyba.Source)
	require.NotNil(t, sadyba.GeoID)
	assert.Equal(t, th.KyivskyiID, *sadyba.GeoID)
	require.NotNil(t, sadyba.StreetID)
	assert.Equal(t, th.KyivskyiStreetID, *sadyba.StreetID)

	osmOnly := stored[2]
	assert.Equal(t, int64(3), osmOnly.ID)
	assert.Equal(t, domain.ComplexSourceOSM, osmOnly.Source)
	assert.True(t, osmOnly.Centroid.Valid())
	require.NotNil(t, osmOnly.GeoID)
	assert.Equal(t, th.CityOdesaID, *osmOnly.GeoID)
	assert.Nil(t, osmOnly.StreetID, "no street within the widest radius")

	source.AssertExpectations(t)
	osm.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestComplexIndexUseCase_SourceError(t *testing.T) {
	source := new(MockComplexRecordSource)
	osm := new(MockOSMFeatureRepository)
	repo := new(MockComplexRepository)

	source.On("ReadComplexes", mock.Anything).Return(nil, stderrors.New("bad header"))

	_, err := newComplexIndexUseCase(source, osm, repo).Rebuild(context.Background(), odesaSnapshot(), odesaBBox)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSourceError))

	osm.AssertNotCalled(t, "FeaturesInBBox", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything)
}

func TestComplexIndexUseCase_InvalidBBox(t *testing.T) {
	source := new(MockComplexRecordSource)
	osm := new(MockOSMFeatureRepository)
	repo := new(MockComplexRepository)

	_, err := newComplexIndexUseCase(source, osm, repo).Build(context.Background(), domain.BoundingBox{})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidConfig))
	source.AssertNotCalled(t, "ReadComplexes", mock.Anything)
}

func TestComplexIndexUseCase_ReplaceFailure(t *testing.T) {
	source := new(MockComplexRecordSource)
	osm := new(MockOSMFeatureRepository)
	repo := new(MockComplexRepository)

	source.On("ReadComplexes", mock.Anything).Return([]domain.ComplexRecord{}, nil)
	osm.On("FeaturesInBBox", mock.Anything, odesaBBox).Return([]*domain.OSMFeature{}, nil)
	repo.On("ReplaceAll", mock.Anything, mock.Anything).Return(stderrors.New("tx aborted"))

	_, err := newComplexIndexUseCase(source, osm, repo).Rebuild(context.Background(), odesaSnapshot(), odesaBBox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tx aborted")
}

func TestComplexIndexUseCase_EnrichStored(t *testing.T) {
	source := new(MockComplexRecordSource)
	osm := new(MockOSMFeatureRepository)
	repo := new(MockComplexRepository)

	repo.On("LoadAll", mock.Anything).Return([]*domain.ApartmentComplex{
		{ID: 1, Name: domain.MultiName{Uk: "Готовий"}, Centroid: th.Center,
			StreetID: domain.Int64Ptr(th.PushkinskaID), GeoID: domain.Int64Ptr(th.PrymorskyiID)},
		{ID: 2, Name: domain.MultiName{Uk: "Новий"}, Centroid: th.Offset(th.Center, 0, 590)},
		{ID: 3, Name: domain.MultiName{Uk: "Далекий"}, Centroid: domain.Point{Lat: 50.45, Lon: 30.52}},
	}, nil)
	repo.On("AssignReferences", mock.Anything, int64(2),
		domain.Int64Ptr(th.HretskaID), domain.Int64Ptr(th.PrymorskyiID)).Return(nil)

	updated, err := newComplexIndexUseCase(source, osm, repo).EnrichStored(context.Background(), odesaSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "AssignReferences", 1)
}
