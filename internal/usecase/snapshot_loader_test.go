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
	"github.com/listing-resolver/internal/pkg/errors"
	"github.com/listing-resolver/internal/usecase"
)

func TestSnapshotLoader_Load(t *testing.T) {
	geoRepo := new(MockGeoNodeRepository)
	streetRepo := new(MockStreetRepository)
	complexRepo := new(MockComplexRepository)

	geoRepo.On("LoadAll", mock.Anything).Return(th.OdesaGeo(), nil)
	streetRepo.On("LoadAll", mock.Anything).Return(th.OdesaStreets(), nil)
	complexRepo.On("LoadAll", mock.Anything).Return(th.OdesaComplexes(), nil)

	snap, err := usecase.NewSnapshotLoader(geoRepo, streetRepo, complexRepo, nil).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, snap.Geo.Len())
	assert.Equal(t, 4, snap.Streets.Len())
	assert.Equal(t, 2, snap.Complexes.Len())
	assert.False(t, snap.BuiltAt.IsZero())

	geoRepo.AssertExpectations(t)
	streetRepo.AssertExpectations(t)
	complexRepo.AssertExpectations(t)
}

func TestSnapshotLoader_RepositoryError(t *testing.T) {
	geoRepo := new(MockGeoNodeRepository)
	streetRepo := new(MockStreetRepository)
	complexRepo := new(MockComplexRepository)

	geoRepo.On("LoadAll", mock.Anything).Return(th.OdesaGeo(), nil)
	streetRepo.On("LoadAll", mock.Anything).Return(nil, stderrors.New("connection refused"))
	complexRepo.On("LoadAll", mock.Anything).Return([]*domain.ApartmentComplex{}, nil).Maybe()

	snap, err := usecase.NewSnapshotLoader(geoRepo, streetRepo, complexRepo, nil).Load(context.Background())
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSnapshotInvalid))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSnapshotLoader_EmptyHierarchy(t *testing.T) {
	geoRepo := new(MockGeoNodeRepository)
	streetRepo := new(MockStreetRepository)
	complexRepo := new(MockComplexRepository)

	geoRepo.On("LoadAll", mock.Anything).Return([]*domain.GeoNode{}, nil)
	streetRepo.On("LoadAll", mock.Anything).Return(th.OdesaStreets(), nil)
	complexRepo.On("LoadAll", mock.Anything).Return(nil, nil)

	_, err := usecase.NewSnapshotLoader(geoRepo, streetRepo, complexRepo, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSnapshotInvalid))
}
