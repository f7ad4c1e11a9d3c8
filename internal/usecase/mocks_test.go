package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/listing-resolver/internal/domain"
)

type MockGeoNodeRepository struct {
	mock.Mock
}

func (m *MockGeoNodeRepository) LoadAll(ctx context.Context) ([]*domain.GeoNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GeoNode), args.Error(1)
}

type MockStreetRepository struct {
	mock.Mock
}

func (m *MockStreetRepository) LoadAll(ctx context.Context) ([]*domain.Street, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Street), args.Error(1)
}

type MockComplexRepository struct {
	mock.Mock
}

func (m *MockComplexRepository) LoadAll(ctx context.Context) ([]*domain.ApartmentComplex, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ApartmentComplex), args.Error(1)
}

func (m *MockComplexRepository) ReplaceAll(ctx context.Context, complexes []*domain.ApartmentComplex) error {
	args := m.Called(ctx, complexes)
	return args.Error(0)
}

func (m *MockComplexRepository) AssignReferences(ctx context.Context, id int64, streetID, geoID *int64) error {
	args := m.Called(ctx, id, streetID, geoID)
	return args.Error(0)
}

type MockOSMFeatureRepository struct {
	mock.Mock
}

func (m *MockOSMFeatureRepository) FeaturesInBBox(ctx context.Context, bbox domain.BoundingBox) ([]*domain.OSMFeature, error) {
	args := m.Called(ctx, bbox)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OSMFeature), args.Error(1)
}

type MockComplexRecordSource struct {
	mock.Mock
}

func (m *MockComplexRecordSource) ReadComplexes(ctx context.Context) ([]domain.ComplexRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplexRecord), args.Error(1)
}
