package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tutorialapi/internal/model"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Lookup(ctx context.Context, collection, id string) (map[string]any, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockCatalogService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Save(ctx context.Context, in model.UserIn) (*model.UserInDB, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserInDB), args.Error(1)
}
