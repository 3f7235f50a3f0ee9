package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tutorialapi/internal/model"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockItemRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, u model.UserInDB) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
