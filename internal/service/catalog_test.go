package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tutorialapi/internal/repository"
	repoMocks "tutorialapi/internal/repository/mocks"
)

func TestCatalogService_Lookup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		collection string
		id         string
		setupMocks func(mRepo *repoMocks.MockItemRepository)
		want       map[string]any
		wantErr    error
	}{
		{
			name:       "happy path",
			collection: "items",
			id:         "foo",
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Get", ctx, "items", "foo").Return(map[string]any{"name": "Foo"}, nil)
			},
			want: map[string]any{"name": "Foo"},
		},
		{
			name:       "validation - empty collection",
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {},
			wantErr:    ErrCollectionRequired,
		},
		{
			name:       "not found - mapping repository.ErrNotFound",
			collection: "items",
			id:         "missing",
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Get", ctx, "items", "missing").Return(nil, fmt.Errorf("items/missing: %w", repository.ErrNotFound))
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "generic repository error",
			collection: "items",
			id:         "boom",
			setupMocks: func(mRepo *repoMocks.MockItemRepository) {
				mRepo.On("Get", ctx, "items", "boom").Return(nil, errors.New("store fail"))
			},
			wantErr: errors.New("store fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockItemRepository)
			svc := NewCatalogService(mRepo)

			tt.setupMocks(mRepo)

			got, err := svc.Lookup(ctx, tt.collection, tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrCollectionRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Ping(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockItemRepository)
	mRepo.On("Ping", ctx).Return(errors.New("down")).Once()

	err := NewCatalogService(mRepo).Ping(ctx)

	assert.EqualError(t, err, "down")
	mRepo.AssertExpectations(t)
}
