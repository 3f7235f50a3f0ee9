package service

import (
	"context"
	"errors"

	"tutorialapi/internal/repository"
)

var (
	ErrCollectionRequired = errors.New("collection is required")
	ErrNotFound           = errors.New("item not found")
)

// CatalogService reads catalog records.
type CatalogService interface {
	// Lookup returns the record stored under id in collection.
	Lookup(ctx context.Context, collection, id string) (map[string]any, error)

	// Ping checks the backing store.
	Ping(ctx context.Context) error
}

type catalogService struct {
	repo repository.ItemRepository
}

func NewCatalogService(repo repository.ItemRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) Lookup(ctx context.Context, collection, id string) (map[string]any, error) {
	if collection == "" {
		return nil, ErrCollectionRequired
	}
	rec, err := s.repo.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *catalogService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
