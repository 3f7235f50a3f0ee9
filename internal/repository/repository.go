package repository

import (
	"context"
	"errors"

	"tutorialapi/internal/model"
)

// ErrNotFound is returned when a collection or key does not exist.
var ErrNotFound = errors.New("record not found")

// Collections seeded into the default store.
const (
	CollectionItems    = "items"
	CollectionData     = "data"
	CollectionVehicles = "res"
)

// ItemRepository reads loosely typed records grouped in named collections.
// Records are returned as untyped maps; response models give them shape.
type ItemRepository interface {
	// Get returns a copy of the record stored under id in collection.
	Get(ctx context.Context, collection, id string) (map[string]any, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// UserRepository stores registered users.
type UserRepository interface {
	SaveUser(ctx context.Context, u model.UserInDB) error
}
