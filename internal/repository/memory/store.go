// Package memory implements the repositories on process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tutorialapi/internal/model"
	"tutorialapi/internal/repository"
)

// Store is a mutex-guarded in-memory record store. Values are copied on the
// way in and out so callers never share maps with the store.
type Store struct {
	mu    sync.RWMutex
	data  map[string]map[string]map[string]any
	users map[string]model.UserInDB
}

var (
	_ repository.ItemRepository = (*Store)(nil)
	_ repository.UserRepository = (*Store)(nil)
)

func New() *Store {
	return &Store{
		data:  map[string]map[string]map[string]any{},
		users: map[string]model.UserInDB{},
	}
}

// NewSeeded returns a store holding the demo collections.
func NewSeeded() *Store {
	s := New()
	for coll, records := range seed() {
		for id, rec := range records {
			s.Put(coll, id, rec)
		}
	}
	return s
}

// Put stores a copy of rec under collection/id.
func (s *Store) Put(collection, id string, rec map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.data[collection]
	if !ok {
		coll = map[string]map[string]any{}
		s.data[collection] = coll
	}
	coll[id] = copyMap(rec)
}

func (s *Store) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, repository.ErrNotFound)
	}
	return copyMap(rec), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) SaveUser(ctx context.Context, u model.UserInDB) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
	return nil
}

// User returns the saved user with the given name.
func (s *Store) User(username string) (model.UserInDB, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	return u, ok
}

func copyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return append([]string{}, t...)
	default:
		return v
	}
}
