package repository

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// InMemoryRepository is the simplest Repository implementation,
// backed by a mutex-guarded map.
//
// It is useful for tests and as a reference implementation.
// All entities are kept in memory, so be aware that with a large
// amount of entities you can go out of the memory.
type InMemoryRepository[ID comparable, T any] struct {
	entityID func(T) ID

	lock     sync.RWMutex
	entities map[ID]T
	order    []ID
}

// NewInMemoryRepository creates an InMemoryRepository.
//
// The entityID function extracts the identifier an entity is stored under.
func NewInMemoryRepository[ID comparable, T any](entityID func(T) ID) *InMemoryRepository[ID, T] {
	if entityID == nil {
		panic("missing entityID func")
	}

	return &InMemoryRepository[ID, T]{
		entityID: entityID,
		entities: make(map[ID]T),
	}
}

// Save inserts or updates the entity.
func (r *InMemoryRepository[ID, T]) Save(ctx context.Context, entity T) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.save(entity)

	return nil
}

// SaveAll inserts or updates all entities, preserving their order.
func (r *InMemoryRepository[ID, T]) SaveAll(ctx context.Context, entities []T) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, entity := range entities {
		r.save(entity)
	}

	return nil
}

func (r *InMemoryRepository[ID, T]) save(entity T) {
	id := r.entityID(entity)

	if _, exists := r.entities[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entities[id] = entity
}

// FindByID returns the entity stored under id or ErrNotFound.
func (r *InMemoryRepository[ID, T]) FindByID(ctx context.Context, id ID) (T, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	entity, ok := r.entities[id]
	if !ok {
		var zero T
		return zero, errors.WithStack(ErrNotFound)
	}

	return entity, nil
}

// FindAll returns all stored entities in insertion order.
func (r *InMemoryRepository[ID, T]) FindAll(ctx context.Context) ([]T, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	entities := make([]T, 0, len(r.order))
	for _, id := range r.order {
		entities = append(entities, r.entities[id])
	}

	return entities, nil
}

// DeleteByID removes the entity stored under id.
func (r *InMemoryRepository[ID, T]) DeleteByID(ctx context.Context, id ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.entities[id]; !ok {
		return errors.WithStack(ErrNotFound)
	}

	delete(r.entities, id)
	for i, storedID := range r.order {
		if storedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// Count returns the number of stored entities.
func (r *InMemoryRepository[ID, T]) Count(ctx context.Context) (int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.entities), nil
}
