// Package repository provides a generic repository abstraction together with
// decorators that add event publishing and metrics to its write operations.
package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no entity with the given identifier exists.
var ErrNotFound = errors.New("entity not found")

// Repository stores entities of type T identified by ID.
//
// Implementations are expected to be safe for concurrent use.
type Repository[ID comparable, T any] interface {
	// Save persists the entity, inserting or updating it.
	Save(ctx context.Context, entity T) error

	// SaveAll persists all entities, in the given order.
	SaveAll(ctx context.Context, entities []T) error

	// FindByID returns the entity with the given identifier
	// or ErrNotFound when it does not exist.
	FindByID(ctx context.Context, id ID) (T, error)

	// FindAll returns all stored entities in insertion order.
	FindAll(ctx context.Context) ([]T, error)

	// DeleteByID removes the entity with the given identifier.
	// It returns ErrNotFound when it does not exist.
	DeleteByID(ctx context.Context, id ID) error

	// Count returns the number of stored entities.
	Count(ctx context.Context) (int, error)
}
