package repository

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/ThreeDotsLabs/eventful"
	"github.com/ThreeDotsLabs/eventful/domain"
)

// EventPublishing is a Repository decorator that publishes the domain events
// exposed by saved entities.
//
// Publishing happens only for the write operations Save and SaveAll, and only
// after the wrapped repository's call has returned without error. When the
// wrapped call fails, no events are published and the failure propagates
// unchanged. All other operations are passed through untouched.
type EventPublishing[ID comparable, T any] struct {
	repo      Repository[ID, T]
	extractor *domain.Extractor
	publisher domain.EventPublisher
	logger    eventful.LoggerAdapter
}

// NewEventPublishing decorates repo so that the domain events recorded on
// saved entities are published to publisher after a successful save.
//
// The event-exposing capability of T is checked once, here. When T exposes no
// events (it implements neither domain.EventsProvider nor
// domain.EventProvider), repo is returned undecorated.
//
// A nil logger defaults to eventful.NopLogger.
func NewEventPublishing[ID comparable, T any](
	repo Repository[ID, T],
	publisher domain.EventPublisher,
	logger eventful.LoggerAdapter,
) Repository[ID, T] {
	if repo == nil {
		panic("missing repo")
	}
	if publisher == nil {
		panic("missing publisher")
	}
	if logger == nil {
		logger = eventful.NopLogger{}
	}

	var prototype T
	extractor, err := domain.ExtractorFor(prototype)
	if err != nil || extractor == nil {
		// the domain type does not expose events, nothing to decorate
		logger.Debug("Domain type does not expose events, repository left undecorated", eventful.LogFields{
			"entity_type": entityTypeName(prototype),
		})
		return repo
	}

	return &EventPublishing[ID, T]{
		repo:      repo,
		extractor: extractor,
		publisher: publisher,
		logger:    logger,
	}
}

// Save saves the entity and, on success, publishes its events.
func (r *EventPublishing[ID, T]) Save(ctx context.Context, entity T) error {
	if err := r.repo.Save(ctx, entity); err != nil {
		return err
	}

	return r.publishEventsFrom(ctx, entity)
}

// SaveAll saves all entities and, on success, publishes the events of each
// entity, in save order.
func (r *EventPublishing[ID, T]) SaveAll(ctx context.Context, entities []T) error {
	if err := r.repo.SaveAll(ctx, entities); err != nil {
		return err
	}

	for _, entity := range entities {
		if err := r.publishEventsFrom(ctx, entity); err != nil {
			return err
		}
	}

	return nil
}

// FindByID passes through to the wrapped repository.
func (r *EventPublishing[ID, T]) FindByID(ctx context.Context, id ID) (T, error) {
	return r.repo.FindByID(ctx, id)
}

// FindAll passes through to the wrapped repository.
func (r *EventPublishing[ID, T]) FindAll(ctx context.Context) ([]T, error) {
	return r.repo.FindAll(ctx)
}

// DeleteByID passes through to the wrapped repository.
func (r *EventPublishing[ID, T]) DeleteByID(ctx context.Context, id ID) error {
	return r.repo.DeleteByID(ctx, id)
}

// Count passes through to the wrapped repository.
func (r *EventPublishing[ID, T]) Count(ctx context.Context) (int, error) {
	return r.repo.Count(ctx)
}

func (r *EventPublishing[ID, T]) publishEventsFrom(ctx context.Context, entity T) error {
	events := r.extractor.EventsFrom(entity)
	if len(events) == 0 {
		return nil
	}

	r.logger.Trace("Publishing events recorded on saved entity", eventful.LogFields{
		"events_count": len(events),
	})

	if err := r.extractor.PublishEventsFrom(ctx, entity, r.publisher); err != nil {
		return errors.Wrap(err, "cannot publish events after save")
	}

	return nil
}

func entityTypeName(prototype interface{}) string {
	return fmt.Sprintf("%T", prototype)
}
