package domain

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
)

type extractorKind int

const (
	multipleEvents extractorKind = iota + 1
	singleEvent
)

// Extractor knows how to pull the domain events out of instances of one
// domain type and forward them to an EventPublisher.
//
// An Extractor is built once per type with ExtractorFor and is read-only
// afterwards, so it can be shared between goroutines.
type Extractor struct {
	kind extractorKind
}

// ExtractorFor inspects the type of prototype for the event-exposing
// capability and returns an Extractor for it.
//
// A type exposes events by implementing EventsProvider (zero or more events)
// or EventProvider (zero or one event). If it implements neither, ExtractorFor
// returns a nil Extractor and no error: not exposing events is a normal
// outcome, and callers are expected to check for it.
//
// The prototype may be a zero value. For capabilities implemented on pointer
// receivers it must be a pointer, for example (*Order)(nil).
func ExtractorFor(prototype interface{}) (*Extractor, error) {
	if prototype == nil {
		return nil, errors.New("missing prototype")
	}

	switch prototype.(type) {
	case EventsProvider:
		return &Extractor{kind: multipleEvents}, nil
	case EventProvider:
		return &Extractor{kind: singleEvent}, nil
	}

	return nil, nil
}

// EventsFrom returns the events currently exposed by instance,
// in extraction order. Nil events are skipped.
func (e *Extractor) EventsFrom(instance interface{}) []interface{} {
	if isNil(instance) {
		return nil
	}

	var extracted []interface{}

	switch e.kind {
	case multipleEvents:
		provider, ok := instance.(EventsProvider)
		if !ok {
			return nil
		}
		extracted = provider.DomainEvents()
	case singleEvent:
		provider, ok := instance.(EventProvider)
		if !ok {
			return nil
		}
		extracted = []interface{}{provider.DomainEvent()}
	}

	events := make([]interface{}, 0, len(extracted))
	for _, event := range extracted {
		if event == nil {
			continue
		}
		events = append(events, event)
	}

	return events
}

// PublishEventsFrom forwards all events exposed by instance to publisher,
// preserving extraction order.
//
// Publishing from a nil instance is a no-op. After all events have been
// forwarded, the instance's events are cleared if it implements EventsClearer,
// so they are not published again on the next save. If the publisher fails,
// publishing stops, the error is returned and the events are not cleared.
func (e *Extractor) PublishEventsFrom(ctx context.Context, instance interface{}, publisher EventPublisher) error {
	if isNil(instance) {
		return nil
	}

	events := e.EventsFrom(instance)
	if len(events) == 0 {
		return nil
	}

	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil {
			return errors.Wrapf(err, "cannot publish event %s", EventName(event))
		}
	}

	if clearer, ok := instance.(EventsClearer); ok {
		clearer.ClearDomainEvents()
	}

	return nil
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}

	return false
}
