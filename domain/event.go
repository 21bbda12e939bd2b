// Package domain provides the building blocks for aggregates that record
// domain events and for the components that publish them.
package domain

import (
	"context"
	"fmt"
	"strings"
)

// EventsProvider is implemented by domain types that expose the events
// recorded on them. Embedding EventRecorder provides this capability.
type EventsProvider interface {
	DomainEvents() []interface{}
}

// EventProvider is implemented by domain types that expose at most one
// pending event. A nil event means there is nothing to publish.
type EventProvider interface {
	DomainEvent() interface{}
}

// EventsClearer is implemented by domain types that want to be notified
// after their events have been published, so they can drop them and not
// publish them again on the next save.
type EventsClearer interface {
	ClearDomainEvents()
}

// EventNamer is implemented by events that want to control the name
// they are routed and stored by.
type EventNamer interface {
	EventName() string
}

// EventName returns the name of the event.
//
// If the event implements EventNamer, its EventName is used.
// Otherwise the struct name (without the package) is used.
func EventName(event interface{}) string {
	if namer, ok := event.(EventNamer); ok {
		return namer.EventName()
	}

	segments := strings.Split(fmt.Sprintf("%T", event), ".")

	return segments[len(segments)-1]
}

// EventPublisher publishes a single event. It is the sink to which
// extracted domain events are forwarded.
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}
