// Package outbox stages domain events durably between the save that produced
// them and their publication to an external publisher.
//
// The Outbox implements domain.EventPublisher, so it can be plugged directly
// into repository.NewEventPublishing. Events are appended to a Store as
// marshaled entries; a relay process forwards the unpublished entries
// downstream, for example to a message broker, and marks them published.
// A failed forward leaves the entry unpublished, so it is retried on the
// next relay run.
package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ThreeDotsLabs/eventful"
)

// Entry is a single staged event.
type Entry struct {
	// UUID identifies the entry, not the event. It is assigned on Publish.
	UUID string

	// Name is the event's name, resolved by the Marshaler.
	Name string

	// Payload is the marshaled event.
	Payload []byte

	// OccurredAt is the time the event was staged.
	OccurredAt time.Time
}

// Store persists outbox entries.
//
// Implementations must keep entries in append order and be safe for
// concurrent use.
type Store interface {
	// Append stages a new entry.
	Append(ctx context.Context, entry Entry) error

	// Unpublished returns all entries not yet marked published, in append order.
	Unpublished(ctx context.Context) ([]Entry, error)

	// MarkPublished marks the entry with the given UUID as published.
	MarkPublished(ctx context.Context, uuid string) error
}

// InMemoryStore is a Store backed by a mutex-guarded slice.
type InMemoryStore struct {
	lock      sync.Mutex
	entries   []Entry
	published map[string]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		published: make(map[string]struct{}),
	}
}

func (s *InMemoryStore) Append(ctx context.Context, entry Entry) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries = append(s.entries, entry)

	return nil
}

func (s *InMemoryStore) Unpublished(ctx context.Context) ([]Entry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var unpublished []Entry
	for _, entry := range s.entries {
		if _, ok := s.published[entry.UUID]; ok {
			continue
		}
		unpublished = append(unpublished, entry)
	}

	return unpublished, nil
}

func (s *InMemoryStore) MarkPublished(ctx context.Context, uuid string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, entry := range s.entries {
		if entry.UUID == uuid {
			s.published[uuid] = struct{}{}
			return nil
		}
	}

	return errors.Errorf("no entry with UUID %s", uuid)
}

type Config struct {
	// Marshaler is used to serialize events into entry payloads.
	// If not provided, JSONMarshaler is used.
	Marshaler Marshaler

	// NewUUID generates entry UUIDs. If not provided, eventful.NewUUID is used.
	NewUUID func() string

	// Now provides the entries' OccurredAt time. If not provided, time.Now is used.
	Now func() time.Time

	// Logger instance used to log.
	// If not provided, eventful.NopLogger is used.
	Logger eventful.LoggerAdapter
}

func (c *Config) setDefaults() {
	if c.Marshaler == nil {
		c.Marshaler = JSONMarshaler{}
	}
	if c.NewUUID == nil {
		c.NewUUID = eventful.NewUUID
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = eventful.NopLogger{}
	}
}

// ForwardFunc forwards a single staged entry downstream.
type ForwardFunc func(ctx context.Context, entry Entry) error

// Outbox stages events in a Store and relays them downstream.
type Outbox struct {
	store  Store
	config Config
}

// NewOutbox creates an Outbox staging events in store.
func NewOutbox(store Store, config Config) (*Outbox, error) {
	if store == nil {
		return nil, errors.New("missing store")
	}

	config.setDefaults()

	return &Outbox{
		store:  store,
		config: config,
	}, nil
}

// Publish marshals the event and appends it to the store.
// The event is not forwarded anywhere until Relay is called.
func (o *Outbox) Publish(ctx context.Context, event interface{}) error {
	if event == nil {
		return errors.New("missing event")
	}

	payload, err := o.config.Marshaler.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "cannot marshal event")
	}

	entry := Entry{
		UUID:       o.config.NewUUID(),
		Name:       o.config.Marshaler.Name(event),
		Payload:    payload,
		OccurredAt: o.config.Now(),
	}

	if err := o.store.Append(ctx, entry); err != nil {
		return errors.Wrap(err, "cannot append entry to store")
	}

	o.config.Logger.Trace("Event staged in outbox", eventful.LogFields{
		"entry_uuid": entry.UUID,
		"event_name": entry.Name,
	})

	return nil
}

// Relay forwards all unpublished entries, in append order, and marks each
// published after forward returns without error.
//
// Relay stops at the first failing entry and returns the number of entries
// published so far. The failing entry and all entries after it stay
// unpublished, so the next Relay run picks them up again.
func (o *Outbox) Relay(ctx context.Context, forward ForwardFunc) (int, error) {
	if forward == nil {
		return 0, errors.New("missing forward func")
	}

	entries, err := o.store.Unpublished(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "cannot read unpublished entries")
	}

	published := 0
	for _, entry := range entries {
		logFields := eventful.LogFields{
			"entry_uuid": entry.UUID,
			"event_name": entry.Name,
		}

		if err := forward(ctx, entry); err != nil {
			o.config.Logger.Error("Cannot forward entry, stopping relay", err, logFields)
			return published, errors.Wrapf(err, "cannot forward entry %s", entry.UUID)
		}

		if err := o.store.MarkPublished(ctx, entry.UUID); err != nil {
			return published, errors.Wrapf(err, "cannot mark entry %s as published", entry.UUID)
		}

		o.config.Logger.Trace("Entry relayed", logFields)
		published++
	}

	return published, nil
}
