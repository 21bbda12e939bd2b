// Package eventbus provides an in-process event bus implementing
// domain.EventPublisher, together with publisher decorators.
package eventbus

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ThreeDotsLabs/eventful"
	"github.com/ThreeDotsLabs/eventful/domain"
)

// HandlerFunc handles a single published event.
type HandlerFunc func(ctx context.Context, event interface{}) error

type Config struct {
	// Logger instance used to log.
	// If not provided, eventful.NopLogger is used.
	Logger eventful.LoggerAdapter
}

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = eventful.NopLogger{}
	}
}

type handler struct {
	name        string
	handlerFunc HandlerFunc
}

// Bus is the simplest in-process event publisher.
//
// Handlers are dispatched synchronously, within the publishing goroutine and
// in subscription order: when Publish returns, every subscribed handler has
// run. There are no consumer groups, every subscribed handler receives every
// matching event.
//
// Bus has no global state, so you need to use the same instance for
// publishing and subscribing.
type Bus struct {
	config Config
	logger eventful.LoggerAdapter

	handlersLock        sync.RWMutex
	handlersByEventName map[string][]handler

	closed     bool
	closedLock sync.Mutex
}

// NewBus creates a new in-process event Bus.
func NewBus(config Config) *Bus {
	config.setDefaults()

	return &Bus{
		config: config,
		logger: config.Logger.With(eventful.LogFields{
			"bus_uuid": eventful.NewShortUUID(),
		}),
		handlersByEventName: make(map[string][]handler),
	}
}

// Subscribe registers handlerFunc for events with the given names.
//
// Event names are resolved with domain.EventName. When no names are given,
// the handler receives all published events.
// The handlerName is used for logging only and does not need to be unique.
func (b *Bus) Subscribe(handlerName string, handlerFunc HandlerFunc, eventNames ...string) error {
	if handlerFunc == nil {
		return errors.New("missing handlerFunc")
	}
	if b.isClosed() {
		return errors.New("event bus closed")
	}

	b.handlersLock.Lock()
	defer b.handlersLock.Unlock()

	h := handler{name: handlerName, handlerFunc: handlerFunc}

	if len(eventNames) == 0 {
		// empty key subscribes to all events
		b.handlersByEventName[""] = append(b.handlersByEventName[""], h)
	}
	for _, eventName := range eventNames {
		b.handlersByEventName[eventName] = append(b.handlersByEventName[eventName], h)
	}

	b.logger.Debug("Subscribed handler", eventful.LogFields{
		"handler_name": handlerName,
	})

	return nil
}

// Publish dispatches the event to all matching handlers.
//
// Handlers matching the event's name run before the handlers subscribed to
// all events. Errors returned by handlers are collected and returned
// combined; a failing handler does not prevent the remaining handlers from
// running.
func (b *Bus) Publish(ctx context.Context, event interface{}) error {
	if event == nil {
		return errors.New("missing event")
	}
	if b.isClosed() {
		return errors.New("event bus closed")
	}

	eventName := domain.EventName(event)
	logFields := eventful.LogFields{"event_name": eventName}

	b.handlersLock.RLock()
	handlers := make([]handler, 0, len(b.handlersByEventName[eventName])+len(b.handlersByEventName[""]))
	handlers = append(handlers, b.handlersByEventName[eventName]...)
	handlers = append(handlers, b.handlersByEventName[""]...)
	b.handlersLock.RUnlock()

	if len(handlers) == 0 {
		b.logger.Info("No handlers to handle event", logFields)
		return nil
	}

	var result error
	for _, h := range handlers {
		b.logger.Trace("Calling handler", logFields.Add(eventful.LogFields{
			"handler_name": h.name,
		}))

		if err := h.handlerFunc(ctx, event); err != nil {
			b.logger.Error("Handler returned error", err, logFields.Add(eventful.LogFields{
				"handler_name": h.name,
			}))
			result = multierror.Append(result, err)
		}
	}

	return result
}

// Close stops the bus. Publishing or subscribing on a closed bus
// returns an error. Close is idempotent.
func (b *Bus) Close() error {
	b.closedLock.Lock()
	defer b.closedLock.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	b.logger.Info("Event bus closed", nil)

	return nil
}

func (b *Bus) isClosed() bool {
	b.closedLock.Lock()
	defer b.closedLock.Unlock()

	return b.closed
}
