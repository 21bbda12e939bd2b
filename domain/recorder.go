package domain

// EventRecorder records events on an aggregate until they are published.
//
// It is intended to be embedded in domain types. Embedding it (by pointer
// receiver) provides the EventsProvider and EventsClearer capabilities, which
// makes repositories publish the recorded events after a successful save.
//
// EventRecorder is not safe for concurrent use. An aggregate is expected to
// be modified by one goroutine at a time.
type EventRecorder struct {
	events []interface{}
}

// RecordThat appends an event to the list of recorded events.
// Nil events are ignored.
func (e *EventRecorder) RecordThat(event interface{}) {
	if event == nil {
		return
	}
	e.events = append(e.events, event)
}

// DomainEvents returns the recorded events in recording order,
// without clearing them.
func (e *EventRecorder) DomainEvents() []interface{} {
	events := make([]interface{}, len(e.events))
	copy(events, e.events)

	return events
}

// ClearDomainEvents drops all recorded events.
func (e *EventRecorder) ClearDomainEvents() {
	e.events = nil
}

// PopEvents returns the recorded events and clears them.
func (e *EventRecorder) PopEvents() []interface{} {
	events := e.events
	e.events = nil

	return events
}
