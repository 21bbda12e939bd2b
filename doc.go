// Eventful is a Golang library for repositories that publish domain events.
//
// It provides a repository abstraction whose write operations forward the
// events recorded on your aggregates to an event publisher, but only after
// the underlying persistence operation has succeeded.
//
// Aggregates opt in by exposing their events (for example by embedding
// domain.EventRecorder); repositories for types that expose no events are
// left untouched.
package eventful
