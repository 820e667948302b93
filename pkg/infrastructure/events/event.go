// Package events records what happens during a simulation run as an
// append-only stream per run.
package events

import (
	"slices"
	"time"
)

// Event is one entry in a run's event stream
type Event interface {
	Type() string
	StreamID() string
	// Period is the period being simulated when the event was raised
	Period() int
	Data() any
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to events it has subscribed to
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends, reads and dispatches events. Streams are keyed by run id.
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type simEvent struct {
	eventType string
	stream    string
	period    int
	data      any
	at        time.Time
	version   int
}

func (e simEvent) Type() string         { return e.eventType }
func (e simEvent) StreamID() string     { return e.stream }
func (e simEvent) Period() int          { return e.period }
func (e simEvent) Data() any            { return e.data }
func (e simEvent) Timestamp() time.Time { return e.at }
func (e simEvent) Version() int         { return e.version }

// NewEvent creates an unversioned event; the store assigns the version
func NewEvent(eventType, streamID string, period int, data any) Event {
	return simEvent{
		eventType: eventType,
		stream:    streamID,
		period:    period,
		data:      data,
		at:        time.Now(),
	}
}

// withVersion rebinds e to a stream position
func withVersion(e Event, streamID string, version int) Event {
	return simEvent{
		eventType: e.Type(),
		stream:    streamID,
		period:    e.Period(),
		data:      e.Data(),
		at:        e.Timestamp(),
		version:   version,
	}
}

// HandlerFunc adapts a function to EventHandler for a fixed set of types
type HandlerFunc struct {
	Types []string
	Fn    func(Event) error
}

func (h *HandlerFunc) Handle(event Event) error {
	return h.Fn(event)
}

func (h *HandlerFunc) CanHandle(eventType string) bool {
	return slices.Contains(h.Types, eventType)
}

// CountByType tallies a stream by event type
func CountByType(stream []Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range stream {
		counts[e.Type()]++
	}
	return counts
}

// InPeriod returns the events raised during period, in stream order
func InPeriod(stream []Event, period int) []Event {
	var out []Event
	for _, e := range stream {
		if e.Period() == period {
			out = append(out, e)
		}
	}
	return out
}
