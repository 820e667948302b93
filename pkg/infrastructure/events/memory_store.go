package events

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// runStream is one run's events plus an index by event type
type runStream struct {
	events []Event
	byType map[string][]int
}

// InMemoryEventStore keeps every run's stream in memory. Subscribers are
// notified synchronously, in subscription order, before AppendEvent returns,
// so a seeded run produces the same handler calls every time.
type InMemoryEventStore struct {
	mu       sync.RWMutex
	runs     map[string]*runStream
	log      []Event
	handlers map[string][]EventHandler
}

// NewInMemoryEventStore creates an empty store
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		runs:     make(map[string]*runStream),
		handlers: make(map[string][]EventHandler),
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent versions event within streamID, stores it and dispatches it.
// Handler errors are joined and returned; the event is kept regardless.
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mu.Lock()
	run, ok := s.runs[streamID]
	if !ok {
		run = &runStream{byType: make(map[string][]int)}
		s.runs[streamID] = run
	}
	stored := withVersion(event, streamID, len(run.events)+1)
	run.byType[stored.Type()] = append(run.byType[stored.Type()], len(run.events))
	run.events = append(run.events, stored)
	s.log = append(s.log, stored)
	handlers := slices.Clone(s.handlers[stored.Type()])
	s.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		if !h.CanHandle(stored.Type()) {
			continue
		}
		if err := h.Handle(stored); err != nil {
			errs = append(errs, fmt.Errorf("handling event %s: %w", stored.Type(), err))
		}
	}
	return errors.Join(errs...)
}

// ReadEvents returns streamID's events starting at version fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[streamID]
	if !ok {
		return []Event{}, nil
	}
	from := max(fromVersion, 1) - 1
	if from >= len(run.events) {
		return []Event{}, nil
	}
	return slices.Clone(run.events[from:]), nil
}

// ReadEventsOfType returns streamID's events of one type in stream order
func (s *InMemoryEventStore) ReadEventsOfType(streamID, eventType string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[streamID]
	if !ok {
		return nil
	}
	idx := run.byType[eventType]
	out := make([]Event, len(idx))
	for i, j := range idx {
		out[i] = run.events[j]
	}
	return out
}

// ReadAllEvents returns every event across runs from a global position
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := max(fromPosition, 0)
	if from >= len(s.log) {
		return []Event{}, nil
	}
	return slices.Clone(s.log[from:]), nil
}

// Position returns the number of events appended across all streams
func (s *InMemoryEventStore) Position() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}

// Streams lists the run ids with at least one event, sorted
func (s *InMemoryEventStore) Streams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Subscribe registers handler for the given event types
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range eventTypes {
		s.handlers[t] = append(s.handlers[t], handler)
	}
	return nil
}

// Unsubscribe removes handler from every event type
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, hs := range s.handlers {
		s.handlers[t] = slices.DeleteFunc(hs, func(h EventHandler) bool { return h == handler })
	}
	return nil
}
