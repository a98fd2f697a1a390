package coordinator

import (
	"sync"

	"github.com/speakpost/speakpost-backend/internal/domain"
)

// EventType classifies a change notification
type EventType string

const (
	EventStateChanged    EventType = "state_changed"
	EventStatusChanged   EventType = "status_changed"
	EventDraftChanged    EventType = "draft_changed"
	EventPublishProgress EventType = "publish_progress"
)

// Event is one change notification pushed to subscribers (the UI layer)
type Event struct {
	Type     EventType             `json:"type"`
	State    State                 `json:"state"`
	Status   domain.StatusMessage  `json:"status"`
	Draft    *domain.Draft         `json:"draft,omitempty"`
	Progress *domain.ProgressEvent `json:"progress,omitempty"`
}

type listenerSet struct {
	mu        sync.Mutex
	listeners map[int]func(Event)
	nextID    int
}

func newListenerSet() *listenerSet {
	return &listenerSet{listeners: make(map[int]func(Event))}
}

func (s *listenerSet) add(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *listenerSet) emit(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribe registers a change listener and returns an unsubscribe func.
// After Dispose, registered listeners are never called again.
func (c *Coordinator) Subscribe(fn func(Event)) func() {
	return c.listeners.add(fn)
}

// notify pushes a change notification unless the coordinator has been
// disposed. In-flight asynchronous callbacks may resolve after disposal;
// they must degrade to no-ops rather than raise.
func (c *Coordinator) notify(t EventType) {
	if c.disposed.Load() {
		return
	}

	c.mu.Lock()
	ev := Event{
		Type:   t,
		State:  c.state,
		Status: c.status.active(c.primaryStatusLocked()),
		Draft:  c.draft.Clone(),
	}
	c.mu.Unlock()

	c.listeners.emit(ev)
}

// notifyProgress pushes a streaming publish progress event
func (c *Coordinator) notifyProgress(p domain.ProgressEvent) {
	if c.disposed.Load() {
		return
	}

	c.mu.Lock()
	ev := Event{
		Type:     EventPublishProgress,
		State:    c.state,
		Status:   c.status.active(c.primaryStatusLocked()),
		Progress: &p,
	}
	c.mu.Unlock()

	c.listeners.emit(ev)
}
