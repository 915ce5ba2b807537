package services

import (
	"sync"
	"time"
)

// Session event types.
const (
	EventLogin                 = "login"
	EventLogout                = "logout"
	EventSubscriptionActivated = "subscription_activated"
)

// SessionEvent describes a change in a member's session or subscription
// state that interested consumers (dashboards, admin views) react to.
type SessionEvent struct {
	UserID uint      `json:"user_id"`
	Type   string    `json:"type"`
	At     time.Time `json:"at"`
}

// SessionStore is an explicit publish/subscribe store for session-state
// changes. Consumers subscribe for events instead of reading ambient global
// state. Delivery is non-blocking: a subscriber that stops draining its
// channel misses events rather than stalling publishers.
type SessionStore struct {
	mu   sync.Mutex
	subs map[int]chan SessionEvent
	next int
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{subs: make(map[int]chan SessionEvent)}
}

// Publish delivers the event to all current subscribers
func (s *SessionStore) Publish(e SessionEvent) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new consumer. The returned cancel func removes the
// subscription and closes the channel; callers must invoke it when done.
func (s *SessionStore) Subscribe() (<-chan SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan SessionEvent, 16)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers reports the current subscriber count
func (s *SessionStore) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
