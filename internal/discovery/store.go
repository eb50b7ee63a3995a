package discovery

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultCandidateLimit bounds the candidate set fetched per ranking call.
const DefaultCandidateLimit = 100

// RecordStore supplies the candidate circles and meetups for scoring.
type RecordStore interface {
	// FetchCircles returns up to limit circles.
	FetchCircles(ctx context.Context, limit int) ([]Circle, error)

	// FetchMeetups returns up to limit meetups, optionally restricted to
	// one circle. An empty circleID means all circles.
	FetchMeetups(ctx context.Context, circleID string, limit int) ([]Meetup, error)
}

// InMemoryRecordStore is an in-memory RecordStore for tests and development.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	circles []Circle
	meetups []Meetup
}

// NewInMemoryRecordStore creates an empty in-memory record store.
func NewInMemoryRecordStore() *InMemoryRecordStore {
	return &InMemoryRecordStore{}
}

// AddCircle stores a circle, generating an ID when absent, and returns the
// stored value.
func (s *InMemoryRecordStore) AddCircle(c Circle) Circle {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.circles = append(s.circles, c)
	return c
}

// AddMeetup stores a meetup, generating an ID when absent, and returns the
// stored value.
func (s *InMemoryRecordStore) AddMeetup(m Meetup) Meetup {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetups = append(s.meetups, m)
	return m
}

// FetchCircles returns up to limit circles in insertion order.
func (s *InMemoryRecordStore) FetchCircles(_ context.Context, limit int) ([]Circle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.circles)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]Circle, n)
	copy(result, s.circles[:n])
	return result, nil
}

// FetchMeetups returns up to limit meetups in insertion order, restricted to
// circleID when non-empty.
func (s *InMemoryRecordStore) FetchMeetups(_ context.Context, circleID string, limit int) ([]Meetup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Meetup, 0, len(s.meetups))
	for _, m := range s.meetups {
		if circleID != "" && m.CircleID != circleID {
			continue
		}
		result = append(result, m)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
