// Package feed implements the in-app notification feed: a best-effort,
// client-local list populated directly by user actions, parallel to (and
// never synchronized with) the push pipeline. The store is an explicitly
// constructed state object handed to whatever UI layer needs it; persistence
// happens only through the Serialize/Restore boundary.
package feed

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxEntries caps the feed; the oldest entries are evicted first.
const maxEntries = 50

// Notification is one feed entry.
type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	MovieID    int       `json:"movieId,omitempty"`
	MovieTitle string    `json:"movieTitle,omitempty"`
	Rating     int       `json:"rating,omitempty"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
	URL        string    `json:"url,omitempty"`
}

// Input is the caller-supplied part of a feed entry; identity, read flag, and
// timestamp are assigned by the store.
type Input struct {
	Type       string
	Title      string
	Message    string
	MovieID    int
	MovieTitle string
	Rating     int
	URL        string
}

// Store holds the feed. Safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	notifications []Notification
	now           func() time.Time
	newID         func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty feed store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a feed entry with a fresh identity and timestamp, prepends it,
// and evicts beyond the cap. The created entry is returned.
func (s *Store) Add(in Input) Notification {
	n := Notification{
		ID:         s.newID(),
		Type:       in.Type,
		Title:      in.Title,
		Message:    in.Message,
		MovieID:    in.MovieID,
		MovieTitle: in.MovieTitle,
		Rating:     in.Rating,
		CreatedAt:  s.now(),
		URL:        in.URL,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append([]Notification{n}, s.notifications...)
	if len(s.notifications) > maxEntries {
		s.notifications = s.notifications[:maxEntries]
	}
	return n
}

// MarkAsRead sets the read flag on one entry, reporting whether it exists.
func (s *Store) MarkAsRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
			return true
		}
	}
	return false
}

// MarkAllAsRead sets the read flag on every entry.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
}

// Remove deletes one entry, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// ClearAll empties the feed.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// List returns a copy of the feed, newest first.
func (s *Store) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount is always derived from the entries, never stored, so it cannot
// drift.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Serialize encodes the feed entries for persistence. Only entries are
// persisted; everything else is derived on load.
func (s *Store) Serialize() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s.notifications)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize feed: %w", err)
	}
	return data, nil
}

// Restore replaces the feed with previously serialized entries, re-applying
// the cap.
func (s *Store) Restore(data []byte) error {
	var notifications []Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		return fmt.Errorf("failed to restore feed: %w", err)
	}
	if len(notifications) > maxEntries {
		notifications = notifications[:maxEntries]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = notifications
	return nil
}
