package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"worldstats/internal/dataset"
	"worldstats/internal/metrics"
)

// Store holds the live sessions. All sessions share one raw table set;
// stale sessions are swept after their TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	tables   *dataset.Tables
	ttl      time.Duration
}

func NewStore(tables *dataset.Tables, ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		tables:   tables,
		ttl:      ttl,
	}
	go s.sweepStale()
	return s
}

// Create starts a new session with the default parameter set.
func (s *Store) Create() (*Session, error) {
	sess, err := newSession(uuid.New().String(), s.tables)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	return sess, nil
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Tables exposes the shared raw datasets (read-only by convention).
func (s *Store) Tables() *dataset.Tables {
	return s.tables
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, sess := range s.sessions {
			if now.Sub(sess.CreatedAt) > s.ttl {
				delete(s.sessions, id)
			}
		}
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
		s.mu.Unlock()
	}
}
