package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"riskradar/metrics"
)

type session struct {
	workflow *Workflow
	lastSeen time.Time
}

// Store keeps one Workflow per browser session, in memory only. Sessions
// idle for longer than maxIdle are dropped together with their portfolio.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  func() *Workflow
	maxIdle  time.Duration
	now      func() time.Time
}

// NewStore creates a Store that builds new sessions with factory. A
// non-positive maxIdle keeps sessions forever.
func NewStore(factory func() *Workflow, maxIdle time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		factory:  factory,
		maxIdle:  maxIdle,
		now:      time.Now,
	}
}

// GetOrCreate returns the workflow for id, starting a fresh session under a
// new id when id is unknown or has expired.
func (s *Store) GetOrCreate(id string) (string, *Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return id, sess.workflow
	}
	id = uuid.NewString()
	w := s.factory()
	s.sessions[id] = &session{workflow: w, lastSeen: now}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return id, w
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(s.now())
	return len(s.sessions)
}

// evictLocked drops idle sessions. A session with a model request in flight
// is kept until the request settles.
func (s *Store) evictLocked(now time.Time) {
	if s.maxIdle <= 0 {
		return
	}
	evicted := false
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) < s.maxIdle || sess.workflow.State().InFlight() {
			continue
		}
		delete(s.sessions, id)
		evicted = true
	}
	if evicted {
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
}
