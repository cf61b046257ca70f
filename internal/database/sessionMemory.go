package database

import (
	"context"
	"sync"
	"time"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
)

type memorySession struct {
	state    entity.SessionState
	lastSeen time.Time
}

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process. Sessions idle longer than ttl are dropped; ttl <= 0 keeps them forever.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *memorySessionRepository) Get(ctx context.Context, sessionID string) (*entity.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil {
		return &entity.SessionState{SessionID: sessionID}, nil
	}
	state := s.state
	return &state, nil
}

func (r *memorySessionRepository) Begin(ctx context.Context, sessionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil {
		s = &memorySession{state: entity.SessionState{SessionID: sessionID}}
		r.sessions[sessionID] = s
	}
	s.state.Generation++
	s.state.Processing = true
	s.lastSeen = r.now()
	return s.state.Generation, nil
}

func (r *memorySessionRepository) Finish(ctx context.Context, sessionID string, generation int64, published *entity.Published) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup(sessionID)
	if s == nil || s.state.Generation != generation {
		return false, nil
	}
	s.state.Processing = false
	if published != nil {
		s.state.Published = published
	}
	s.lastSeen = r.now()
	return true, nil
}

// lookup returns a live session, evicting expired ones. Caller holds mu.
func (r *memorySessionRepository) lookup(sessionID string) *memorySession {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	if r.ttl > 0 && r.now().Sub(s.lastSeen) > r.ttl {
		delete(r.sessions, sessionID)
		return nil
	}
	s.lastSeen = r.now()
	return s
}
