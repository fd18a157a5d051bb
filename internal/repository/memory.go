package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

type memorySession struct {
	session   entity.Session
	expiresAt time.Time
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository - keeps sessions in process; used when no redis is configured.
func NewMemorySessionRepository(ttl time.Duration, now func() time.Time) SessionRepository {
	if now == nil {
		now = time.Now
	}

	return &memoryStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      now,
	}
}

func (that *memoryStore) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := memorySession{session: cloneSession(session)}
	if that.ttl > 0 {
		stored.expiresAt = that.now().Add(that.ttl)
	}

	that.sessions[session.ID] = stored

	return nil
}

func (that *memoryStore) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	stored, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	if that.isExpired(stored) {
		that.evictIfExpired(id)

		return nil, apperror.ErrSessionNotFound
	}

	session := cloneSession(&stored.session)

	return &session, nil
}

func (that *memoryStore) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.sessions[id]
	if !ok || that.isExpired(stored) {
		delete(that.sessions, id)
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// evictIfExpired - the entry may have been rewritten since it was read, so expiry is checked
// again under the write lock.
func (that *memoryStore) evictIfExpired(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.sessions[id]; ok && that.isExpired(current) {
		delete(that.sessions, id)
	}
}

func (that *memoryStore) isExpired(stored memorySession) bool {
	return !stored.expiresAt.IsZero() && !that.now().Before(stored.expiresAt)
}

// cloneSession copies the round so callers never share it with the store.
func cloneSession(session *entity.Session) entity.Session {
	clone := *session
	if session.Match.Round != nil {
		round := *session.Match.Round
		clone.Match.Round = &round
	}

	return clone
}
