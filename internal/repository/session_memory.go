package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time
}

type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository - process-local sessions. A zero ttl keeps sessions until deleted.
// With a ttl, expired sessions are swept every ttl until ctx is done.
func NewMemorySessionRepository(ctx context.Context, ttl time.Duration) SessionRepository {
	repo := newMemorySession(ttl, time.Now)
	if ttl > 0 {
		go repo.runJanitor(ctx, ttl)
	}

	return repo
}

func newMemorySession(ttl time.Duration, now func() time.Time) *memorySession {
	return &memorySession{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      now,
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	entry := memoryEntry{session: copySession(session)}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.mu.Lock()
	that.sessions[session.ID] = entry
	that.mu.Unlock()

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	entry, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	if that.expired(entry) {
		that.mu.Lock()
		// a write may have refreshed the entry since the read
		if current, ok := that.sessions[id]; ok && that.expired(current) {
			delete(that.sessions, id)
		}
		that.mu.Unlock()

		return nil, apperror.ErrSessionNotFound
	}

	existingSession := copySession(&entry.session)

	return &existingSession, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.sessions[id]
	if !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	if that.expired(entry) {
		return apperror.ErrSessionNotFound
	}

	return nil
}

func (that *memorySession) runJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.sweep()
		}
	}
}

// sweep - drops every expired session and returns how many were removed.
func (that *memorySession) sweep() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for id, entry := range that.sessions {
		if that.expired(entry) {
			delete(that.sessions, id)
			removed++
		}
	}

	return removed
}

func (that *memorySession) size() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *memorySession) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt)
}

// copySession detaches the stored value from the caller; WinningLine is the only reference field.
func copySession(session *entity.Session) entity.Session {
	cp := *session
	if session.Game.WinningLine != nil {
		cp.Game.WinningLine = append([]int(nil), session.Game.WinningLine...)
	}

	return cp
}
