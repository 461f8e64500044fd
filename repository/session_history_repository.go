package repository

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/kaushalkumar0001/StressLess/models"
)

// SessionHistoryRepository keeps, per user session, the questions already
// served by the selector. State lives only for the process lifetime and is
// never written to the database.
type SessionHistoryRepository interface {
	GetHistory(sessionID string) (models.QuestionHistory, error)
	SaveHistory(sessionID string, history models.QuestionHistory) error
	ClearHistory(sessionID string)
}

type sessionEntry struct {
	history   models.QuestionHistory
	updatedAt time.Time
}

// sessionHistoryRepository is the in-memory implementation.
type sessionHistoryRepository struct {
	sessions  map[string]*sessionEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	mu        sync.RWMutex
}

// NewSessionHistoryRepository creates an in-memory history store. Sessions
// idle for longer than ttl are forgotten on their next access, or by the
// sweep SaveHistory runs at most once per ttl; ttl <= 0 keeps them forever.
func NewSessionHistoryRepository(ttl time.Duration) SessionHistoryRepository {
	return &sessionHistoryRepository{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetHistory returns a copy of the session's history, or an empty history for an unknown session.
func (r *sessionHistoryRepository) GetHistory(sessionID string) (models.QuestionHistory, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	r.mu.RLock()
	entry, exists := r.sessions[sessionID]
	r.mu.RUnlock()

	if !exists {
		return models.QuestionHistory{}, nil
	}
	if r.expired(entry) {
		r.mu.Lock()
		// Re-check under the write lock; a concurrent SaveHistory may have refreshed it.
		if current, ok := r.sessions[sessionID]; ok && r.expired(current) {
			delete(r.sessions, sessionID)
			log.Printf("INFO: [SessionHistoryRepository] Expired question history for session '%s'.", sessionID)
		}
		r.mu.Unlock()
		return models.QuestionHistory{}, nil
	}
	return entry.history.Clone(), nil
}

// SaveHistory replaces the session's history with a copy of history.
func (r *sessionHistoryRepository) SaveHistory(sessionID string, history models.QuestionHistory) error {
	if sessionID == "" {
		log.Printf("ERROR: [SessionHistoryRepository] SaveHistory: session ID cannot be empty.")
		return errors.New("session ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	r.sessions[sessionID] = &sessionEntry{history: history.Clone(), updatedAt: r.now()}
	return nil
}

// ClearHistory forgets a session, e.g. on logout.
func (r *sessionHistoryRepository) ClearHistory(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// sweepLocked drops every expired session. Callers hold the write lock.
func (r *sessionHistoryRepository) sweepLocked() {
	if r.ttl <= 0 {
		return
	}
	now := r.now()
	if !r.lastSweep.IsZero() && now.Sub(r.lastSweep) < r.ttl {
		return
	}
	r.lastSweep = now

	removed := 0
	for id, entry := range r.sessions {
		if r.expired(entry) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("INFO: [SessionHistoryRepository] Swept %d expired session(s).", removed)
	}
}

func (r *sessionHistoryRepository) expired(e *sessionEntry) bool {
	return r.ttl > 0 && r.now().Sub(e.updatedAt) > r.ttl
}
