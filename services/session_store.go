package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionStore keeps open editor sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

func NewSessionStore(logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{sessions: make(map[string]*Session), logger: logger}
}

func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove forgets a session without touching it.
func (st *SessionStore) Remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Discard closes and forgets a session. Sessions with a save in flight are kept.
func (st *SessionStore) Discard(id string) error {
	s, err := st.Get(id)
	if err != nil {
		return err
	}
	if err := s.Discard(); err != nil {
		return err
	}
	st.Remove(id)
	return nil
}

// Len returns the number of open sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// SweepIdle discards sessions untouched for longer than maxAge and returns how many went.
func (st *SessionStore) SweepIdle(now time.Time, maxAge time.Duration) int {
	st.mu.RLock()
	var stale []*Session
	for _, s := range st.sessions {
		status := s.Status()
		if status.Closed || (!status.State.Busy() && now.Sub(status.TouchedAt) > maxAge) {
			stale = append(stale, s)
		}
	}
	st.mu.RUnlock()

	swept := 0
	for _, s := range stale {
		if err := s.Discard(); err != nil {
			continue
		}
		st.Remove(s.ID)
		swept++
	}
	return swept
}

// StartSweeper runs SweepIdle every interval until ctx is done.
func (st *SessionStore) StartSweeper(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		st.logger.Info("editor session sweeper started", zap.Duration("interval", interval), zap.Duration("max_age", maxAge))
		for {
			select {
			case <-ctx.Done():
				st.logger.Info("editor session sweeper stopping")
				return
			case now := <-ticker.C:
				if n := st.SweepIdle(now, maxAge); n > 0 {
					st.logger.Info("Discarded idle editor sessions", zap.Int("count", n))
				}
			}
		}
	}()
}
