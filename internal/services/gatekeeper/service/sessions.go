package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"scriptgate/internal/core/gate"
	perr "scriptgate/internal/platform/errors"
	"scriptgate/internal/platform/logger"
)

// session binds one page session's controller to a mutex. The core is
// single-owner; the mutex is the "hosting event loop" that serializes the
// concurrent HTTP handlers touching it
type session struct {
	mu   sync.Mutex
	ctl  *gate.Controller
	last time.Time
}

// release unlocks the session after one serialized operation
func (s *session) release() { s.mu.Unlock() }

// sessionTable owns the session map and its idle expiry
type sessionTable struct {
	mu        sync.Mutex
	byID      map[string]*session
	cfg       Config
	log       *logger.Logger
	lastSweep time.Time
}

func newSessionTable(cfg Config, log *logger.Logger) *sessionTable {
	return &sessionTable{
		byID: make(map[string]*session),
		cfg:  cfg,
		log:  log,
	}
}

// acquire returns the session locked and with its idle clock refreshed,
// creating it on first touch. Callers must release() when done
func (t *sessionTable) acquire(id string) (*session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, perr.InvalidArgf("session_id must be a uuid")
	}

	t.mu.Lock()
	t.sweepLocked()
	sess, ok := t.byID[id]
	if !ok {
		sess = &session{
			ctl: gate.NewController(gate.Config{
				Enforced:      t.cfg.Enforced,
				MaxQueued:     t.cfg.MaxQueued,
				OnActionPanic: t.onActionPanic(id),
			}),
		}
		t.byID[id] = sess
		t.log.Debug().Str("session_id", id).Msg("page session created")
	}
	sess.last = time.Now()
	t.mu.Unlock()

	sess.mu.Lock()
	return sess, nil
}

// sweepLocked evicts idle sessions; piggybacks on acquire instead of a
// dedicated janitor goroutine since the table only grows under traffic
func (t *sessionTable) sweepLocked() {
	now := time.Now()
	if now.Sub(t.lastSweep) < t.cfg.SessionTTL/4 {
		return
	}
	t.lastSweep = now
	for id, sess := range t.byID {
		if now.Sub(sess.last) > t.cfg.SessionTTL {
			delete(t.byID, id)
			t.log.Debug().Str("session_id", id).Msg("page session expired")
		}
	}
}

// onActionPanic reports a contained failure from one released action
func (t *sessionTable) onActionPanic(id string) func(gate.Principal, int, any) {
	return func(p gate.Principal, idx int, v any) {
		t.log.Error().
			Str("session_id", id).
			Str("principal_id", string(p)).
			Int("index", idx).
			Any("panic", v).
			Msg("released action failed")
	}
}

// Len reports the live session count (used by tests and stats)
func (t *sessionTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}
