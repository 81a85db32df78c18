package session

import (
	"sync"
	"time"

	"github.com/warekit/rfid-scan-service/internal/model"
)

// SlotLockKey is the cross-instance lock guarding the single scan slot. The
// value is the holding session's id.
const SlotLockKey = "lock:rfid:scan-session"

// Store holds the single process-wide scan session. All session reads and
// writes go through its mutex; together with the one-at-a-time event loop this
// is the serialization point for the whole engine.
type Store struct {
	mu      sync.Mutex
	current *model.ScanSession
	version uint64
}

func NewStore() *Store {
	return &Store{}
}

// TryInstall claims the slot for the session with the given id. It fails when
// any session is active, regardless of mode or caller. The id is allocated by
// the caller so the cross-instance lock can be taken under it before the
// session ever becomes visible to the ingestor.
func (st *Store) TryInstall(id string, mode model.SessionMode, targetID, lineID string) (*model.ScanSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.current != nil {
		return nil, false
	}

	st.version++
	now := time.Now()
	st.current = &model.ScanSession{
		ID:          id,
		Mode:        mode,
		TargetID:    targetID,
		LineID:      lineID,
		Version:     st.version,
		State:       model.SessionActive,
		Applied:     make(map[string]struct{}),
		StartedAt:   now,
		LastEventAt: now,
	}
	return st.current.Clone(), true
}

// Stop releases the slot when version matches the active session. A stale
// version is a race loss, not an error: the caller's session was already
// superseded, so nothing happens.
func (st *Store) Stop(version uint64) *model.ScanSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.current == nil || st.current.Version != version {
		return nil
	}

	stopped := st.current.Clone()
	st.current = nil
	return stopped
}

// Snapshot returns a copy of the active session, or nil when idle.
func (st *Store) Snapshot() *model.ScanSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current.Clone()
}

// Exclusive runs fn on the live session under the store lock. fn is not
// called when no session is active. When fn returns true the slot is released
// before the lock is dropped, so completion and the final association are one
// atomic step.
func (st *Store) Exclusive(fn func(cur *model.ScanSession) (release bool)) (existed, released bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.current == nil {
		return false, false
	}
	if fn(st.current) {
		st.current = nil
		return true, true
	}
	return true, false
}

// ExpireIdle clears the slot when the active session saw no event since
// cutoff, and returns the evicted session.
func (st *Store) ExpireIdle(cutoff time.Time) *model.ScanSession {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.current == nil || st.current.LastEventAt.After(cutoff) {
		return nil
	}

	expired := st.current.Clone()
	st.current = nil
	return expired
}
