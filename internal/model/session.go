package model

import "time"

type SessionMode string

const (
	ModeReceive SessionMode = "RECEIVE"
	ModeSell    SessionMode = "SELL"
)

type SessionState string

const (
	SessionActive   SessionState = "ACTIVE"
	SessionComplete SessionState = "COMPLETE"
)

// ScanSession is the single process-wide coordination object binding the
// physical reader's event stream to one target aggregate. At most one exists
// at a time; the version detects stale stop/start races.
type ScanSession struct {
	ID       string       `json:"id"`
	Mode     SessionMode  `json:"mode"`
	TargetID string       `json:"target_id"`          // purchase order id or bill id
	LineID   string       `json:"line_id,omitempty"`  // receiving line, RECEIVE only
	Version  uint64       `json:"version"`
	State    SessionState `json:"state"`

	// Applied holds the tag UIDs already counted in this session. A repeated
	// read of any of them must not change state.
	Applied map[string]struct{} `json:"-"`

	StartedAt   time.Time `json:"started_at"`
	LastEventAt time.Time `json:"last_event_at"`
}

func (s *ScanSession) HasApplied(uid string) bool {
	_, ok := s.Applied[uid]
	return ok
}

// Clone returns a snapshot safe to hand out of the store's critical section.
func (s *ScanSession) Clone() *ScanSession {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Applied = make(map[string]struct{}, len(s.Applied))
	for uid := range s.Applied {
		cp.Applied[uid] = struct{}{}
	}
	return &cp
}
