package session

import "errors"

var (
	// ErrSessionBusy means another session holds the global scan slot. The
	// caller must stop it first; this is not a crash condition.
	ErrSessionBusy = errors.New("another scan session is already active")

	// ErrTargetNotEligible means the target aggregate cannot accept scans:
	// a receiving line already at its expected quantity, or a bill that is
	// no longer a draft.
	ErrTargetNotEligible = errors.New("target is not in a scannable state")

	ErrTargetNotFound = errors.New("target not found")
)
