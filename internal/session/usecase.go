package session

import (
	"context"
	"time"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/session/dto"
)

// SlotLocker is the cross-instance mutual exclusion on the scan slot,
// satisfied by the redis cache client.
type SlotLocker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
	RefreshLock(ctx context.Context, key, value string, ttl time.Duration) error
}

type UseCase interface {
	// Start claims the global slot and returns a handle with the version
	// used for stale-request detection.
	Start(ctx context.Context, mode model.SessionMode, targetID, lineID string) (*dto.SessionHandle, error)

	// Stop releases the slot if version still matches; stale stops are
	// quiet no-ops.
	Stop(ctx context.Context, version uint64) bool

	// StopTarget stops whichever session currently targets the aggregate.
	// Covers the original stop endpoints, which carry no version.
	StopTarget(ctx context.Context, targetID string) bool

	Active() *model.ScanSession

	// RunSweeper force-stops idle sessions until ctx is cancelled.
	RunSweeper(ctx context.Context)
}
