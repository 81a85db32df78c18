package scan

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/scan/dto"
)

type UseCase interface {
	// Apply validates one tag read against the active session, commits its
	// effect exactly once, and emits the outcome. It returns an error only
	// for infrastructure failures; validation results are outcomes.
	Apply(ctx context.Context, read *dto.TagRead) (*dto.Outcome, error)
}
