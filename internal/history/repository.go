package history

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/history/dto"
	"github.com/warekit/rfid-scan-service/internal/model"
)

// Repository is read-only from the engine's point of view: history rows are
// appended inside the ingestor's transaction, never from here.
type Repository interface {
	Find(ctx context.Context, filters *dto.EventFilters) ([]model.TagEvent, int, error)

	// CountDistinctTags replays the history for one action kind. Counting
	// distinct UIDs makes the replay idempotent even if duplicate rows were
	// ever to appear.
	CountDistinctTags(ctx context.Context, action string) (int, error)

	// DistinctTagTotals additionally prices the distinct tags through their
	// product binding, so a bill's money total can be reconstructed too.
	DistinctTagTotals(ctx context.Context, action string) (int, float64, error)
}
