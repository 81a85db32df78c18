package history

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/history/dto"
	"github.com/warekit/rfid-scan-service/internal/model"
)

type UseCase interface {
	ListEvents(ctx context.Context, filters *dto.EventFilters) ([]model.TagEvent, int, error)

	// ReplayStoreProgress and ReplaySellTotals reconstruct a target's
	// progress purely from the event history. They must agree with the live
	// projection; reports use them to detect drift.
	ReplayStoreProgress(ctx context.Context, orderID string) (int, error)
	ReplaySellTotals(ctx context.Context, billID string) (qty int, total float64, err error)
}
