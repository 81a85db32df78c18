package scan

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/model"
)

// Repository commits one association as a single transaction: the tag's
// registry row, the association row, and the history record move together or
// not at all.
type Repository interface {
	ApplyReceive(ctx context.Context, assoc *model.LineAssociation, productID string, event *model.TagEvent) error
	ApplySell(ctx context.Context, assoc *model.BillAssociation, event *model.TagEvent) error
}
