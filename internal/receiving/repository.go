package receiving

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/model"
)

type Repository interface {
	// ListPending returns orders that still have lines with scanned < expected.
	ListPending(ctx context.Context) ([]model.PurchaseOrderSummary, error)
	GetOrder(ctx context.Context, id string) (*model.PurchaseOrder, error)
	GetLine(ctx context.Context, lineID string) (*model.ReceivingLine, error)

	// CountLineTags recomputes a line's progress from association rows.
	CountLineTags(ctx context.Context, lineID string) (int, error)
	ListLineTags(ctx context.Context, lineID string) ([]model.LineAssociation, error)
}
