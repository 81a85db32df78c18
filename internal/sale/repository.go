package sale

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/model"
)

type Repository interface {
	CreateDraft(ctx context.Context, bill *model.Bill) error
	GetByID(ctx context.Context, id string) (*model.Bill, error)

	// GetWithItems loads the bill with item groups and totals recomputed from
	// the consumed-tag rows.
	GetWithItems(ctx context.Context, id string) (*model.Bill, error)
	List(ctx context.Context) ([]model.Bill, error)
	ListBillTags(ctx context.Context, billID string) ([]model.BillAssociation, error)

	// Checkout fixes the derived totals onto the bill and moves it out of
	// DRAFT in one transaction.
	Checkout(ctx context.Context, id string) (*model.Bill, error)
}
