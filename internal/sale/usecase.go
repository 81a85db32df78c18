package sale

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/model"
)

type UseCase interface {
	CreateDraft(ctx context.Context) (*model.Bill, error)
	GetBill(ctx context.Context, id string) (*model.Bill, error)
	ListBills(ctx context.Context) ([]model.Bill, error)
	Checkout(ctx context.Context, id string) (*model.Bill, error)
}
