package receiving

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/receiving/dto"
)

type UseCase interface {
	ListPendingOrders(ctx context.Context) ([]model.PurchaseOrderSummary, error)
	GetOrderDetail(ctx context.Context, id string) (*model.PurchaseOrder, error)
	LineProgress(ctx context.Context, lineID string) (*dto.LineProgress, error)
}
