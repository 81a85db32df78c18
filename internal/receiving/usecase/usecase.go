package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/receiving"
	"github.com/warekit/rfid-scan-service/internal/receiving/dto"
)

type receivingUseCase struct {
	repo   receiving.Repository
	logger *zap.Logger
}

func NewReceivingUseCase(repo receiving.Repository, log *zap.Logger) receiving.UseCase {
	return &receivingUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *receivingUseCase) ListPendingOrders(ctx context.Context) ([]model.PurchaseOrderSummary, error) {
	return uc.repo.ListPending(ctx)
}

func (uc *receivingUseCase) GetOrderDetail(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	po, err := uc.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, errors.New("purchase order not found")
	}
	return po, nil
}

func (uc *receivingUseCase) LineProgress(ctx context.Context, lineID string) (*dto.LineProgress, error) {
	line, err := uc.repo.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, errors.New("receiving line not found")
	}

	scanned, err := uc.repo.CountLineTags(ctx, lineID)
	if err != nil {
		return nil, err
	}

	return &dto.LineProgress{
		LineID:   lineID,
		Scanned:  scanned,
		Expected: line.ExpectedQty,
	}, nil
}
