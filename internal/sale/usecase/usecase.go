package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/sale"
)

type saleUseCase struct {
	repo   sale.Repository
	logger *zap.Logger
}

func NewSaleUseCase(repo sale.Repository, log *zap.Logger) sale.UseCase {
	return &saleUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *saleUseCase) CreateDraft(ctx context.Context) (*model.Bill, error) {
	now := time.Now()
	bill := &model.Bill{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Status: model.BillStatusDraft,
	}

	if err := uc.repo.CreateDraft(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (uc *saleUseCase) GetBill(ctx context.Context, id string) (*model.Bill, error) {
	bill, err := uc.repo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, errors.New("bill not found")
	}
	return bill, nil
}

func (uc *saleUseCase) ListBills(ctx context.Context) ([]model.Bill, error) {
	return uc.repo.List(ctx)
}

func (uc *saleUseCase) Checkout(ctx context.Context, id string) (*model.Bill, error) {
	bill, err := uc.repo.Checkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, errors.New("bill not found")
	}

	uc.logger.Info("bill checked out",
		zap.String("bill_id", bill.ID),
		zap.Int("total_qty", bill.TotalQty),
		zap.Float64("total_price", bill.TotalPrice),
	)
	return bill, nil
}
