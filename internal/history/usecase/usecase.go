package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/history"
	"github.com/warekit/rfid-scan-service/internal/history/dto"
	"github.com/warekit/rfid-scan-service/internal/model"
)

type historyUseCase struct {
	repo   history.Repository
	logger *zap.Logger
}

func NewHistoryUseCase(repo history.Repository, log *zap.Logger) history.UseCase {
	return &historyUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *historyUseCase) ListEvents(ctx context.Context, filters *dto.EventFilters) ([]model.TagEvent, int, error) {
	return uc.repo.Find(ctx, filters)
}

func (uc *historyUseCase) ReplayStoreProgress(ctx context.Context, orderID string) (int, error) {
	return uc.repo.CountDistinctTags(ctx, model.ActionStorePrefix+orderID)
}

func (uc *historyUseCase) ReplaySellTotals(ctx context.Context, billID string) (int, float64, error) {
	return uc.repo.DistinctTagTotals(ctx, model.ActionSellPrefix+billID)
}
