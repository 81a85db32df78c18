package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/tag"
	"github.com/warekit/rfid-scan-service/internal/tag/dto"
)

type tagUseCase struct {
	repo   tag.Repository
	logger *zap.Logger
}

func NewTagUseCase(repo tag.Repository, log *zap.Logger) tag.UseCase {
	return &tagUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *tagUseCase) GetTag(ctx context.Context, uid string) (*model.Tag, error) {
	t, err := uc.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New("tag not found")
	}
	return t, nil
}

func (uc *tagUseCase) ListTags(ctx context.Context, filters *dto.TagFilters) ([]model.Tag, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *tagUseCase) RegisterTag(ctx context.Context, input *dto.RegisterTagInput) (*model.Tag, error) {
	existing, err := uc.repo.GetByUID(ctx, input.UID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("tag already registered")
	}

	now := time.Now()
	t := &model.Tag{
		UID:       input.UID,
		Status:    model.TagStatusUnused,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// MarkLost and Deactivate are administrative: they never touch a tag that is
// mid-scan, because scan effects only run through the ingestor's transaction.
func (uc *tagUseCase) MarkLost(ctx context.Context, uid string) error {
	return uc.repo.UpdateStatus(ctx, uid, model.TagStatusLost)
}

func (uc *tagUseCase) Deactivate(ctx context.Context, uid string) error {
	return uc.repo.UpdateStatus(ctx, uid, model.TagStatusInactive)
}
