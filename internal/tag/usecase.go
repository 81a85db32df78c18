package tag

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/tag/dto"
)

type UseCase interface {
	GetTag(ctx context.Context, uid string) (*model.Tag, error)
	ListTags(ctx context.Context, filters *dto.TagFilters) ([]model.Tag, int, error)
	RegisterTag(ctx context.Context, input *dto.RegisterTagInput) (*model.Tag, error)
	MarkLost(ctx context.Context, uid string) error
	Deactivate(ctx context.Context, uid string) error
}
