package tag

import (
	"context"

	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/tag/dto"
)

type Repository interface {
	GetByUID(ctx context.Context, uid string) (*model.Tag, error)
	FindAll(ctx context.Context, filters *dto.TagFilters) ([]model.Tag, int, error)
	Create(ctx context.Context, tag *model.Tag) error
	UpdateStatus(ctx context.Context, uid, status string) error
}
