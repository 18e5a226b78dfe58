package timelines

import (
	"context"

	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, ownerID int64, category catalog.Category) ([]*models.TimelineEvent, error)
	Get(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error)
	GetForUpdate(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error)
	Create(ctx context.Context, event *models.TimelineEvent) (*models.TimelineEvent, error)
	Update(ctx context.Context, event *models.TimelineEvent) (*models.TimelineEvent, error)
	Delete(ctx context.Context, ownerID, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}
