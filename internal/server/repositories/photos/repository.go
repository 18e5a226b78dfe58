package photos

import (
	"context"

	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	List(ctx context.Context, ownerID int64, category catalog.Category, order models.SortOrder) ([]*models.Photo, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Photo, error)
	Delete(ctx context.Context, ownerID, id int64) (string, error)
	ListURLsByOwner(ctx context.Context, ownerID int64) ([]string, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}
