package accounts

import (
	"context"

	"github.com/lifememo/navi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	List(ctx context.Context) ([]*models.AccountSummary, error)
	Delete(ctx context.Context, id int64) error
}
