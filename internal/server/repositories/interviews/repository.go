package interviews

import (
	"context"

	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
)

type Repository interface {
	ListByOwnerAndCategory(ctx context.Context, ownerID int64, category catalog.Category) ([]*models.InterviewAnswer, error)
	Upsert(ctx context.Context, answer *models.InterviewAnswer) (*models.InterviewAnswer, error)
	UpdateAnswer(ctx context.Context, ownerID, id int64, answerText string) (*models.InterviewAnswer, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}
