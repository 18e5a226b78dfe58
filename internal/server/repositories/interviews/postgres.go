// Package interviews provides the PostgreSQL-backed interview answer
// repository. Answer text is stored as given; encryption happens above.
package interviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/dbx"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
)

// PostgresRepository implements answer storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOwnerAndCategory returns the owner's answers in category ordered by
// prompt number.
func (r *PostgresRepository) ListByOwnerAndCategory(ctx context.Context, ownerID int64, category catalog.Category) ([]*models.InterviewAnswer, error) {
	query := `
		SELECT id, owner_id, category, prompt_number, prompt_text, answer_text, updated_at
		FROM interview_answers
		WHERE owner_id = $1 AND category = $2
		ORDER BY prompt_number
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to select answers: %w", err)
	}
	defer rows.Close()

	result := []*models.InterviewAnswer{}
	for rows.Next() {
		var a models.InterviewAnswer
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Category, &a.PromptNumber, &a.PromptText, &a.AnswerText, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert inserts answer or, when a row for the same (owner, prompt number,
// category) exists, overwrites its answer text and timestamp in place. The
// stored prompt text of an existing row is kept. ID, PromptText and
// UpdatedAt are filled in from the stored row.
func (r *PostgresRepository) Upsert(ctx context.Context, answer *models.InterviewAnswer) (*models.InterviewAnswer, error) {
	query := `
		INSERT INTO interview_answers (owner_id, category, prompt_number, prompt_text, answer_text, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (owner_id, prompt_number, category)
		DO UPDATE SET
			answer_text = EXCLUDED.answer_text,
			updated_at = NOW()
		RETURNING id, prompt_text, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		answer.OwnerID, string(answer.Category), answer.PromptNumber, answer.PromptText, answer.AnswerText,
	).Scan(&answer.ID, &answer.PromptText, &answer.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return answer, nil
}

// UpdateAnswer overwrites the answer text of row id owned by ownerID.
func (r *PostgresRepository) UpdateAnswer(ctx context.Context, ownerID, id int64, answerText string) (*models.InterviewAnswer, error) {
	query := `
		UPDATE interview_answers SET answer_text = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
		RETURNING id, owner_id, category, prompt_number, prompt_text, answer_text, updated_at
	`
	var a models.InterviewAnswer
	err := r.db.QueryRowContext(ctx, query, answerText, id, ownerID).
		Scan(&a.ID, &a.OwnerID, &a.Category, &a.PromptNumber, &a.PromptText, &a.AnswerText, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}

// DeleteByOwner removes every answer of ownerID in all categories.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interview_answers WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete answers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
