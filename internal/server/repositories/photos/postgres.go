// Package photos provides the PostgreSQL-backed photo metadata repository.
// Image bytes are kept by a blob store; rows hold only the URL.
package photos

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectPhoto = `SELECT id, owner_id, category, stored_url, caption, uploaded_at FROM photos`

type scanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s scanner) (*models.Photo, error) {
	var (
		p       models.Photo
		caption sql.NullString
	)
	if err := s.Scan(&p.ID, &p.OwnerID, &p.Category, &p.URL, &caption, &p.UploadedAt); err != nil {
		return nil, err
	}
	if caption.Valid {
		p.Caption = &caption.String
	}
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	query := `
		INSERT INTO photos (owner_id, category, stored_url, caption)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at
	`
	err := r.db.QueryRowContext(ctx, query,
		photo.OwnerID, string(photo.Category), photo.URL, photo.Caption,
	).Scan(&photo.ID, &photo.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return photo, nil
}

// List returns the owner's photos in category ordered by upload time in the
// requested direction, id breaking ties.
func (r *PostgresRepository) List(ctx context.Context, ownerID int64, category catalog.Category, order models.SortOrder) ([]*models.Photo, error) {
	orderBy := ` ORDER BY uploaded_at DESC, id DESC`
	if order == models.Ascending {
		orderBy = ` ORDER BY uploaded_at ASC, id ASC`
	}
	query := selectPhoto + ` WHERE owner_id = $1 AND category = $2` + orderBy

	rows, err := r.db.QueryContext(ctx, query, ownerID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	result := []*models.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id int64) (*models.Photo, error) {
	p, err := scanPhoto(r.db.QueryRowContext(ctx, selectPhoto+` WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Delete removes photo id owned by ownerID and returns its stored URL so
// the caller can release the blob.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) (string, error) {
	var url string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM photos WHERE id = $1 AND owner_id = $2 RETURNING stored_url`, id, ownerID,
	).Scan(&url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return url, nil
}

// ListURLsByOwner returns the stored URL of every photo of ownerID across
// all categories.
func (r *PostgresRepository) ListURLsByOwner(ctx context.Context, ownerID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT stored_url FROM photos WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select photo urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete photos: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
