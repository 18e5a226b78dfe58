// Package timelines provides the PostgreSQL-backed timeline event repository.
package timelines

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

const selectEvent = `SELECT id, owner_id, category, year, month, title, description, photo_id, created_at, updated_at FROM timeline_events`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*models.TimelineEvent, error) {
	var (
		e     models.TimelineEvent
		month sql.NullInt32
		desc  sql.NullString
		photo sql.NullInt64
	)
	if err := s.Scan(&e.ID, &e.OwnerID, &e.Category, &e.Year, &month, &e.Title, &desc, &photo, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if month.Valid {
		m := int(month.Int32)
		e.Month = &m
	}
	if desc.Valid {
		e.Description = &desc.String
	}
	if photo.Valid {
		e.PhotoID = &photo.Int64
	}
	return &e, nil
}

// List returns the owner's events in category by year, month (missing month
// first), id.
func (r *PostgresRepository) List(ctx context.Context, ownerID int64, category catalog.Category) ([]*models.TimelineEvent, error) {
	query := selectEvent + `
		WHERE owner_id = $1 AND category = $2
		ORDER BY year ASC, month ASC NULLS FIRST, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	result := []*models.TimelineEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) get(ctx context.Context, query string, ownerID, id int64) (*models.TimelineEvent, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Get returns event id if it belongs to ownerID.
func (r *PostgresRepository) Get(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error) {
	return r.get(ctx, selectEvent+` WHERE id = $1 AND owner_id = $2`, ownerID, id)
}

// GetForUpdate is Get with a row lock; call it inside a transaction.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error) {
	return r.get(ctx, selectEvent+` WHERE id = $1 AND owner_id = $2 FOR UPDATE`, ownerID, id)
}

// Create inserts event and fills in ID, CreatedAt and UpdatedAt.
func (r *PostgresRepository) Create(ctx context.Context, event *models.TimelineEvent) (*models.TimelineEvent, error) {
	query := `
		INSERT INTO timeline_events (owner_id, category, year, month, title, description, photo_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		event.OwnerID, string(event.Category), event.Year, event.Month, event.Title, event.Description, event.PhotoID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

// Update writes every mutable field of event. The row must belong to
// event.OwnerID.
func (r *PostgresRepository) Update(ctx context.Context, event *models.TimelineEvent) (*models.TimelineEvent, error) {
	query := `
		UPDATE timeline_events
		SET year = $1, month = $2, title = $3, description = $4, photo_id = $5, updated_at = NOW()
		WHERE id = $6 AND owner_id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		event.Year, event.Month, event.Title, event.Description, event.PhotoID, event.ID, event.OwnerID,
	).Scan(&event.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timeline_events WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timeline_events WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
