package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/cryptox"
	"github.com/lifememo/navi/internal/dbx"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/repositories/repomanager"
)

const (
	minYear = 1
	maxYear = 9999
)

// TimelineInput describes a new event. Year and Title are required.
type TimelineInput struct {
	Category    string
	Year        *int
	Month       *int
	Title       string
	Description *string
	PhotoID     *int64
}

// TimelineService keeps chronological events with title and description
// encrypted at rest.
type TimelineService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.Cipher
	log         logging.Logger
}

func NewTimelineService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher, log logging.Logger) *TimelineService {
	return &TimelineService{db: db, repomanager: m, cipher: cipher, log: log}
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return validation("year %d is out of range", year)
	}
	return nil
}

func validateMonth(month *int) error {
	if month != nil && (*month < 1 || *month > 12) {
		return validation("month %d is out of range", *month)
	}
	return nil
}

// checkPhoto makes sure a referenced photo exists and belongs to the owner.
func (s *TimelineService) checkPhoto(ctx context.Context, db dbx.DBTX, ownerID int64, photoID *int64) error {
	if photoID == nil {
		return nil
	}
	if _, err := s.repomanager.Photos(db).Get(ctx, ownerID, *photoID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return validation("photo %d does not exist", *photoID)
		}
		return err
	}
	return nil
}

func (s *TimelineService) encrypt(e *models.TimelineEvent) (*models.TimelineEvent, error) {
	out := *e
	var err error
	if out.Title, err = s.cipher.Encrypt(e.Title); err != nil {
		return nil, err
	}
	if out.Description, err = s.cipher.EncryptOptional(e.Description); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TimelineService) decrypt(e *models.TimelineEvent) error {
	title, err := s.cipher.Decrypt(e.Title)
	if err != nil {
		return err
	}
	desc, err := s.cipher.DecryptOptional(e.Description)
	if err != nil {
		return err
	}
	e.Title, e.Description = title, desc
	return nil
}

// List returns the owner's events in category ordered by year, then month
// with a missing month first, then id; decrypted.
func (s *TimelineService) List(ctx context.Context, ownerID int64, category string) ([]*models.TimelineEvent, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := catalog.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	events, err := s.repomanager.Timelines(s.db).List(ctx, ownerID, c)
	if err != nil {
		logFailure(ctx, s.log, "list_events", ownerID, err)
		return nil, err
	}
	for _, e := range events {
		if err := s.decrypt(e); err != nil {
			logFailure(ctx, s.log, "list_events", ownerID, err)
			return nil, err
		}
	}
	models.SortTimeline(events)
	return events, nil
}

func (s *TimelineService) Get(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	e, err := s.repomanager.Timelines(s.db).Get(ctx, ownerID, id)
	if err != nil {
		logFailure(ctx, s.log, "get_event", ownerID, err)
		return nil, err
	}
	if err := s.decrypt(e); err != nil {
		logFailure(ctx, s.log, "get_event", ownerID, err)
		return nil, err
	}
	return e, nil
}

func (s *TimelineService) Create(ctx context.Context, ownerID int64, in TimelineInput) (*models.TimelineEvent, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := catalog.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if in.Year == nil {
		return nil, validation("year is required")
	}
	if err := validateYear(*in.Year); err != nil {
		return nil, err
	}
	if err := validateMonth(in.Month); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validation("title is required")
	}
	if err := s.checkPhoto(ctx, s.db, ownerID, in.PhotoID); err != nil {
		return nil, err
	}

	desc := in.Description
	if desc != nil && *desc == "" {
		desc = nil
	}

	plain := &models.TimelineEvent{
		OwnerID:     ownerID,
		Category:    c,
		Year:        *in.Year,
		Month:       in.Month,
		Title:       title,
		Description: desc,
		PhotoID:     in.PhotoID,
	}
	sealed, err := s.encrypt(plain)
	if err != nil {
		logFailure(ctx, s.log, "create_event", ownerID, err)
		return nil, err
	}

	created, err := s.repomanager.Timelines(s.db).Create(ctx, sealed)
	if err != nil {
		logFailure(ctx, s.log, "create_event", ownerID, err)
		return nil, err
	}
	plain.ID, plain.CreatedAt, plain.UpdatedAt = created.ID, created.CreatedAt, created.UpdatedAt
	return plain, nil
}

// Update applies the non-nil fields of patch to event id. An empty
// Description clears it; the month can be changed but not removed.
func (s *TimelineService) Update(ctx context.Context, ownerID, id int64, patch models.TimelinePatch) (*models.TimelineEvent, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, validation("nothing to update")
	}
	if patch.Year != nil {
		if err := validateYear(*patch.Year); err != nil {
			return nil, err
		}
	}
	if err := validateMonth(patch.Month); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, validation("title cannot be empty")
	}

	var result *models.TimelineEvent
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Timelines(tx)
		current, err := repo.GetForUpdate(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := s.decrypt(current); err != nil {
			return err
		}

		merged := *current
		if patch.Year != nil {
			merged.Year = *patch.Year
		}
		if patch.Month != nil {
			merged.Month = patch.Month
		}
		if patch.Title != nil {
			merged.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			merged.Description = patch.Description
			if *patch.Description == "" {
				merged.Description = nil
			}
		}
		if patch.PhotoID != nil {
			if err := s.checkPhoto(ctx, tx, ownerID, patch.PhotoID); err != nil {
				return err
			}
			merged.PhotoID = patch.PhotoID
		}

		sealed, err := s.encrypt(&merged)
		if err != nil {
			return err
		}
		saved, err := repo.Update(ctx, sealed)
		if err != nil {
			return err
		}
		merged.UpdatedAt = saved.UpdatedAt
		result = &merged
		return nil
	})
	if err != nil {
		logFailure(ctx, s.log, "update_event", ownerID, err)
		return nil, err
	}
	return result, nil
}

func (s *TimelineService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if err := s.repomanager.Timelines(s.db).Delete(ctx, ownerID, id); err != nil {
		logFailure(ctx, s.log, "delete_event", ownerID, err)
		return err
	}
	return nil
}
