package services

import (
	"bytes"
	"context"
	"time"

	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/document"
	"github.com/lifememo/navi/internal/server/models"
)

// DocumentService assembles an account's records into a PDF booklet.
type DocumentService struct {
	accounts   *AccountService
	interviews *InterviewService
	timelines  *TimelineService
	photos     *PhotoService
	renderer   *document.Renderer
	log        logging.Logger
	now        func() time.Time
}

func NewDocumentService(accounts *AccountService, interviews *InterviewService, timelines *TimelineService,
	photos *PhotoService, renderer *document.Renderer, log logging.Logger) *DocumentService {
	return &DocumentService{
		accounts:   accounts,
		interviews: interviews,
		timelines:  timelines,
		photos:     photos,
		renderer:   renderer,
		log:        log,
		now:        time.Now,
	}
}

// Generate renders the booklet for category and returns the PDF bytes with
// the resolved category.
func (s *DocumentService) Generate(ctx context.Context, ownerID int64, category string) ([]byte, catalog.Category, error) {
	c, err := catalog.ParseCategory(category)
	if err != nil {
		return nil, "", err
	}
	account, err := s.accounts.Me(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}
	answers, err := s.interviews.List(ctx, ownerID, string(c))
	if err != nil {
		return nil, "", err
	}
	events, err := s.timelines.List(ctx, ownerID, string(c))
	if err != nil {
		return nil, "", err
	}
	photos, err := s.photos.List(ctx, ownerID, string(c), models.Ascending)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	err = s.renderer.Render(ctx, &document.Booklet{
		Account:  account,
		Category: c,
		Answers:  answers,
		Events:   events,
		Photos:   photos,
		Created:  s.now(),
	}, &buf)
	if err != nil {
		logFailure(ctx, s.log, "generate_document", ownerID, err)
		return nil, "", err
	}
	return buf.Bytes(), c, nil
}
