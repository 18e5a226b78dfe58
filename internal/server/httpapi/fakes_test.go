package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/auth"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/services"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeAccounts struct {
	AccountService
	registered services.RegisterInput
	loginErr   error
	deleted    int64
	deleteErr  error
	list       []*models.AccountSummary
}

func (f *fakeAccounts) Register(ctx context.Context, in services.RegisterInput) (*services.Session, error) {
	if in.Email == "taken@example.com" {
		return nil, common.ErrAlreadyExists
	}
	f.registered = in
	return &services.Session{Account: &models.Account{ID: 7, Name: in.Name, Email: in.Email, PasswordHash: "hash"}, Token: "tok"}, nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*services.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.Session{Account: &models.Account{ID: 7, Email: email}, Token: "tok"}, nil
}

func (f *fakeAccounts) Me(ctx context.Context, ownerID int64) (*models.Account, error) {
	if ownerID != 7 {
		return nil, common.ErrNotFound
	}
	return &models.Account{ID: 7, Name: "Hanako", PasswordHash: "hash"}, nil
}

func (f *fakeAccounts) DeleteAccount(ctx context.Context, ownerID int64) error {
	f.deleted = ownerID
	return f.deleteErr
}

func (f *fakeAccounts) ListAccounts(ctx context.Context) ([]*models.AccountSummary, error) {
	return f.list, nil
}

type fakeInterviews struct {
	InterviewService
	category  string
	upserted  int
	polishErr error
}

func (f *fakeInterviews) List(ctx context.Context, ownerID int64, category string) ([]*models.InterviewAnswer, error) {
	if _, err := catalog.ParseCategory(category); err != nil {
		return nil, err
	}
	f.category = category
	return []*models.InterviewAnswer{{ID: 1, OwnerID: ownerID, PromptNumber: 1, AnswerText: "hello"}}, nil
}

func (f *fakeInterviews) Upsert(ctx context.Context, ownerID int64, category string, n int, text string) (*models.InterviewAnswer, error) {
	if _, err := catalog.Prompt(catalog.Primary, n); err != nil {
		return nil, err
	}
	f.upserted = n
	return &models.InterviewAnswer{ID: 3, OwnerID: ownerID, PromptNumber: n, AnswerText: text}, nil
}

func (f *fakeInterviews) UpdateAnswer(ctx context.Context, ownerID, id int64, text string) (*models.InterviewAnswer, error) {
	if id != 3 {
		return nil, common.ErrNotFound
	}
	return &models.InterviewAnswer{ID: id, OwnerID: ownerID, AnswerText: text}, nil
}

func (f *fakeInterviews) Polish(ctx context.Context, promptText, answerText string) (string, error) {
	if f.polishErr != nil {
		return "", f.polishErr
	}
	return "polished: " + answerText, nil
}

func (f *fakeInterviews) PolishAll(ctx context.Context, items []models.PolishItem) ([]models.PolishResult, error) {
	out := make([]models.PolishResult, 0, len(items))
	for _, it := range items {
		out = append(out, models.PolishResult{PromptNumber: it.PromptNumber, EditedText: it.AnswerText, Succeeded: true})
	}
	return out, nil
}

type fakeTimelines struct {
	TimelineService
	created services.TimelineInput
	patch   models.TimelinePatch
	deleted int64
}

func (f *fakeTimelines) List(ctx context.Context, ownerID int64, category string) ([]*models.TimelineEvent, error) {
	return []*models.TimelineEvent{{ID: 1, Year: 1990, Title: "a"}, {ID: 2, Year: 2001, Title: "b"}}, nil
}

func (f *fakeTimelines) Get(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error) {
	if id != 1 {
		return nil, common.ErrNotFound
	}
	return &models.TimelineEvent{ID: 1, OwnerID: ownerID, Year: 1990, Title: "a"}, nil
}

func (f *fakeTimelines) Create(ctx context.Context, ownerID int64, in services.TimelineInput) (*models.TimelineEvent, error) {
	if in.Year == nil {
		return nil, common.ErrValidation
	}
	f.created = in
	return &models.TimelineEvent{ID: 9, OwnerID: ownerID, Year: *in.Year, Title: in.Title}, nil
}

func (f *fakeTimelines) Update(ctx context.Context, ownerID, id int64, patch models.TimelinePatch) (*models.TimelineEvent, error) {
	f.patch = patch
	return &models.TimelineEvent{ID: id, OwnerID: ownerID, Title: "updated"}, nil
}

func (f *fakeTimelines) Delete(ctx context.Context, ownerID, id int64) error {
	f.deleted = id
	return nil
}

type fakePhotos struct {
	PhotoService
	uploaded services.UploadInput
	order    models.SortOrder
	err      error
}

func (f *fakePhotos) Upload(ctx context.Context, ownerID int64, in services.UploadInput) (*models.Photo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = in
	return &models.Photo{ID: 5, OwnerID: ownerID, URL: "/uploads/photos/x.png", Caption: in.Caption}, nil
}

func (f *fakePhotos) List(ctx context.Context, ownerID int64, category string, order models.SortOrder) ([]*models.Photo, error) {
	f.order = order
	return []*models.Photo{}, nil
}

func (f *fakePhotos) Delete(ctx context.Context, ownerID, id int64) error {
	return f.err
}

type fakeDocuments struct {
	err error
}

func (f *fakeDocuments) Generate(ctx context.Context, ownerID int64, category string) ([]byte, catalog.Category, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("%PDF-1.3 fake"), catalog.Company, nil
}

type testAPI struct {
	handler    http.Handler
	accounts   *fakeAccounts
	interviews *fakeInterviews
	timelines  *fakeTimelines
	photos     *fakePhotos
	documents  *fakeDocuments
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()
	if opts.JWTSecret == nil {
		opts.JWTSecret = testSecret
	}
	api := &testAPI{
		accounts:   &fakeAccounts{},
		interviews: &fakeInterviews{},
		timelines:  &fakeTimelines{},
		photos:     &fakePhotos{},
		documents:  &fakeDocuments{},
	}
	api.handler = NewRouter(Services{
		Accounts:   api.accounts,
		Interviews: api.interviews,
		Timelines:  api.timelines,
		Photos:     api.photos,
		Documents:  api.documents,
	}, logging.Discard(), opts)
	return api
}

func bearer(t *testing.T, accountID int64) string {
	t.Helper()
	tok, err := auth.GenerateToken(accountID, testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}
