package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/cryptox"
	"github.com/lifememo/navi/internal/dbx"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/config"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/repositories/accounts"
	"github.com/lifememo/navi/internal/server/repositories/interviews"
	"github.com/lifememo/navi/internal/server/repositories/photos"
	"github.com/lifememo/navi/internal/server/repositories/timelines"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// memStore is an in-memory stand-in for the four tables. Rows are stored as
// the repositories would store them, so sensitive fields hold ciphertext.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*models.Account
	answers  map[int64]*models.InterviewAnswer
	events   map[int64]*models.TimelineEvent
	photos   map[int64]*models.Photo

	photoCreateErr error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[int64]*models.Account{},
		answers:  map[int64]*models.InterviewAnswer{},
		events:   map[int64]*models.TimelineEvent{},
		photos:   map[int64]*models.Photo{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memAccounts struct{ *memStore }

func (r memAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	c := *a
	c.ID, c.CreatedAt = r.id(), time.Now()
	r.accounts[c.ID] = &c
	out := c
	return &out, nil
}

func (r memAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memAccounts) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r memAccounts) List(ctx context.Context) ([]*models.AccountSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.AccountSummary{}
	for _, a := range r.accounts {
		out = append(out, &models.AccountSummary{ID: a.ID, Name: a.Name, Email: a.Email, CreatedAt: a.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memAccounts) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

type memAnswers struct{ *memStore }

func (r memAnswers) ListByOwnerAndCategory(ctx context.Context, ownerID int64, c catalog.Category) ([]*models.InterviewAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.InterviewAnswer{}
	for _, a := range r.answers {
		if a.OwnerID == ownerID && a.Category == c {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PromptNumber < out[j].PromptNumber })
	return out, nil
}

func (r memAnswers) Upsert(ctx context.Context, a *models.InterviewAnswer) (*models.InterviewAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.answers {
		if existing.OwnerID == a.OwnerID && existing.Category == a.Category && existing.PromptNumber == a.PromptNumber {
			existing.AnswerText, existing.UpdatedAt = a.AnswerText, time.Now()
			cp := *existing
			return &cp, nil
		}
	}
	cp := *a
	cp.ID, cp.UpdatedAt = r.id(), time.Now()
	r.answers[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memAnswers) UpdateAnswer(ctx context.Context, ownerID, id int64, text string) (*models.InterviewAnswer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[id]
	if !ok || a.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	a.AnswerText, a.UpdatedAt = text, time.Now()
	cp := *a
	return &cp, nil
}

func (r memAnswers) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.answers {
		if a.OwnerID == ownerID {
			delete(r.answers, id)
			n++
		}
	}
	return n, nil
}

type memEvents struct{ *memStore }

func (r memEvents) List(ctx context.Context, ownerID int64, c catalog.Category) ([]*models.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.TimelineEvent{}
	for _, e := range r.events {
		if e.OwnerID == ownerID && e.Category == c {
			cp := *e
			out = append(out, &cp)
		}
	}
	models.SortTimeline(out)
	return out, nil
}

func (r memEvents) Get(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r memEvents) GetForUpdate(ctx context.Context, ownerID, id int64) (*models.TimelineEvent, error) {
	return r.Get(ctx, ownerID, id)
}

func (r memEvents) Create(ctx context.Context, e *models.TimelineEvent) (*models.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	cp.ID = r.id()
	cp.CreatedAt, cp.UpdatedAt = time.Now(), time.Now()
	r.events[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memEvents) Update(ctx context.Context, e *models.TimelineEvent) (*models.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.events[e.ID]
	if !ok || existing.OwnerID != e.OwnerID {
		return nil, common.ErrNotFound
	}
	cp := *e
	cp.UpdatedAt = time.Now()
	r.events[e.ID] = &cp
	out := cp
	return &out, nil
}

func (r memEvents) Delete(ctx context.Context, ownerID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.OwnerID != ownerID {
		return common.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r memEvents) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.events {
		if e.OwnerID == ownerID {
			delete(r.events, id)
			n++
		}
	}
	return n, nil
}

type memPhotos struct{ *memStore }

func (r memPhotos) Create(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.photoCreateErr != nil {
		return nil, r.photoCreateErr
	}
	cp := *p
	cp.ID, cp.UploadedAt = r.id(), time.Now().Add(time.Duration(r.nextID)*time.Second)
	r.photos[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memPhotos) List(ctx context.Context, ownerID int64, c catalog.Category, order models.SortOrder) ([]*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Photo{}
	for _, p := range r.photos {
		if p.OwnerID == ownerID && p.Category == c {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == models.Ascending {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memPhotos) Get(ctx context.Context, ownerID, id int64) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok || p.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPhotos) Delete(ctx context.Context, ownerID, id int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok || p.OwnerID != ownerID {
		return "", common.ErrNotFound
	}
	delete(r.photos, id)
	return p.URL, nil
}

func (r memPhotos) ListURLsByOwner(ctx context.Context, ownerID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var urls []string
	for _, p := range r.photos {
		if p.OwnerID == ownerID {
			urls = append(urls, p.URL)
		}
	}
	sort.Strings(urls)
	return urls, nil
}

func (r memPhotos) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.photos {
		if p.OwnerID == ownerID {
			delete(r.photos, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct{ store *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository {
	return memAccounts{m.store}
}

func (m *fakeRepoManager) Interviews(db dbx.DBTX) interviews.Repository {
	return memAnswers{m.store}
}

func (m *fakeRepoManager) Timelines(db dbx.DBTX) timelines.Repository {
	return memEvents{m.store}
}

func (m *fakeRepoManager) Photos(db dbx.DBTX) photos.Repository {
	return memPhotos{m.store}
}

type fakeBlobs struct {
	mu        sync.Mutex
	stored    map[string][]byte
	deleted   []string
	putErr    error
	deleteErr error
	n         int
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{stored: map[string][]byte{}} }

func (b *fakeBlobs) Put(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return "", b.putErr
	}
	b.n++
	url := fmt.Sprintf("/uploads/photos/%d-%s", b.n, filename)
	b.stored[url] = data
	return url, nil
}

func (b *fakeBlobs) Delete(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, url)
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.stored, url)
	return nil
}

type fakePolisher struct {
	fail  map[string]error
	calls []string
}

func (p *fakePolisher) Polish(ctx context.Context, promptText, answerText string) (string, error) {
	p.calls = append(p.calls, answerText)
	if err := p.fail[answerText]; err != nil {
		return "", err
	}
	return "[edited] " + answerText, nil
}

type fixture struct {
	db         *sql.DB
	mock       sqlmock.Sqlmock
	store      *memStore
	blobs      *fakeBlobs
	polisher   *fakePolisher
	cipher     *cryptox.Cipher
	accounts   *AccountService
	interviews *InterviewService
	timelines  *TimelineService
	photos     *PhotoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		db:       db,
		mock:     mock,
		store:    newMemStore(),
		blobs:    newFakeBlobs(),
		polisher: &fakePolisher{fail: map[string]error{}},
		cipher:   cryptox.NewCipher(testKey),
	}
	rm := &fakeRepoManager{store: f.store}
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, TrialPeriod: 30 * 24 * time.Hour}
	log := logging.Discard()

	f.accounts = NewAccountService(db, rm, f.blobs, cfg, log)
	f.interviews = NewInterviewService(db, rm, f.cipher, f.polisher, log)
	f.timelines = NewTimelineService(db, rm, f.cipher, log)
	f.photos = NewPhotoService(db, rm, f.blobs, f.cipher, 1<<20, log)
	return f
}

func (f *fixture) register(t *testing.T, email string) *models.Account {
	t.Helper()
	s, err := f.accounts.Register(context.Background(), RegisterInput{
		Name: "Hanako", Age: 72, Email: email, Password: "pw-123456", Category: "primary",
	})
	require.NoError(t, err)
	return s.Account
}
