package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/cryptox"
	"github.com/lifememo/navi/internal/dbx"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/auth"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/config"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/repositories/repomanager"
)

// Session is an account together with a freshly issued bearer token.
type Session struct {
	Account *models.Account
	Token   string
}

type RegisterInput struct {
	Name     string
	Age      int
	Email    string
	Password string
	Category string
}

// AccountService handles registration, login and the account cascade
// delete.
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	blobs                       BlobStore
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	trialPeriod                 time.Duration
	now                         func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, blobs BlobStore, cfg *config.Config, log logging.Logger) *AccountService {
	return &AccountService{
		db:                          db,
		repomanager:                 m,
		blobs:                       blobs,
		log:                         log,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		trialPeriod:                 cfg.TrialPeriod,
		now:                         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) issue(account *models.Account) (*Session, error) {
	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Token: token}, nil
}

// Register creates an account with a trial period starting now and returns
// it with a token. A taken email yields common.ErrAlreadyExists.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, validation("name is required")
	case email == "":
		return nil, validation("email is required")
	case in.Password == "":
		return nil, validation("password is required")
	case in.Age < 0 || in.Age > 150:
		return nil, validation("age %d is out of range", in.Age)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validation("email %q is malformed", in.Email)
	}
	category, err := catalog.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return nil, validation("password cannot be hashed: %v", err)
	}

	account := &models.Account{
		Name:         name,
		Age:          in.Age,
		Email:        email,
		PasswordHash: hash,
		Category:     category,
	}
	if s.trialPeriod > 0 {
		account.TrialExpiresAt = s.now().Add(s.trialPeriod)
	}

	created, err := s.repomanager.Accounts(s.db).Create(ctx, account)
	if err != nil {
		if !errors.Is(err, common.ErrAlreadyExists) {
			logFailure(ctx, s.log, "register", 0, err)
		}
		return nil, err
	}
	s.log.Info(ctx, "account registered", "owner_id", created.ID, "category", created.Category)
	return s.issue(created)
}

// Login checks credentials. Unknown email and wrong password both yield
// common.ErrUnauthorized; an expired trial yields common.ErrTrialExpired.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		logFailure(ctx, s.log, "login", 0, err)
		return nil, err
	}

	ok, err := cryptox.CheckPassword(account.PasswordHash, password)
	if err != nil {
		logFailure(ctx, s.log, "login", account.ID, err)
		return nil, common.ErrUnauthorized
	}
	if !ok {
		return nil, common.ErrUnauthorized
	}
	if account.TrialExpired(s.now()) {
		return nil, common.ErrTrialExpired
	}
	return s.issue(account)
}

func (s *AccountService) Me(ctx context.Context, ownerID int64) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, ownerID)
	if err != nil {
		logFailure(ctx, s.log, "me", ownerID, err)
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes the account and every answer, timeline event and
// photo row it owns in one transaction. Any failing step rolls everything
// back and yields common.ErrDeletion. Once committed, the stored photo
// bytes are removed best-effort.
func (s *AccountService) DeleteAccount(ctx context.Context, ownerID int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	var urls []string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if urls, err = s.repomanager.Photos(tx).ListURLsByOwner(ctx, ownerID); err != nil {
			return err
		}
		if _, err = s.repomanager.Interviews(tx).DeleteByOwner(ctx, ownerID); err != nil {
			return err
		}
		if _, err = s.repomanager.Timelines(tx).DeleteByOwner(ctx, ownerID); err != nil {
			return err
		}
		if _, err = s.repomanager.Photos(tx).DeleteByOwner(ctx, ownerID); err != nil {
			return err
		}
		return s.repomanager.Accounts(tx).Delete(ctx, ownerID)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		err = fmt.Errorf("%w: %v", common.ErrDeletion, err)
		logFailure(ctx, s.log, "delete_account", ownerID, err)
		return err
	}

	for _, url := range urls {
		if err := s.blobs.Delete(ctx, url); err != nil {
			s.log.Warn(ctx, "stored photo not removed", "owner_id", ownerID, "url", url, "error", err)
		}
	}
	s.log.Info(ctx, "account deleted", "owner_id", ownerID, "photos", len(urls))
	return nil
}

// ListAccounts returns every account, newest first, for operators.
func (s *AccountService) ListAccounts(ctx context.Context) ([]*models.AccountSummary, error) {
	list, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		logFailure(ctx, s.log, "list_accounts", 0, err)
		return nil, err
	}
	return list, nil
}
