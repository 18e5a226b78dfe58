package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lifememo/navi/internal/cryptox"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/polish"
	"github.com/lifememo/navi/internal/server/repositories/repomanager"
)

// InterviewService stores one answer per (owner, category, prompt number)
// with the answer text encrypted at rest.
type InterviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.Cipher
	polisher    polish.Polisher
	log         logging.Logger
}

func NewInterviewService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.Cipher, polisher polish.Polisher, log logging.Logger) *InterviewService {
	return &InterviewService{db: db, repomanager: m, cipher: cipher, polisher: polisher, log: log}
}

func (s *InterviewService) decrypt(a *models.InterviewAnswer) error {
	text, err := s.cipher.Decrypt(a.AnswerText)
	if err != nil {
		return err
	}
	a.AnswerText = text
	return nil
}

// List returns the owner's answers in category ordered by prompt number,
// decrypted.
func (s *InterviewService) List(ctx context.Context, ownerID int64, category string) ([]*models.InterviewAnswer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := catalog.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	answers, err := s.repomanager.Interviews(s.db).ListByOwnerAndCategory(ctx, ownerID, c)
	if err != nil {
		logFailure(ctx, s.log, "list_answers", ownerID, err)
		return nil, err
	}
	for _, a := range answers {
		if err := s.decrypt(a); err != nil {
			logFailure(ctx, s.log, "list_answers", ownerID, err)
			return nil, err
		}
	}
	return answers, nil
}

// Upsert saves the answer to prompt promptNumber (1..15) of category. A
// second save for the same triple overwrites the text in place. The prompt
// text is taken from the catalog.
func (s *InterviewService) Upsert(ctx context.Context, ownerID int64, category string, promptNumber int, answerText string) (*models.InterviewAnswer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := catalog.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	promptText, err := catalog.Prompt(c, promptNumber)
	if err != nil {
		return nil, err
	}

	token, err := s.cipher.Encrypt(answerText)
	if err != nil {
		logFailure(ctx, s.log, "upsert_answer", ownerID, err)
		return nil, err
	}

	saved, err := s.repomanager.Interviews(s.db).Upsert(ctx, &models.InterviewAnswer{
		OwnerID:      ownerID,
		Category:     c,
		PromptNumber: promptNumber,
		PromptText:   promptText,
		AnswerText:   token,
	})
	if err != nil {
		logFailure(ctx, s.log, "upsert_answer", ownerID, err)
		return nil, err
	}
	saved.AnswerText = answerText
	return saved, nil
}

// UpdateAnswer overwrites the text of answer id.
func (s *InterviewService) UpdateAnswer(ctx context.Context, ownerID, id int64, answerText string) (*models.InterviewAnswer, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	token, err := s.cipher.Encrypt(answerText)
	if err != nil {
		logFailure(ctx, s.log, "update_answer", ownerID, err)
		return nil, err
	}

	saved, err := s.repomanager.Interviews(s.db).UpdateAnswer(ctx, ownerID, id, token)
	if err != nil {
		logFailure(ctx, s.log, "update_answer", ownerID, err)
		return nil, err
	}
	saved.AnswerText = answerText
	return saved, nil
}

// Polish edits a single answer. An empty answer is a validation error.
func (s *InterviewService) Polish(ctx context.Context, promptText, answerText string) (string, error) {
	if strings.TrimSpace(answerText) == "" {
		return "", validation("answer is empty")
	}
	edited, err := s.polisher.Polish(ctx, promptText, answerText)
	if err != nil {
		s.log.Warn(ctx, "polish failed", "error", err)
		return "", err
	}
	return edited, nil
}

// PolishAll edits items one after another. Empty answers come back
// unchanged and count as succeeded; an item whose edit fails keeps its
// original text and is marked not succeeded. Only an empty list fails.
func (s *InterviewService) PolishAll(ctx context.Context, items []models.PolishItem) ([]models.PolishResult, error) {
	if len(items) == 0 {
		return nil, validation("no answers to polish")
	}

	results := make([]models.PolishResult, 0, len(items))
	for _, item := range items {
		res := models.PolishResult{PromptNumber: item.PromptNumber, EditedText: item.AnswerText, Succeeded: true}
		if strings.TrimSpace(item.AnswerText) == "" {
			results = append(results, res)
			continue
		}
		if err := ctx.Err(); err != nil {
			res.Succeeded, res.Error = false, err.Error()
			results = append(results, res)
			continue
		}

		edited, err := s.polisher.Polish(ctx, item.PromptText, item.AnswerText)
		if err != nil {
			s.log.Warn(ctx, "polish item failed", "prompt_number", item.PromptNumber, "error", err)
			res.Succeeded, res.Error = false, "polish failed"
		} else {
			res.EditedText = edited
		}
		results = append(results, res)
	}
	return results, nil
}
