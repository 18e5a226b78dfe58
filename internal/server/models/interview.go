package models

import (
	"time"

	"github.com/lifememo/navi/internal/server/catalog"
)

// InterviewAnswer is one response to one numbered prompt. There is at most
// one per (owner, category, prompt number).
type InterviewAnswer struct {
	ID           int64            `json:"id"`
	OwnerID      int64            `json:"owner_id"`
	Category     catalog.Category `json:"category"`
	PromptNumber int              `json:"prompt_number"`
	PromptText   string           `json:"prompt_text"`
	AnswerText   string           `json:"answer_text"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PolishItem is one answer submitted for AI editing.
type PolishItem struct {
	PromptNumber int    `json:"prompt_number"`
	PromptText   string `json:"prompt_text"`
	AnswerText   string `json:"answer_text"`
}

// PolishResult is the outcome for one PolishItem. When Succeeded is false
// EditedText holds the original answer and Error describes the failure.
type PolishResult struct {
	PromptNumber int    `json:"prompt_number"`
	EditedText   string `json:"edited_text"`
	Succeeded    bool   `json:"succeeded"`
	Error        string `json:"error,omitempty"`
}
