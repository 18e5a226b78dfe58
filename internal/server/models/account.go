// Package models defines server-side records persisted in the database.
// Sensitive text fields hold ciphertext tokens while inside the repository
// layer and plaintext once returned by a service.
package models

import (
	"time"

	"github.com/lifememo/navi/internal/server/catalog"
)

// Account is the identity of one memoir author.
type Account struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Age            int              `json:"age"`
	Email          string           `json:"email"`
	PasswordHash   string           `json:"-"`
	Category       catalog.Category `json:"category"`
	TrialExpiresAt time.Time        `json:"trial_expires_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TrialExpired reports whether the trial period ended before now. A zero
// expiry means no trial limit.
func (a *Account) TrialExpired(now time.Time) bool {
	return !a.TrialExpiresAt.IsZero() && now.After(a.TrialExpiresAt)
}

// AccountSummary is the operator view of an account.
type AccountSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
