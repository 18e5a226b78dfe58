// Package common defines shared constants and sentinel errors used across
// Life Memo Navi server layers. Callers should use errors.Is to match these
// values; lower layers wrap them with context via fmt.Errorf("...: %w").
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Caller-supplied data violates a contract (bad prompt number, missing
	// required field, unknown category).
	ErrValidation = errors.New("validation error")

	// Encryption key missing or malformed. Fatal deployment error.
	ErrConfiguration = errors.New("configuration error")

	// Authentication tag did not verify.
	ErrDecryption = errors.New("decryption failed")

	// Cascade delete failed and was rolled back.
	ErrDeletion = errors.New("deletion failed")

	// Failure reported by a third-party collaborator (AI polish, object storage).
	ErrUpstream = errors.New("upstream service error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTrialExpired = errors.New("trial period has expired")
	ErrForbidden    = errors.New("forbidden")
)
