// Package services contains server-side business logic: accounts, the
// category-partitioned memoir records and booklet generation. Services take
// plaintext from callers, encrypt sensitive fields before they reach a
// repository and decrypt them on the way back out.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/logging"
)

// BlobStore is the part of blobstore.Store the services use.
type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func requireOwner(ownerID int64) error {
	if ownerID <= 0 {
		return validation("owner id is required")
	}
	return nil
}

// logFailure records errors operators need to see. Caller mistakes
// (validation, not found) are not logged.
func logFailure(ctx context.Context, log logging.Logger, op string, ownerID int64, err error) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrAlreadyExists),
		errors.Is(err, common.ErrTrialExpired), errors.Is(err, context.Canceled):
		return
	}
	log.Error(ctx, "operation failed", "op", op, "owner_id", ownerID, "error", err)
}
