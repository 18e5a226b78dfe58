package models

import (
	"time"

	"github.com/lifememo/navi/internal/server/catalog"
)

// Photo references one uploaded image. URL points at local disk storage or
// an object-storage URL; the bytes live there, not in the database.
type Photo struct {
	ID         int64            `json:"id"`
	OwnerID    int64            `json:"owner_id"`
	Category   catalog.Category `json:"category"`
	URL        string           `json:"url"`
	Caption    *string          `json:"caption,omitempty"`
	UploadedAt time.Time        `json:"uploaded_at"`
}

// SortOrder selects upload-time ordering for photo listings.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder maps "asc" to Ascending and anything else to Descending,
// the display default.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == Ascending {
		return Ascending
	}
	return Descending
}
