// Package blobstore keeps uploaded photo bytes outside the database. A Store
// hands back a URL on Put; the same URL is later used to read or remove
// the object.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	Put(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, error)
	Delete(ctx context.Context, url string) error
}

// objectName builds a unique date-partitioned name that keeps the
// extension of the uploaded file.
func objectName(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("photos/%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)
}
