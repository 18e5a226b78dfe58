package services

import (
	"context"
	"database/sql"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/cryptox"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/repositories/repomanager"
)

type UploadInput struct {
	Category    string
	Filename    string
	ContentType string
	Data        []byte
	Caption     *string
}

// PhotoService stores photo bytes through a BlobStore and keeps the
// reference rows. Captions are encrypted like other free text.
type PhotoService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	blobs          BlobStore
	cipher         *cryptox.Cipher
	log            logging.Logger
	maxUploadBytes int64
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, blobs BlobStore, cipher *cryptox.Cipher, maxUploadBytes int64, log logging.Logger) *PhotoService {
	return &PhotoService{db: db, repomanager: m, blobs: blobs, cipher: cipher, maxUploadBytes: maxUploadBytes, log: log}
}

func (s *PhotoService) decrypt(p *models.Photo) error {
	caption, err := s.cipher.DecryptOptional(p.Caption)
	if err != nil {
		return err
	}
	p.Caption = caption
	return nil
}

// imageContentType returns the media type of an upload, sniffing the bytes
// when the declared type is missing or generic. Non-image types are
// rejected.
func imageContentType(declared string, data []byte) (string, error) {
	ct := ""
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			ct = mt
		}
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
	}
	if !strings.HasPrefix(ct, "image/") {
		return "", validation("only image uploads are accepted, got %s", ct)
	}
	return ct, nil
}

// Upload stores the bytes, then the reference row. If the row cannot be
// written the stored object is removed again.
func (s *PhotoService) Upload(ctx context.Context, ownerID int64, in UploadInput) (*models.Photo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := catalog.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, validation("photo is empty")
	}
	if s.maxUploadBytes > 0 && int64(len(in.Data)) > s.maxUploadBytes {
		return nil, validation("photo exceeds %d bytes", s.maxUploadBytes)
	}
	ct, err := imageContentType(in.ContentType, in.Data)
	if err != nil {
		return nil, err
	}

	url, err := s.blobs.Put(ctx, in.Filename, ct, in.Data)
	if err != nil {
		logFailure(ctx, s.log, "upload_photo", ownerID, err)
		return nil, fmt.Errorf("%w: store photo: %v", common.ErrUpstream, err)
	}

	photo, err := s.Create(ctx, ownerID, string(c), url, in.Caption)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, url); delErr != nil {
			s.log.Warn(ctx, "orphaned photo not removed", "owner_id", ownerID, "url", url, "error", delErr)
		}
		return nil, err
	}
	return photo, nil
}

// Create persists the reference to bytes already stored at url.
func (s *PhotoService) Create(ctx context.Context, ownerID int64, category, url string, caption *string) (*models.Photo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := catalog.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, validation("url is required")
	}
	if caption != nil && strings.TrimSpace(*caption) == "" {
		caption = nil
	}

	sealed, err := s.cipher.EncryptOptional(caption)
	if err != nil {
		logFailure(ctx, s.log, "create_photo", ownerID, err)
		return nil, err
	}
	created, err := s.repomanager.Photos(s.db).Create(ctx, &models.Photo{
		OwnerID:  ownerID,
		Category: c,
		URL:      url,
		Caption:  sealed,
	})
	if err != nil {
		logFailure(ctx, s.log, "create_photo", ownerID, err)
		return nil, err
	}
	created.Caption = caption
	return created, nil
}

// List returns the owner's photos in category by upload time in the given
// order, captions decrypted.
func (s *PhotoService) List(ctx context.Context, ownerID int64, category string, order models.SortOrder) ([]*models.Photo, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := catalog.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	photos, err := s.repomanager.Photos(s.db).List(ctx, ownerID, c, order)
	if err != nil {
		logFailure(ctx, s.log, "list_photos", ownerID, err)
		return nil, err
	}
	for _, p := range photos {
		if err := s.decrypt(p); err != nil {
			logFailure(ctx, s.log, "list_photos", ownerID, err)
			return nil, err
		}
	}
	return photos, nil
}

// Delete removes photo id. The stored bytes are removed best-effort; a
// failure there is logged and does not undo the row deletion.
func (s *PhotoService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	url, err := s.repomanager.Photos(s.db).Delete(ctx, ownerID, id)
	if err != nil {
		logFailure(ctx, s.log, "delete_photo", ownerID, err)
		return err
	}
	if err := s.blobs.Delete(ctx, url); err != nil {
		s.log.Warn(ctx, "stored photo not removed", "owner_id", ownerID, "photo_id", id, "url", url, "error", err)
	}
	return nil
}
