package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "unihub/internal/errors"
	"unihub/internal/storage"
)

// UploadKind selects the folder and resize mode of an upload.
type UploadKind string

const (
	UploadProfile UploadKind = "profile"
	UploadClub    UploadKind = "club"
	UploadPost    UploadKind = "post"
	UploadEvent   UploadKind = "event"
)

// Valid reports whether k is a known upload kind.
func (k UploadKind) Valid() bool {
	switch k {
	case UploadProfile, UploadClub, UploadPost, UploadEvent:
		return true
	}
	return false
}

// square reports whether pictures of this kind are cropped to an avatar.
func (k UploadKind) square() bool {
	return k == UploadProfile || k == UploadClub
}

// UploadService normalises pictures to WebP and stores them.
type UploadService interface {
	Upload(ctx context.Context, kind UploadKind, contentType string, body io.Reader) (string, error)
}

type uploadService struct {
	storage storage.Service
	logger  *zap.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(store storage.Service, logger *zap.Logger) UploadService {
	return &uploadService{storage: store, logger: logger}
}

// Upload returns the public URL of the stored picture.
func (s *uploadService) Upload(ctx context.Context, kind UploadKind, contentType string, body io.Reader) (string, error) {
	if !kind.Valid() {
		return "", apperrors.Invalid("kind must be one of profile, club, post, event")
	}
	buf, err := storage.ConvertToWebP(body, contentType, kind.square())
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.webp", kind, uuid.NewString())
	url, err := s.storage.PutObject(ctx, storage.UploadInput{
		Key:         key,
		ContentType: "image/webp",
		Body:        buf,
		Size:        int64(buf.Len()),
	})
	if err != nil {
		return "", err
	}
	s.logger.Debug("picture stored", zap.String("key", key), zap.Int("bytes", buf.Len()))
	return url, nil
}
