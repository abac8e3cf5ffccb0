package storage

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	apperrors "unihub/internal/errors"
)

// UploadInput describes one object to store.
type UploadInput struct {
	Key         string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Service stores pictures and resolves their public URLs.
type Service interface {
	PutObject(ctx context.Context, in UploadInput) (string, error)
	DeleteObject(ctx context.Context, key string) error
	// KeyFromURL returns the object key for a URL served from this bucket.
	// URLs pointing elsewhere (defaults, external hosts) report false.
	KeyFromURL(url string) (string, bool)
}

// Disabled is used when no object storage is configured. Uploads fail and
// deletions are no-ops.
type Disabled struct{}

var _ Service = Disabled{}

func (Disabled) PutObject(context.Context, UploadInput) (string, error) {
	return "", apperrors.ErrStorageDisabled
}

func (Disabled) DeleteObject(context.Context, string) error { return nil }

func (Disabled) KeyFromURL(string) (string, bool) { return "", false }

// DeleteURLs removes every object referenced by urls that lives in svc's
// bucket. Failures are logged and do not stop the caller.
func DeleteURLs(ctx context.Context, svc Service, logger *zap.Logger, urls ...string) {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		key, ok := svc.KeyFromURL(u)
		if !ok {
			continue
		}
		if err := svc.DeleteObject(ctx, key); err != nil {
			logger.Warn("delete stored object", zap.String("key", key), zap.Error(err))
		}
	}
}
