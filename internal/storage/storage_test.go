package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "unihub/internal/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebP_Square(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 400, 300)), "image/png", true)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, cfg.Width)
	assert.Equal(t, AvatarSize, cfg.Height)
}

func TestConvertToWebP_NarrowsWideImages(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 2000, 1000)), "image/png", false)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, cfg.Width)
	assert.Equal(t, 640, cfg.Height)
}

func TestConvertToWebP_KeepsSmallImages(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 200, 100)), "image/png", false)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
}

func TestConvertToWebP_RejectsOtherTypes(t *testing.T) {
	_, err := ConvertToWebP(bytes.NewReader([]byte("GIF89a")), "image/gif", false)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedImage)

	_, err = ConvertToWebP(bytes.NewReader([]byte("not a png")), "image/png", false)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedImage)
}

func TestKeyFromURL(t *testing.T) {
	key, ok := keyFromURL("http://cdn.local/unihub", "http://cdn.local/unihub/posts/a.webp?v=2")
	assert.True(t, ok)
	assert.Equal(t, "posts/a.webp", key)

	_, ok = keyFromURL("http://cdn.local/unihub", "https://static.unihub.app/defaults/club.webp")
	assert.False(t, ok)

	_, ok = keyFromURL("http://cdn.local/unihub", "http://cdn.local/unihub/")
	assert.False(t, ok)
}

type recordingService struct {
	deleted []string
}

func (r *recordingService) PutObject(context.Context, UploadInput) (string, error) { return "", nil }

func (r *recordingService) DeleteObject(_ context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	return nil
}

func (r *recordingService) KeyFromURL(url string) (string, bool) {
	return keyFromURL("http://cdn.local/unihub", url)
}

func TestDeleteURLs_SkipsForeignAndEmpty(t *testing.T) {
	svc := &recordingService{}
	DeleteURLs(context.Background(), svc, zap.NewNop(),
		"http://cdn.local/unihub/clubs/1.webp",
		"",
		"https://static.unihub.app/defaults/club.webp",
		"http://cdn.local/unihub/posts/2.webp",
	)
	assert.Equal(t, []string{"clubs/1.webp", "posts/2.webp"}, svc.deleted)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.PutObject(context.Background(), UploadInput{})
	assert.ErrorIs(t, err, apperrors.ErrStorageDisabled)
	assert.NoError(t, Disabled{}.DeleteObject(context.Background(), "x"))
}
