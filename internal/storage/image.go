package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	apperrors "unihub/internal/errors"
)

const (
	// MaxWidth bounds post and event pictures.
	MaxWidth = 1280
	// AvatarSize is the square edge for profile and club pictures.
	AvatarSize  = 256
	webpQuality = 75
)

// ConvertToWebP decodes a JPEG or PNG, applies its EXIF orientation and
// re-encodes it as WebP. Square crops to AvatarSize, otherwise the image is
// narrowed to MaxWidth.
func ConvertToWebP(r io.Reader, contentType string, square bool) (*bytes.Buffer, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	var img image.Image
	switch contentType {
	case "image/jpeg", "image/jpg":
		img, err = jpeg.Decode(bytes.NewReader(buf))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(buf))
	default:
		return nil, apperrors.ErrUnsupportedImage
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnsupportedImage, err)
	}

	img = applyOrientation(img, readOrientation(buf))

	if square {
		img = imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)
	} else if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	out := new(bytes.Buffer)
	if err := webp.Encode(out, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out, nil
}

func readOrientation(buf []byte) int {
	x, err := exif.Decode(bytes.NewReader(buf))
	if err != nil || x == nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
