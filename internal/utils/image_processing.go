package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

type ImageSourceMeta struct {
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
	Format *string `json:"format"`
}

func ValidateImageContentType(contentType string) bool {
	ct := strings.TrimSpace(strings.ToLower(contentType))
	if ct == "" {
		return false
	}
	return allowedImageContentTypes[ct]
}

func DetectContentType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}
	return http.DetectContentType(sample)
}

func decodeAndAutoRotate(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	// Only JPEGs typically carry EXIF orientation; ignore errors.
	if strings.EqualFold(format, "jpeg") {
		if ex, exErr := exif.Decode(bytes.NewReader(data)); exErr == nil {
			if tag, tagErr := ex.Get(exif.Orientation); tagErr == nil {
				if orient, convErr := tag.Int(0); convErr == nil {
					switch orient {
					case 2:
						img = imaging.FlipH(img)
					case 3:
						img = imaging.Rotate180(img)
					case 4:
						img = imaging.FlipV(img)
					case 5:
						img = imaging.Transpose(img)
					case 6:
						img = imaging.Rotate270(img)
					case 7:
						img = imaging.Transverse(img)
					case 8:
						img = imaging.Rotate90(img)
					}
				}
			}
		}
	}

	return img, format, nil
}

// EncodeJpegFitInside resizes the image to fit within a maxSide square,
// preserving aspect ratio, and re-encodes as JPEG. Menu card images.
func EncodeJpegFitInside(data []byte, maxSide int, quality int) ([]byte, ImageSourceMeta, error) {
	if maxSide <= 0 {
		return nil, ImageSourceMeta{}, errors.New("maxSide must be > 0")
	}
	img, format, err := decodeAndAutoRotate(data)
	if err != nil {
		return nil, ImageSourceMeta{}, err
	}

	meta := sourceMeta(img, format)
	resized := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, ImageSourceMeta{}, err
	}
	return buf.Bytes(), meta, nil
}

// EncodeJpegCoverSquare center-crops to a square thumbnail.
func EncodeJpegCoverSquare(data []byte, size int, quality int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("size must be > 0")
	}
	img, _, err := decodeAndAutoRotate(data)
	if err != nil {
		return nil, err
	}

	filled := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, filled, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sourceMeta(img image.Image, format string) ImageSourceMeta {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	return ImageSourceMeta{Width: &w, Height: &h, Format: ptrString(format)}
}

func ptrString(v string) *string {
	vv := strings.TrimSpace(v)
	if vv == "" {
		return nil
	}
	return &vv
}
