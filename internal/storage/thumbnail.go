package storage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	DefaultThumbnailSize    = 320
	defaultThumbnailQuality = 75
)

// Thumbnail returns a JPEG preview that fits within maxDim x maxDim.
// Images already smaller than maxDim are re-encoded without upscaling.
func Thumbnail(data []byte, maxDim int) ([]byte, error) {
	if maxDim <= 0 {
		maxDim = DefaultThumbnailSize
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("storage: decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(defaultThumbnailQuality)); err != nil {
		return nil, fmt.Errorf("storage: encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
