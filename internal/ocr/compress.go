package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	compressMaxWidth    = 2400
	compressJPEGQuality = 75
)

// compressImage downscales an oversized image to at most compressMaxWidth
// pixels wide (preserving aspect ratio, never upscaling) and re-encodes it as
// JPEG. The result may still exceed the provider ceiling; the caller submits
// it regardless after one retry of the size check.
func compressImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > compressMaxWidth {
		img = imaging.Resize(img, compressMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(compressJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
