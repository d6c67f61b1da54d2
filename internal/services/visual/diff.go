package visual

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/orisano/pixelmatch"
)

// pixelThreshold is the per-pixel color distance tolerance of the
// perceptual diff (0..1).
const pixelThreshold = 0.1

// diffImages runs the anti-aliasing-tolerant perceptual diff over two
// same-sized images, returning the differing pixel count and a rendered
// diff image.
func diffImages(baseline, current image.Image) (int, image.Image, error) {
	var diffImg image.Image
	diffPixels, err := pixelmatch.MatchPixel(baseline, current,
		pixelmatch.Threshold(pixelThreshold),
		pixelmatch.WriteTo(&diffImg),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("pixel comparison failed: %w", err)
	}
	return diffPixels, diffImg, nil
}

func decodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
