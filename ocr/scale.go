package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// DefaultMinWidth is the narrowest image, in pixels, recognized without
// upscaling.
const DefaultMinWidth = 1700

// ScaleConfig holds configuration for upscaling before recognition
type ScaleConfig struct {
	// MinWidth is the pixel width below which images are upscaled.
	// Zero disables upscaling.
	// Default: 1700
	MinWidth int
}

// DefaultScaleConfig returns sensible default configuration
func DefaultScaleConfig() ScaleConfig {
	return ScaleConfig{MinWidth: DefaultMinWidth}
}

// Dimensions returns the pixel size of an encoded PNG, JPEG or TIFF image.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Upscale enlarges images narrower than MinWidth, preserving aspect ratio.
// It returns the image to recognize (PNG-encoded when resized, the input
// otherwise) and the factor applied. A factor of 1 means no resize.
func Upscale(data []byte, config ScaleConfig) ([]byte, float64, error) {
	if config.MinWidth <= 0 {
		return data, 1, nil
	}
	width, _, err := Dimensions(data)
	if err != nil {
		return nil, 0, err
	}
	if width <= 0 || width >= config.MinWidth {
		return data, 1, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decode image: %w", err)
	}

	factor := float64(config.MinWidth) / float64(width)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, config.MinWidth, int(float64(b.Dy())*factor+0.5)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, 0, fmt.Errorf("encode scaled image: %w", err)
	}
	return buf.Bytes(), factor, nil
}

// Rescale divides every word box by factor, mapping boxes recognized on an
// upscaled image back to the original.
func Rescale(words []Word, factor float64) []Word {
	if factor == 1 || factor <= 0 {
		return words
	}
	out := make([]Word, len(words))
	for i, w := range words {
		w.BBox = w.BBox.Scale(1 / factor)
		out[i] = w
	}
	return out
}

// Filter drops words whose confidence is below min.
func Filter(words []Word, min float64) []Word {
	out := words[:0:0]
	for _, w := range words {
		if w.Confidence >= min {
			out = append(out, w)
		}
	}
	return out
}
