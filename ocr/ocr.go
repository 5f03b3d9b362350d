//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations. A Client is safe for
// concurrent use; recognitions are serialized.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
	config Config
}

// New creates a new OCR client with default configuration.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new OCR client with the given configuration.
func NewWithConfig(config Config) (*Client, error) {
	client := gosseract.NewClient()
	c := &Client{client: client, config: config}

	if config.Languages != "" {
		if err := client.SetLanguage(strings.Split(config.Languages, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set language %q: %w", config.Languages, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(config.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Recognize performs OCR on image data (PNG, TIFF, JPEG) and returns the
// recognized words with boxes in the input image's pixel space.
func (c *Client) Recognize(ctx context.Context, imageData []byte) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scaled, factor, err := Upscale(imageData, c.config.Scale)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.client.SetImageFromBytes(scaled); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	out, err := c.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words, err := ParseHOCR(strings.NewReader(out))
	if err != nil {
		return nil, err
	}
	return Rescale(words, factor), nil
}
