//go:build !detection

package tesseract

import (
	"errors"
	"image"

	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/infrastructure/config"
)

// ErrUnavailable is returned when the binary was built without Tesseract
var ErrUnavailable = errors.New("text recognition not available: build with '-tags=detection' and install Tesseract")

// Recognizer is a stub when gosseract/Tesseract is not available
type Recognizer struct{}

// NewRecognizer returns an error indicating recognition is not available
func NewRecognizer(cfg config.TesseractConfig, charset text.Charset) (*Recognizer, error) {
	return nil, ErrUnavailable
}

// Recognize returns an error indicating recognition is not available
func (r *Recognizer) Recognize(img image.Image, mode text.SegmentationMode) (string, error) {
	return "", ErrUnavailable
}

// Close is a no-op in stub mode
func (r *Recognizer) Close() error { return nil }

// Ensure Recognizer implements text.Recognizer
var _ text.Recognizer = (*Recognizer)(nil)
