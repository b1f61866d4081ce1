package tesseract

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/infrastructure/config"

	"golang.org/x/image/draw"
)

// MinHeight is the text height below which regions are upscaled before encoding
const MinHeight = 48

// Set owns one recognizer per character set
type Set struct {
	recognizers map[text.Charset]*Recognizer
}

// NewSet creates the alphanumeric and numeric recognizers
func NewSet(cfg config.TesseractConfig) (*Set, error) {
	s := &Set{recognizers: make(map[text.Charset]*Recognizer)}

	for _, charset := range []text.Charset{text.Alphanumeric, text.Numeric} {
		r, err := NewRecognizer(cfg, charset)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to initialize %s recognizer: %w", charset, err)
		}
		s.recognizers[charset] = r
	}

	return s, nil
}

// Recognizers returns the recognizers keyed by charset
func (s *Set) Recognizers() map[text.Charset]text.Recognizer {
	out := make(map[text.Charset]text.Recognizer, len(s.recognizers))
	for charset, r := range s.recognizers {
		out[charset] = r
	}
	return out
}

// Close releases every recognizer
func (s *Set) Close() error {
	var errs []error
	for _, r := range s.recognizers {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}

// Encode upscales short regions and encodes them as PNG for the engine
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Upscale(img, MinHeight)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Upscale enlarges img so it is at least minHeight pixels tall, keeping
// its aspect ratio. Taller images are returned unchanged.
func Upscale(img image.Image, minHeight int) image.Image {
	b := img.Bounds()
	if b.Dy() == 0 || b.Dy() >= minHeight {
		return img
	}

	width := b.Dx() * minHeight / b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, width, minHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
