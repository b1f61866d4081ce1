//go:build detection

package tesseract

import (
	"fmt"
	"image"

	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/infrastructure/config"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer implements text.Recognizer with a Tesseract client
// restricted to one character set
type Recognizer struct {
	client  *gosseract.Client
	charset text.Charset
}

// NewRecognizer creates a Tesseract client for charset
func NewRecognizer(cfg config.TesseractConfig, charset text.Charset) (*Recognizer, error) {
	client := gosseract.NewClient()

	if cfg.DataPath != "" {
		if err := client.SetTessdataPrefix(cfg.DataPath); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(cfg.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	if err := client.SetWhitelist(charset.Whitelist()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}

	// Team names and map titles are not dictionary words
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	// The engine loads on the first Text call, so a missing language file
	// only shows up there.
	if err := warmUp(client); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize tesseract: %w", err)
	}

	return &Recognizer{client: client, charset: charset}, nil
}

func warmUp(client *gosseract.Client) error {
	data, err := Encode(image.NewGray(image.Rect(0, 0, 1, 1)))
	if err != nil {
		return err
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return err
	}
	_, err = client.Text()
	return err
}

// Recognize implements text.Recognizer
func (r *Recognizer) Recognize(img image.Image, mode text.SegmentationMode) (string, error) {
	data, err := Encode(img)
	if err != nil {
		return "", err
	}

	if err := r.client.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}

	if err := r.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	out, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return out, nil
}

// Close releases the Tesseract client
func (r *Recognizer) Close() error {
	return r.client.Close()
}

// Ensure Recognizer implements text.Recognizer
var _ text.Recognizer = (*Recognizer)(nil)
