package extraction

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"ebp-replay-analyzer/domain/text"
)

var (
	// ErrInvalidRegion is returned for rectangles outside the frame or without area
	ErrInvalidRegion = errors.New("invalid extraction region")

	// ErrNoRecognizer is returned when no recognizer handles the charset
	ErrNoRecognizer = errors.New("no recognizer for charset")
)

// Extractor reads text out of frame regions, escalating through
// preprocessing passes until one yields text.
type Extractor struct {
	recognizers map[text.Charset]text.Recognizer
	passes      []Preprocessor
}

// NewExtractor creates an extractor over one recognizer per charset
func NewExtractor(recognizers map[text.Charset]text.Recognizer) *Extractor {
	return &Extractor{
		recognizers: recognizers,
		passes:      DefaultPreprocessors(),
	}
}

// Extract recognizes the text inside rect.
// Line breaks are removed; an empty string means every pass came back empty.
func (e *Extractor) Extract(frame image.Image, rect text.Rect, charset text.Charset, mode text.SegmentationMode) (string, error) {
	if err := rect.Validate(frame.Bounds()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRegion, err)
	}

	recognizer, ok := e.recognizers[charset]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoRecognizer, charset)
	}

	region := crop(frame, rect.Image())

	var result string
	for _, pass := range e.passes {
		raw, err := recognizer.Recognize(pass.Apply(region), mode)
		if err != nil {
			return "", fmt.Errorf("recognition failed on %s pass for %s: %w", pass.Name, rect, err)
		}

		result = removeLineBreaks(raw)
		if result != "" {
			return result, nil
		}
	}

	return result, nil
}

func removeLineBreaks(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
