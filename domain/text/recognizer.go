package text

import (
	"fmt"
	"image"
)

// Recognizer turns a pixel region into text.
// An empty string with a nil error means nothing was recognized.
type Recognizer interface {
	Recognize(img image.Image, mode SegmentationMode) (string, error)
}

// Charset selects which recognizer is used for a region
type Charset string

const (
	// Alphanumeric is used for map names, team names and the match clock
	Alphanumeric Charset = "alphanumeric"

	// Numeric is used for scores and the elapsed time
	Numeric Charset = "numeric"
)

// Whitelist returns the characters the recognizer may output
func (c Charset) Whitelist() string {
	switch c {
	case Numeric:
		return "1234567890"
	default:
		return "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-:% 1234567890"
	}
}

// SegmentationMode is the page layout assumption of the recognizer.
// Values match Tesseract page segmentation modes.
type SegmentationMode int

const (
	SegmentAuto       SegmentationMode = 3
	SegmentBlock      SegmentationMode = 6
	SegmentSingleLine SegmentationMode = 7
)

// Rect is a screen region given by its top-left and bottom-right corners
type Rect struct {
	X1 int `yaml:"x1"`
	Y1 int `yaml:"y1"`
	X2 int `yaml:"x2"`
	Y2 int `yaml:"y2"`
}

// Image returns the rectangle as an image.Rectangle
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Validate checks the rectangle is non-degenerate and inside bounds
func (r Rect) Validate(bounds image.Rectangle) error {
	if r.X2 <= r.X1 || r.Y2 <= r.Y1 {
		return fmt.Errorf("rectangle %v has no area", r)
	}
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return fmt.Errorf("rectangle %v exceeds frame %v", r, bounds)
	}
	return nil
}

// String returns the corners as (x1,y1)-(x2,y2)
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}
