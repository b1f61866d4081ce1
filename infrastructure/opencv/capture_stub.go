//go:build !detection

package opencv

import (
	"errors"

	"ebp-replay-analyzer/domain/video"
)

// ErrUnavailable is returned when the binary was built without OpenCV
var ErrUnavailable = errors.New("video decoding not available: build with '-tags=detection' and install OpenCV/GoCV")

// Opener is a stub when GoCV/OpenCV is not available
type Opener struct{}

// NewOpener creates a stub opener (requires building with -tags=detection)
func NewOpener() *Opener {
	return &Opener{}
}

// Open returns an error indicating decoding is not available
func (o *Opener) Open(path string) (video.FrameSource, error) {
	return nil, ErrUnavailable
}

// Ensure Opener implements video.Opener
var _ video.Opener = (*Opener)(nil)
