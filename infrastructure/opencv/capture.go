//go:build detection

package opencv

import (
	"fmt"
	"image"

	"ebp-replay-analyzer/domain/video"

	"gocv.io/x/gocv"
)

// Capture implements video.FrameSource on top of an OpenCV video capture
type Capture struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	total   int
}

// Open opens a video file for frame access
func Open(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}

	return &Capture{
		capture: vc,
		frame:   gocv.NewMat(),
		total:   int(vc.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}

// FrameCount implements video.FrameSource
func (c *Capture) FrameCount() int {
	return c.total
}

// Seek implements video.FrameSource
func (c *Capture) Seek(index int) error {
	if index < 0 || index >= c.total {
		return fmt.Errorf("frame %d out of range [0, %d)", index, c.total)
	}
	c.capture.Set(gocv.VideoCapturePosFrames, float64(index))
	return nil
}

// Read implements video.FrameSource
func (c *Capture) Read() (image.Image, bool) {
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, false
	}
	img, err := c.frame.ToImage()
	if err != nil {
		return nil, false
	}
	return img, true
}

// PositionSeconds implements video.FrameSource
func (c *Capture) PositionSeconds() float64 {
	return c.capture.Get(gocv.VideoCapturePosMsec) / 1000
}

// Close implements video.FrameSource
func (c *Capture) Close() error {
	c.frame.Close()
	return c.capture.Close()
}

// Opener implements video.Opener with OpenCV
type Opener struct{}

// NewOpener creates a new OpenCV opener
func NewOpener() *Opener {
	return &Opener{}
}

// Open implements video.Opener
func (o *Opener) Open(path string) (video.FrameSource, error) {
	c, err := Open(path)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Ensure Capture implements video.FrameSource
var _ video.FrameSource = (*Capture)(nil)

// Ensure Opener implements video.Opener
var _ video.Opener = (*Opener)(nil)
