package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for videos that are not MP4 files
var ErrUnsupportedFormat = errors.New("video is not an mp4 file")

// FrameSource gives random access to the decoded frames of one video
type FrameSource interface {
	// FrameCount returns the total number of frames
	FrameCount() int

	// Seek positions the source on a frame index
	Seek(index int) error

	// Read decodes the frame at the current position.
	// It returns false when no frame could be decoded.
	Read() (image.Image, bool)

	// PositionSeconds returns the position of the last read frame, in seconds
	PositionSeconds() float64

	// Close releases the underlying decoder
	Close() error
}

// Opener opens frame sources from file paths
type Opener interface {
	Open(path string) (FrameSource, error)
}

// IsMP4 reports whether the path has an .mp4 extension, in any case
func IsMP4(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp4")
}

// NormalizePath converts Windows separators when the caller runs on win32
func NormalizePath(path, osName string) string {
	if strings.EqualFold(osName, "win32") || strings.EqualFold(osName, "windows") {
		return strings.ReplaceAll(path, `\`, "/")
	}
	return path
}

// Resolution is a frame size in pixels
type Resolution struct {
	Width  int
	Height int
}

// String returns WIDTHxHEIGHT
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Info describes a recording as reported by the container
type Info struct {
	Resolution      Resolution
	DurationSeconds float64
}

// Prober reads container metadata without decoding frames
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}
