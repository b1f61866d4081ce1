package ffmpeg

import (
	"context"
	"fmt"
	"strconv"

	"ebp-replay-analyzer/domain/video"
)

// Cutter implements video.Cutter using ffmpeg stream copy
type Cutter struct {
	base
}

// NewCutter creates a new FFmpeg-based cutter
func NewCutter(opts ...Option) *Cutter {
	return &Cutter{base: newBase(opts)}
}

// Cut implements video.Cutter
func (c *Cutter) Cut(ctx context.Context, req *video.ClipRequest, outputPath string) error {
	args := []string{
		"-ss", req.Start.String(),
		"-i", req.SourcePath,
		"-t", strconv.Itoa(req.Duration()),
		"-c", "copy",
		"-y", // Overwrite output file if it exists
		outputPath,
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg cut failed: %w", err)
	}

	return nil
}

// Ensure Cutter implements video.Cutter
var _ video.Cutter = (*Cutter)(nil)
