package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"ebp-replay-analyzer/domain/video"
)

// ErrNoVideoStream is returned when ffmpeg reports no frame size
var ErrNoVideoStream = errors.New("no video stream found")

var (
	resolutionPattern = regexp.MustCompile(`, (\d+)x(\d+)[ ,]`)
	durationPattern   = regexp.MustCompile(`Duration: (\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
)

// Prober implements video.Prober by parsing the banner of "ffmpeg -i"
type Prober struct {
	base
}

// NewProber creates a new FFmpeg-based prober
func NewProber(opts ...Option) *Prober {
	return &Prober{base: newBase(opts)}
}

// Probe implements video.Prober
func (p *Prober) Probe(ctx context.Context, path string) (video.Info, error) {
	// Without an output file ffmpeg exits non-zero after printing the stream info
	out, runErr := p.runner.CombinedOutput(ctx, p.ffmpegPath, "-hide_banner", "-i", path)
	if ctx.Err() != nil {
		return video.Info{}, ctx.Err()
	}

	info, err := ParseInfo(string(out))
	if err != nil {
		if runErr != nil {
			return video.Info{}, fmt.Errorf("ffmpeg probe of %s failed: %w", path, runErr)
		}
		return video.Info{}, fmt.Errorf("ffmpeg probe of %s: %w", path, err)
	}
	return info, nil
}

// ParseInfo extracts the first video resolution and the duration from ffmpeg output.
// A missing duration leaves DurationSeconds at zero.
func ParseInfo(output string) (video.Info, error) {
	var info video.Info

	m := resolutionPattern.FindStringSubmatch(output)
	if m == nil {
		return info, ErrNoVideoStream
	}
	info.Resolution.Width, _ = strconv.Atoi(m[1])
	info.Resolution.Height, _ = strconv.Atoi(m[2])

	if d := durationPattern.FindStringSubmatch(output); d != nil {
		hours, _ := strconv.Atoi(d[1])
		minutes, _ := strconv.Atoi(d[2])
		seconds, _ := strconv.ParseFloat(d[3], 64)
		info.DurationSeconds = float64(hours*3600+minutes*60) + seconds
	}

	return info, nil
}

// Ensure Prober implements video.Prober
var _ video.Prober = (*Prober)(nil)
