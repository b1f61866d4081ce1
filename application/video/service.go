package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/report"
)

// ErrSourceMissing is returned when the recording to cut does not exist
var ErrSourceMissing = errors.New("source file does not exist")

// CutResult lists the clips written and the games skipped
type CutResult struct {
	OutputPaths []string
	Skipped     int
}

// CutService coordinates cutting one clip per detected game
type CutService struct {
	cutter      video.Cutter
	fileChecker video.FileChecker
	outputDir   string
	output      io.Writer
	now         func() time.Time
}

// CutServiceOption is a functional option for configuring CutService
type CutServiceOption func(*CutService)

// WithOutput sets where progress messages are written
func WithOutput(w io.Writer) CutServiceOption {
	return func(s *CutService) {
		s.output = w
	}
}

// WithClock sets the time source used to stamp clip names (for testing)
func WithClock(now func() time.Time) CutServiceOption {
	return func(s *CutService) {
		s.now = now
	}
}

// NewCutService creates a new CutService
func NewCutService(cutter video.Cutter, fileChecker video.FileChecker, outputDir string, opts ...CutServiceOption) *CutService {
	s := &CutService{
		cutter:      cutter,
		fileChecker: fileChecker,
		outputDir:   outputDir,
		output:      io.Discard,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CutGames writes one clip per closed game. Games without both bounds are skipped.
func (s *CutService) CutGames(ctx context.Context, sourcePath string, games []report.Game) (*CutResult, error) {
	// Verify source file exists
	if !s.fileChecker.Exists(sourcePath) {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, sourcePath)
	}

	result := &CutResult{}
	for i, g := range games {
		if !g.Closed() {
			fmt.Fprintf(s.output, "Skipping game %d: no usable start/end (%d-%d)\n", i+1, g.Start, g.End.Time)
			result.Skipped++
			continue
		}

		req, err := video.NewClipRequest(sourcePath,
			video.FromSeconds(g.Start), video.FromSeconds(g.End.Time),
			g.OrangeTeam.Name, g.BlueTeam.Name, g.Map, s.now())
		if err != nil {
			fmt.Fprintf(s.output, "Skipping game %d: %v\n", i+1, err)
			result.Skipped++
			continue
		}

		outputPath := req.OutputPath(s.outputDir)
		fmt.Fprintf(s.output, "Cutting game %d (%s - %s) to %s\n", i+1, req.Start, req.End, outputPath)
		if err := s.cutter.Cut(ctx, req, outputPath); err != nil {
			return result, fmt.Errorf("game %d: %w", i+1, err)
		}
		result.OutputPaths = append(result.OutputPaths, outputPath)
	}

	return result, nil
}
