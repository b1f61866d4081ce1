package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strconv"

	"ebp-replay-analyzer/application/extraction"
	"ebp-replay-analyzer/domain/detection"
	"ebp-replay-analyzer/domain/game"
	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/config"
)

var (
	// ErrInvalidDuration is returned when the video duration is not positive
	ErrInvalidDuration = errors.New("video duration must be positive")

	// ErrRecognition is returned when the text engine fails on a valid region
	ErrRecognition = errors.New("text recognition failed")
)

// TextExtractor reads text out of a frame region
type TextExtractor interface {
	Extract(frame image.Image, rect text.Rect, charset text.Charset, mode text.SegmentationMode) (string, error)
}

// Reporter receives scan events
type Reporter interface {
	// Progress is called each time the integer percentage increases
	Progress(percent int)

	// FastForward is called when the scan jumps to the start of an identified game
	FastForward(games int)
}

// Service rebuilds the games of a recording by scanning it backward
type Service struct {
	detector  *detection.Detector
	extractor TextExtractor
	config    config.AnalysisConfig
	output    io.Writer
}

// NewService creates a new detection service.
// Diagnostics are written to output; pass io.Discard to silence them.
func NewService(detector *detection.Detector, extractor TextExtractor, cfg config.AnalysisConfig, output io.Writer) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		detector:  detector,
		extractor: extractor,
		config:    cfg,
		output:    output,
	}
}

// AnalyzeFile opens path and analyzes it. A video that cannot be opened
// yields an empty ledger, not an error.
func (s *Service) AnalyzeFile(ctx context.Context, opener video.Opener, path string, durationSeconds float64, reporter Reporter) (*game.Ledger, error) {
	source, err := opener.Open(path)
	if err != nil {
		fmt.Fprintf(s.output, "Unable to open video %s: %v\n", path, err)
		return game.NewLedger(), nil
	}
	defer source.Close()

	return s.Analyze(ctx, source, durationSeconds, reporter)
}

// Analyze scans source from its last frame to its first and returns the
// games found, most recently created first.
func (s *Service) Analyze(ctx context.Context, source video.FrameSource, durationSeconds float64, reporter Reporter) (*game.Ledger, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, durationSeconds)
	}

	total := source.FrameCount()
	st := &scan{
		source:   source,
		reporter: reporter,
		ledger:   game.NewLedger(),
		total:    total,
		fps:      max(1, int(float64(total)/durationSeconds)),
		cursor:   total - 1,
	}
	if total <= 0 {
		return st.ledger, nil
	}

	fmt.Fprintf(s.output, "Scanning %d frames at %d fps\n", total, st.fps)

	step := st.fps * s.config.SampleIntervalSeconds
	for ; st.cursor >= 0; st.cursor -= step {
		select {
		case <-ctx.Done():
			return st.ledger, ctx.Err()
		default:
		}

		st.reportProgress()

		frame, ok := st.read()
		if !ok {
			continue
		}

		if err := s.processFrame(frame, st); err != nil {
			return st.ledger, err
		}
	}
	st.finish()

	return st.ledger, nil
}

// processFrame applies the transition recognized on one frame
func (s *Service) processFrame(frame image.Image, st *scan) error {
	switch screen := s.detector.Classify(frame, st.ledger); screen {
	case detection.ScreenEnd:
		return s.openGame(frame, st)
	case detection.ScreenLoading, detection.ScreenIntro:
		return s.closeGame(st, screen)
	case detection.ScreenInMatch:
		return s.gather(frame, st)
	}
	return nil
}

// openGame records a new game from its score screen, then skips the
// trailing gameplay before it.
func (s *Service) openGame(frame image.Image, st *scan) error {
	regions := s.detector.Layout().Regions

	end := game.End{Time: st.now()}
	raw, err := s.read(frame, regions.Elapsed, text.Numeric, text.SegmentSingleLine)
	if err != nil {
		return err
	}
	if raw != "" {
		if elapsed, err := video.ParseDuration(raw); err == nil {
			end.Elapsed = game.Some(elapsed)
		} else {
			fmt.Fprintf(s.output, "Ignoring elapsed time %q: %v\n", raw, err)
		}
	}

	g := game.New(end)
	if g.OrangeTeam.Score, err = s.readNumber(frame, regions.OrangeScore); err != nil {
		return err
	}
	if g.BlueTeam.Score, err = s.readNumber(frame, regions.BlueScore); err != nil {
		return err
	}

	if err := st.ledger.Open(g); err != nil {
		return fmt.Errorf("failed to open game at %ds: %w", end.Time, err)
	}
	fmt.Fprintf(s.output, "Game end found at %s\n", video.FromSeconds(end.Time))

	st.cursor -= s.config.EndScreenSkipSeconds * st.fps
	return nil
}

// closeGame sets the start of the open game
func (s *Service) closeGame(st *scan, screen detection.Screen) error {
	start := st.now() + s.config.StartOffsetSeconds
	if err := st.ledger.Front().Close(start); err != nil {
		return fmt.Errorf("failed to close game: %w", err)
	}
	fmt.Fprintf(s.output, "Game start found at %s (%s screen)\n", video.FromSeconds(start), screen)
	return nil
}

// gather enriches the open game from a gameplay frame
func (s *Service) gather(frame image.Image, st *scan) error {
	g := st.ledger.Front()
	g.Gather()
	regions := s.detector.Layout().Regions

	if g.Map == "" {
		raw, err := s.read(frame, regions.MapName, text.Alphanumeric, text.SegmentSingleLine)
		if err != nil {
			return err
		}
		g.Map = game.ResolveMap(raw)
	}

	if err := s.sampleName(frame, &g.OrangeTeam, regions.OrangeName); err != nil {
		return err
	}
	if err := s.sampleName(frame, &g.BlueTeam, regions.BlueName); err != nil {
		return err
	}

	if !g.FastForwarded() && g.Identified() {
		return s.fastForward(frame, g, st)
	}
	return nil
}

// sampleName collects raw team name readings until the quota is reached,
// then resolves the name on the next gameplay frame.
func (s *Service) sampleName(frame image.Image, team *game.Team, rect text.Rect) error {
	if len(team.Samples) < s.config.NameSampleQuota {
		name, err := s.read(frame, rect, text.Alphanumeric, text.SegmentBlock)
		if err != nil {
			return err
		}
		if len(name) >= s.config.MinNameLength {
			team.AddSample(name)
		}
		return nil
	}

	if team.ResolveName() {
		fmt.Fprintf(s.output, "Team name resolved to %q from %d samples\n", team.Name, len(team.Samples))
	}
	return nil
}

// fastForward jumps to the start of an identified game using the match clock,
// which counts down from the match cap.
func (s *Service) fastForward(frame image.Image, g *game.Game, st *scan) error {
	raw, err := s.read(frame, s.detector.Layout().Regions.Clock, text.Alphanumeric, text.SegmentSingleLine)
	if err != nil {
		return err
	}
	clock, err := video.ParseClock(raw)
	if err != nil {
		return nil
	}

	limit := s.config.MatchCapMinutes
	if clock.Minutes >= limit {
		return nil
	}
	played := limit*60 - clock.TotalSeconds()
	if played <= 0 {
		return nil
	}

	g.MarkFastForwarded()
	st.cursor -= played * st.fps
	if st.reporter != nil {
		st.reporter.FastForward(st.ledger.Len())
	}
	fmt.Fprintf(s.output, "Clock at %02d:%02d, skipping %ds\n", clock.Minutes, clock.Seconds, played)
	return nil
}

// read extracts text. A region outside the frame is logged and read as
// nothing; any other failure means the engine is unusable and ends the scan.
func (s *Service) read(frame image.Image, rect text.Rect, charset text.Charset, mode text.SegmentationMode) (string, error) {
	out, err := s.extractor.Extract(frame, rect, charset, mode)
	if errors.Is(err, extraction.ErrInvalidRegion) {
		fmt.Fprintf(s.output, "Skipping region %s: %v\n", rect, err)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	return out, nil
}

// readNumber reads an integer field, leaving it unset on bad OCR
func (s *Service) readNumber(frame image.Image, rect text.Rect) (game.Optional, error) {
	raw, err := s.read(frame, rect, text.Numeric, text.SegmentSingleLine)
	if err != nil || raw == "" {
		return game.Optional{}, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(s.output, "Ignoring non-numeric text %q in %s\n", raw, rect)
		return game.Optional{}, nil
	}
	return game.Some(n), nil
}

// scan is the mutable state of one backward pass
type scan struct {
	source   video.FrameSource
	reporter Reporter
	ledger   *game.Ledger
	total    int
	fps      int
	cursor   int
	percent  int
}

// read decodes the frame under the cursor
func (st *scan) read() (image.Image, bool) {
	if err := st.source.Seek(st.cursor); err != nil {
		return nil, false
	}
	return st.source.Read()
}

// now returns the position of the last decoded frame, rounded to seconds
func (st *scan) now() int {
	return int(math.Round(st.source.PositionSeconds()))
}

func (st *scan) reportProgress() {
	st.emit(100 - st.cursor*100/st.total)
}

func (st *scan) finish() {
	st.emit(100)
}

// emit forwards percent only when it increases
func (st *scan) emit(percent int) {
	if percent <= st.percent {
		return
	}
	st.percent = percent
	if st.reporter != nil {
		st.reporter.Progress(percent)
	}
}
