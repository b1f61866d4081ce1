package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	appdetection "ebp-replay-analyzer/application/detection"
	appvideo "ebp-replay-analyzer/application/video"
	"ebp-replay-analyzer/domain/game"
	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/report"
)

// Analyzer rebuilds the games of a recording
type Analyzer interface {
	AnalyzeFile(ctx context.Context, opener video.Opener, path string, durationSeconds float64, reporter appdetection.Reporter) (*game.Ledger, error)
}

// GameCutter cuts one clip per game
type GameCutter interface {
	CutGames(ctx context.Context, sourcePath string, games []report.Game) (*appvideo.CutResult, error)
}

// Service orchestrates analyze then cut for a single recording
type Service struct {
	analyzer    Analyzer
	opener      video.Opener
	prober      video.Prober
	cutter      GameCutter
	fileChecker video.FileChecker
	outputDir   string
	output      io.Writer
	resolution  video.Resolution
}

// Option configures a Service
type Option func(*Service)

// WithResolution rejects probed recordings of any other size
func WithResolution(r video.Resolution) Option {
	return func(s *Service) {
		s.resolution = r
	}
}

// NewService creates a new process service. prober may be nil.
func NewService(
	analyzer Analyzer,
	opener video.Opener,
	prober video.Prober,
	cutter GameCutter,
	fileChecker video.FileChecker,
	outputDir string,
	output io.Writer,
	opts ...Option,
) *Service {
	if output == nil {
		output = io.Discard
	}
	s := &Service{
		analyzer:    analyzer,
		opener:      opener,
		prober:      prober,
		cutter:      cutter,
		fileChecker: fileChecker,
		outputDir:   outputDir,
		output:      output,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input contains all input parameters for the process command
type Input struct {
	SourcePath      string  // Recording to analyze (.mp4)
	DurationSeconds float64 // Recording length; 0 probes it
}

// Result contains the results of a successful process run
type Result struct {
	GamesPath string
	Games     []report.Game
	Clips     []string
	Skipped   int
	Elapsed   time.Duration
}

// ValidationError contains details about a validation failure with suggestions
type ValidationError struct {
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\n\nTo fix this, run:\n  %s", e.Message, e.Suggestion)
	}
	return e.Message
}

// Process runs the complete end-to-end workflow
func (s *Service) Process(ctx context.Context, input Input) (*Result, error) {
	startTime := time.Now()

	fmt.Fprintf(s.output, "Using source: %s\n\n", filepath.Base(input.SourcePath))

	// Step 1: Check recording
	fmt.Fprintf(s.output, "[1/4] Checking recording...\n")
	duration, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.output, "      Duration: %s\n\n", video.FromSeconds(int(duration)))

	// Step 2: Analyze
	fmt.Fprintf(s.output, "[2/4] Analyzing games...\n")
	ledger, err := s.analyzer.AnalyzeFile(ctx, s.opener, input.SourcePath, duration, &progressPrinter{out: s.output})
	if err != nil {
		s.showRecoveryCommands(2, input.SourcePath, "")
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	fmt.Fprintf(s.output, "      Found %d game(s)\n\n", ledger.Len())

	// Step 3: Save game list
	fmt.Fprintf(s.output, "[3/4] Saving game list...\n")
	gamesPath := filepath.Join(s.outputDir, gamesFileName(input.SourcePath))
	if err := saveGames(gamesPath, ledger.Games()); err != nil {
		s.showRecoveryCommands(3, input.SourcePath, gamesPath)
		return nil, fmt.Errorf("saving game list failed: %w", err)
	}
	fmt.Fprintf(s.output, "      Created: %s\n\n", gamesPath)

	// Clips are numbered in video order
	games := make([]report.Game, 0, ledger.Len())
	for _, g := range ledger.Chronological() {
		games = append(games, report.FromGame(g))
	}

	// Step 4: Cut clips
	fmt.Fprintf(s.output, "[4/4] Cutting clips...\n")
	cutResult, err := s.cutter.CutGames(ctx, input.SourcePath, games)
	if err != nil {
		s.showRecoveryCommands(4, input.SourcePath, gamesPath)
		return nil, fmt.Errorf("cutting failed: %w", err)
	}
	for _, p := range cutResult.OutputPaths {
		fmt.Fprintf(s.output, "      Created: %s\n", p)
	}
	if cutResult.Skipped > 0 {
		fmt.Fprintf(s.output, "      Skipped: %d game(s)\n", cutResult.Skipped)
	}
	fmt.Fprintln(s.output)

	elapsed := time.Since(startTime)
	fmt.Fprintf(s.output, "Done! Completed in %s\n", formatDuration(elapsed))

	return &Result{
		GamesPath: gamesPath,
		Games:     games,
		Clips:     cutResult.OutputPaths,
		Skipped:   cutResult.Skipped,
		Elapsed:   elapsed,
	}, nil
}

func (s *Service) validateInput(ctx context.Context, input Input) (float64, error) {
	if !video.IsMP4(input.SourcePath) {
		return 0, &ValidationError{Message: fmt.Sprintf("%v: %s", video.ErrUnsupportedFormat, input.SourcePath)}
	}
	if !s.fileChecker.Exists(input.SourcePath) {
		return 0, &ValidationError{Message: fmt.Sprintf("source file does not exist: %s", input.SourcePath)}
	}

	duration := input.DurationSeconds
	if s.prober == nil {
		if duration > 0 {
			return duration, nil
		}
		return 0, &ValidationError{
			Message:    appdetection.ErrInvalidDuration.Error(),
			Suggestion: fmt.Sprintf("ebp-replay-analyzer process %q --duration <seconds>", input.SourcePath),
		}
	}

	info, err := s.prober.Probe(ctx, input.SourcePath)
	if err != nil {
		if duration > 0 {
			fmt.Fprintf(s.output, "      Could not probe resolution: %v\n", err)
			return duration, nil
		}
		return 0, &ValidationError{
			Message:    fmt.Sprintf("could not probe %s: %v", input.SourcePath, err),
			Suggestion: fmt.Sprintf("ebp-replay-analyzer process %q --duration <seconds>", input.SourcePath),
		}
	}
	fmt.Fprintf(s.output, "      Resolution: %s\n", info.Resolution)

	if s.resolution != (video.Resolution{}) && info.Resolution != s.resolution {
		scaled := strings.TrimSuffix(input.SourcePath, filepath.Ext(input.SourcePath)) + fmt.Sprintf("-%dp.mp4", s.resolution.Height)
		return 0, &ValidationError{
			Message:    fmt.Sprintf("wrong resolution: %s is %s, detection expects %s", input.SourcePath, info.Resolution, s.resolution),
			Suggestion: fmt.Sprintf("ffmpeg -i %q -vf scale=%d:%d %q", input.SourcePath, s.resolution.Width, s.resolution.Height, scaled),
		}
	}

	if duration > 0 {
		return duration, nil
	}
	if info.DurationSeconds <= 0 {
		return 0, &ValidationError{Message: fmt.Sprintf("%v: %s", appdetection.ErrInvalidDuration, input.SourcePath)}
	}
	return info.DurationSeconds, nil
}

func (s *Service) showRecoveryCommands(failedStep int, sourcePath, gamesPath string) {
	fmt.Fprintln(s.output)
	fmt.Fprintln(s.output, "To complete manually:")

	if gamesPath == "" {
		gamesPath = filepath.Join(s.outputDir, gamesFileName(sourcePath))
	}

	step := 1
	if failedStep <= 3 {
		fmt.Fprintf(s.output, "  %d. Analyze:    ebp-replay-analyzer analyze %q linux false ffmpeg 0 > %q\n", step, sourcePath, gamesPath)
		step++
	}
	if failedStep <= 4 {
		fmt.Fprintf(s.output, "  %d. Cut:        ebp-replay-analyzer cut %q %q --output %q\n", step, sourcePath, gamesPath, s.outputDir)
	}
	fmt.Fprintln(s.output)
}

// gamesFileName names the game list after the recording: "session.mp4" -> "session.games.json"
func gamesFileName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".games.json"
}

func saveGames(path string, games []*game.Game) error {
	var buf bytes.Buffer
	if err := report.NewWriter(&buf).WriteGames(games); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// progressPrinter reports scan progress every tenth
type progressPrinter struct {
	out  io.Writer
	last int
}

func (p *progressPrinter) Progress(percent int) {
	if percent/10 > p.last/10 {
		fmt.Fprintf(p.out, "      %d%%\n", percent)
	}
	p.last = percent
}

func (p *progressPrinter) FastForward(games int) {
	fmt.Fprintf(p.out, "      Identified game %d\n", games)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// StepInfo provides information about a workflow step
type StepInfo struct {
	Number      int
	Description string
}

// GetSteps returns the list of workflow steps
func GetSteps() []StepInfo {
	return []StepInfo{
		{1, "Checking recording"},
		{2, "Analyzing games"},
		{3, "Saving game list"},
		{4, "Cutting clips"},
	}
}
