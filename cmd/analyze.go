package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	appdetection "ebp-replay-analyzer/application/detection"
	"ebp-replay-analyzer/application/extraction"
	"ebp-replay-analyzer/domain/detection"
	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/config"
	"ebp-replay-analyzer/infrastructure/ffmpeg"
	"ebp-replay-analyzer/infrastructure/opencv"
	"ebp-replay-analyzer/infrastructure/report"
	"ebp-replay-analyzer/infrastructure/tesseract"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video> <os> <debug> <ffmpeg> <duration>",
	Short: "Detect the games of a replay",
	Long: `Scan a replay backward and print the games it contains.

Progress is printed as JSON lines on stdout ({"percent":N}, then {"nbGames":N}
each time a game is identified), followed by the game list as one JSON array.

Arguments:
  video     path to an .mp4 recording
  os        caller platform; "win32" converts backslashes in the path
  debug     "true" prints diagnostics on stderr
  ffmpeg    ffmpeg executable used to probe the recording
  duration  length in seconds; 0 probes it with ffmpeg

Example:
  ebp-replay-analyzer analyze "C:\replays\session.mp4" win32 true ffmpeg 3600`,
	Args: cobra.ExactArgs(5),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// AnalyzeInput holds the positional arguments of analyze
type AnalyzeInput struct {
	VideoPath  string
	OS         string
	Debug      bool
	FFmpegPath string
	Duration   string
}

// NewAnalyzeInput maps positional arguments to an AnalyzeInput
func NewAnalyzeInput(args []string) AnalyzeInput {
	return AnalyzeInput{
		VideoPath:  args[0],
		OS:         args[1],
		Debug:      args[2] == "true",
		FFmpegPath: args[3],
		Duration:   args[4],
	}
}

// Validate checks the arguments before any engine is started
func (in AnalyzeInput) Validate() error {
	if !video.IsMP4(in.VideoPath) {
		return &ExitError{Code: 1, Err: fmt.Errorf("%w: %s", video.ErrUnsupportedFormat, in.VideoPath), Silent: !in.Debug}
	}
	if _, err := in.durationSeconds(); err != nil {
		return &ExitError{Code: 1, Err: err, Silent: !in.Debug}
	}
	return nil
}

func (in AnalyzeInput) durationSeconds() (float64, error) {
	d, err := strconv.ParseFloat(in.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", in.Duration, err)
	}
	return d, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input := NewAnalyzeInput(args)
	if err := input.Validate(); err != nil {
		return err
	}

	cfg, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	engines, err := tesseract.NewSet(cfg.Tesseract)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("could not initialize tesseract: %w", err)}
	}
	defer engines.Close()

	ffmpegPath := input.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = cfg.FFmpeg.Path
	}

	return RunAnalyzeWithDependencies(
		cmd.Context(),
		cfg,
		opencv.NewOpener(),
		ffmpeg.NewProber(ffmpeg.WithFFmpegPath(ffmpegPath)),
		engines.Recognizers(),
		input,
		os.Stdout,
		os.Stderr,
	)
}

// RunAnalyzeWithDependencies runs the analyze command with injected dependencies (for testing).
// prober may be nil, in which case the duration argument must be positive.
func RunAnalyzeWithDependencies(
	ctx context.Context,
	cfg *config.Config,
	opener video.Opener,
	prober video.Prober,
	recognizers map[text.Charset]text.Recognizer,
	input AnalyzeInput,
	stdout io.Writer,
	stderr io.Writer,
) error {
	if err := input.Validate(); err != nil {
		return err
	}

	diag := io.Discard
	if input.Debug {
		diag = stderr
	}

	layout, err := cfg.Layout()
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}

	path := video.NormalizePath(input.VideoPath, input.OS)
	duration, _ := input.durationSeconds()

	if prober != nil {
		duration = probe(ctx, prober, path, layout, duration, diag)
	}
	if duration <= 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%w: %s", appdetection.ErrInvalidDuration, input.Duration), Silent: !input.Debug}
	}

	service := appdetection.NewService(
		detection.NewDetector(layout),
		extraction.NewExtractor(recognizers),
		cfg.Analysis,
		diag,
	)

	out := report.NewWriter(stdout)
	ledger, err := service.AnalyzeFile(ctx, opener, path, duration, out)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return &ExitError{Code: 130, Err: err, Silent: true}
		}
		return err
	}

	return out.WriteGames(ledger.Games())
}

// probe checks the recording resolution and fills in a missing duration
func probe(ctx context.Context, prober video.Prober, path string, layout detection.Layout, duration float64, diag io.Writer) float64 {
	info, err := prober.Probe(ctx, path)
	if err != nil {
		fmt.Fprintf(diag, "Could not probe %s: %v\n", path, err)
		return duration
	}

	want := video.Resolution{Width: layout.Width, Height: layout.Height}
	if info.Resolution != want {
		fmt.Fprintf(diag, "Recording is %s, detection expects %s\n", info.Resolution, want)
	}

	if duration <= 0 {
		fmt.Fprintf(diag, "Using probed duration %.2fs\n", info.DurationSeconds)
		return info.DurationSeconds
	}
	return duration
}
