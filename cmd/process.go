package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appdetection "ebp-replay-analyzer/application/detection"
	"ebp-replay-analyzer/application/extraction"
	"ebp-replay-analyzer/application/process"
	appvideo "ebp-replay-analyzer/application/video"
	"ebp-replay-analyzer/domain/detection"
	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/config"
	"ebp-replay-analyzer/infrastructure/ffmpeg"
	"ebp-replay-analyzer/infrastructure/filesystem"
	"ebp-replay-analyzer/infrastructure/opencv"
	"ebp-replay-analyzer/infrastructure/tesseract"

	"github.com/spf13/cobra"
)

var (
	processDuration  float64
	processOutputDir string
	processDebug     bool
)

var processCmd = &cobra.Command{
	Use:   "process <video>",
	Short: "Analyze a replay and cut its games in one run",
	Long: `Run the whole workflow on one recording:
  1. Check the recording (probe its resolution, and its duration when --duration is 0)
  2. Detect the games
  3. Save the game list as <name>.games.json in the output directory
  4. Cut one clip per game

If a step fails, the commands to finish the work by hand are printed.

Example:
  ebp-replay-analyzer process replay.mp4 --output clips`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().Float64Var(&processDuration, "duration", 0, "Recording length in seconds (0 probes it)")
	processCmd.Flags().StringVar(&processOutputDir, "output", "", "Directory for the game list and clips (default from config)")
	processCmd.Flags().BoolVar(&processDebug, "debug", false, "Print detection diagnostics on stderr")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	outputDir := processOutputDir
	if outputDir == "" {
		outputDir = cfg.Output.ClipDirectory
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	engines, err := tesseract.NewSet(cfg.Tesseract)
	if err != nil {
		return fmt.Errorf("could not initialize tesseract: %w", err)
	}
	defer engines.Close()

	diag := io.Discard
	if processDebug {
		diag = os.Stderr
	}

	return RunProcessWithDependencies(
		cmd.Context(),
		cfg,
		opencv.NewOpener(),
		ffmpeg.NewProber(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path)),
		ffmpeg.NewCutter(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path)),
		filesystem.NewChecker(),
		engines.Recognizers(),
		outputDir,
		process.Input{SourcePath: args[0], DurationSeconds: processDuration},
		os.Stdout,
		diag,
	)
}

// RunProcessWithDependencies runs the process command with injected dependencies (for testing)
func RunProcessWithDependencies(
	ctx context.Context,
	cfg *config.Config,
	opener video.Opener,
	prober video.Prober,
	cutter video.Cutter,
	fileChecker video.FileChecker,
	recognizers map[text.Charset]text.Recognizer,
	outputDir string,
	input process.Input,
	output io.Writer,
	diag io.Writer,
) error {
	if verifiable, ok := cutter.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	layout, err := cfg.Layout()
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}

	analyzer := appdetection.NewService(
		detection.NewDetector(layout),
		extraction.NewExtractor(recognizers),
		cfg.Analysis,
		diag,
	)
	cutService := appvideo.NewCutService(cutter, fileChecker, outputDir, appvideo.WithOutput(diag))

	service := process.NewService(analyzer, opener, prober, cutService, fileChecker, outputDir, output,
		process.WithResolution(video.Resolution{Width: layout.Width, Height: layout.Height}))
	_, err = service.Process(ctx, input)
	return err
}
