package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appvideo "ebp-replay-analyzer/application/video"
	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/ffmpeg"
	"ebp-replay-analyzer/infrastructure/filesystem"
	"ebp-replay-analyzer/infrastructure/report"

	"github.com/spf13/cobra"
)

var cutOutputDir string

var cutCmd = &cobra.Command{
	Use:   "cut <video> <games.json>",
	Short: "Cut one clip per detected game",
	Long: `Cut the games listed by analyze out of the recording, without re-encoding.

games.json may hold the game list alone or the full analyze output.
Clips are named "EBP - <orange> vs <blue> - <map> (<timestamp>).mp4".
Games without a detected start are skipped.

Example:
  ebp-replay-analyzer analyze replay.mp4 linux false ffmpeg 0 > games.json
  ebp-replay-analyzer cut replay.mp4 games.json --output clips`,
	Args: cobra.ExactArgs(2),
	RunE: runCut,
}

func init() {
	rootCmd.AddCommand(cutCmd)
	cutCmd.Flags().StringVar(&cutOutputDir, "output", "", "Directory for the clips (default from config)")
}

func runCut(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	outputDir := cutOutputDir
	if outputDir == "" {
		outputDir = cfg.Output.ClipDirectory
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return RunCutWithDependencies(
		cmd.Context(),
		ffmpeg.NewCutter(ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path)),
		filesystem.NewChecker(),
		outputDir,
		args[0],
		args[1],
		os.Stdout,
	)
}

// RunCutWithDependencies runs the cut command with injected dependencies (for testing)
func RunCutWithDependencies(
	ctx context.Context,
	cutter video.Cutter,
	fileChecker video.FileChecker,
	outputDir string,
	sourcePath string,
	gamesPath string,
	output io.Writer,
) error {
	// Verify ffmpeg is available if cutter supports it
	if verifiable, ok := cutter.(interface{ VerifyInstalled(context.Context) error }); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	games, err := report.ReadGamesFile(gamesPath)
	if err != nil {
		return err
	}

	service := appvideo.NewCutService(cutter, fileChecker, outputDir, appvideo.WithOutput(output))

	fmt.Fprintf(output, "Cutting %d game(s) from %s...\n", len(games), sourcePath)

	result, err := service.CutGames(ctx, sourcePath, games)
	if err != nil {
		return err
	}

	for _, path := range result.OutputPaths {
		fmt.Fprintf(output, "Successfully created: %s\n", path)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(output, "Skipped %d game(s)\n", result.Skipped)
	}
	return nil
}
