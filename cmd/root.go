package cmd

import (
	"errors"
	"fmt"
	"os"

	"ebp-replay-analyzer/infrastructure/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "ebp-replay-analyzer",
	Short: "Find the games in EVA Battle Plan replays",
	Long: `ebp-replay-analyzer scans a recorded EVA Battle Plan session and rebuilds
the list of games it contains:

  - Detect score, loading, intro and gameplay screens
  - Read scores, elapsed time, map and team names
  - Cut one clip per game with ffmpeg

Example:
  ebp-replay-analyzer analyze replay.mp4 linux false ffmpeg 3600`,
	SilenceErrors: true,
}

// ExitError carries a process exit code up to Execute.
// Silent errors are not printed.
type ExitError struct {
	Code   int
	Err    error
	Silent bool
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func Execute() {
	loadEnv()

	if err := rootCmd.Execute(); err != nil {
		code := 1
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
			if !exitErr.Silent {
				fmt.Fprintln(os.Stderr, err)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $EBP_CONFIG or ./config/config.yaml)")
}

// loadEnv reads an optional .env file; real environment variables win
func loadEnv() {
	for _, path := range []string{".env", "config/.env"} {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = os.Getenv("EBP_CONFIG")
	}
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing file falls back to defaults; a broken one is reported by the commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
	if cfgErr != nil {
		cfg = nil
		return
	}

	if cfg.Tesseract.DataPath == "" {
		cfg.Tesseract.DataPath = os.Getenv("TESSDATA_PREFIX")
	}
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfg == nil && cfgErr == nil {
		return config.Default(), nil
	}
	return cfg, cfgErr
}
