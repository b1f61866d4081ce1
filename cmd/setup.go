package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ebp-replay-analyzer/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the OCR engine, the ffmpeg
executable, the clip output directory and, optionally, the scan timings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to ebp-replay-analyzer setup!")
	fmt.Println()

	cfg := config.Default()

	if err := promptTesseract(prompter, cfg); err != nil {
		return err
	}

	if err := promptTools(prompter, cfg); err != nil {
		return err
	}

	if err := promptAnalysis(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptTesseract(prompter Prompter, cfg *config.Config) error {
	language, err := prompter.Input("Tesseract language?", cfg.Tesseract.Language)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if language == "" {
		return fmt.Errorf("tesseract language is required")
	}
	cfg.Tesseract.Language = language

	dataPath, err := prompter.Input("Tesseract data directory (empty for the system default)?", os.Getenv("TESSDATA_PREFIX"))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Tesseract.DataPath = dataPath

	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.FFmpeg.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	cfg.FFmpeg.Path = ffmpegPath

	clips, err := prompter.Input("Where should game clips go?", cfg.Output.ClipDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if clips == "" {
		return fmt.Errorf("clip directory is required")
	}
	cfg.Output.ClipDirectory = clips

	return nil
}

func promptAnalysis(prompter Prompter, cfg *config.Config) error {
	customize, err := prompter.Confirm("Adjust scan timings?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !customize {
		return nil
	}

	a := &cfg.Analysis
	fields := []struct {
		message string
		value   *int
	}{
		{"Seconds between sampled frames?", &a.SampleIntervalSeconds},
		{"Seconds skipped before a score screen?", &a.EndScreenSkipSeconds},
		{"Seconds added to a detected start?", &a.StartOffsetSeconds},
		{"Team name readings per game?", &a.NameSampleQuota},
		{"Minimum team name length?", &a.MinNameLength},
		{"Match length cap in minutes?", &a.MatchCapMinutes},
	}

	for _, f := range fields {
		raw, err := prompter.Input(f.message, strconv.Itoa(*f.value))
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%q is not a number", raw)
		}
		*f.value = n
	}

	return a.Validate()
}
