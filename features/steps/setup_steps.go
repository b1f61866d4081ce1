//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ebp-replay-analyzer/cmd"
	"ebp-replay-analyzer/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir          string
	configPath       string
	setupCancelled   bool
	originalContent  string
	promptResponses  map[string]string
	confirmResponses map[string]bool
	err              error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.setupCancelled = false
		testCtx.originalContent = ""
		testCtx.promptResponses = make(map[string]string)
		testCtx.confirmResponses = make(map[string]bool)
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Cleanup temp directory
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedSetupContext = &setupContext{}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I attempt the setup command with inputs:$`, testCtx.iAttemptTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)" and inputs:$`, testCtx.iRunTheSetupCommandWithConfirmationAndInputs)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config should have tesseract language "([^"]*)"$`, testCtx.theConfigShouldHaveTesseractLanguage)
	ctx.Step(`^the config should have tesseract data path "([^"]*)"$`, testCtx.theConfigShouldHaveTesseractDataPath)
	ctx.Step(`^the config should have ffmpeg path "([^"]*)"$`, testCtx.theConfigShouldHaveFFmpegPath)
	ctx.Step(`^the config should have clip_directory "([^"]*)"$`, testCtx.theConfigShouldHaveClipDirectory)
	ctx.Step(`^the config should have match cap (\d+) minutes and sample interval (\d+) seconds$`, testCtx.theConfigShouldHaveMatchCapAndSampleInterval)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, testCtx.theSetupShouldFailWith)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	// Just ensure the config path directory exists but no config file
	configDir := filepath.Dir(s.configPath)
	return os.MkdirAll(configDir, 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	// Create the config file with some content
	configDir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	content := `tesseract:
  language: "fra"
ffmpeg:
  path: "/original/ffmpeg"
output:
  clip_directory: "/original/clips"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms := parseInputTable(table)
	prompter := NewMockPrompter(inputs, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func (s *setupContext) iAttemptTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms := parseInputTable(table)
	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, confirms), s.configPath)
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	prompter := NewMockPrompter([]string{}, []bool{confirm})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if !confirm {
		s.setupCancelled = true
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmationAndInputs(confirmation string, table *godog.Table) error {
	confirm := strings.ToLower(confirmation) == "y"
	inputs, confirms := parseInputTable(table)

	// Prepend the overwrite confirmation
	allConfirms := append([]bool{confirm}, confirms...)
	prompter := NewMockPrompter(inputs, allConfirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func parseInputTable(table *godog.Table) ([]string, []bool) {
	var inputs []string
	var confirms []bool

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		// Yes/no prompts start with "Adjust"
		if strings.HasPrefix(prompt, "adjust") {
			confirms = append(confirms, strings.ToLower(value) == "y")
		} else {
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (s *setupContext) theConfigShouldHaveTesseractLanguage(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Tesseract.Language != expected {
		return fmt.Errorf("expected tesseract language %q, got %q", expected, cfg.Tesseract.Language)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveTesseractDataPath(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Tesseract.DataPath != expected {
		return fmt.Errorf("expected tesseract data path %q, got %q", expected, cfg.Tesseract.DataPath)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveFFmpegPath(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.FFmpeg.Path != expected {
		return fmt.Errorf("expected ffmpeg path %q, got %q", expected, cfg.FFmpeg.Path)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveClipDirectory(expected string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Output.ClipDirectory != expected {
		return fmt.Errorf("expected clip_directory %q, got %q", expected, cfg.Output.ClipDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveMatchCapAndSampleInterval(capMinutes, interval int) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Analysis.MatchCapMinutes != capMinutes || cfg.Analysis.SampleIntervalSeconds != interval {
		return fmt.Errorf("expected match cap %d and interval %d, got %d and %d",
			capMinutes, interval, cfg.Analysis.MatchCapMinutes, cfg.Analysis.SampleIntervalSeconds)
	}
	return nil
}

func (s *setupContext) theSetupShouldFailWith(fragment string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	if !strings.Contains(s.err.Error(), fragment) {
		return fmt.Errorf("expected error mentioning %q, got: %v", fragment, s.err)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
