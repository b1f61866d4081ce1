//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ebp-replay-analyzer/cmd"
	"ebp-replay-analyzer/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
	output     *bytes.Buffer
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func getConfigContext() *configContext {
	return SharedConfigContext
}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	// Reset context after each scenario
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext != nil {
			os.RemoveAll(SharedConfigContext.tempDir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^a configuration file containing:$`, aConfigurationFileContaining)
	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, iAttemptToLoadTheConfiguration)
	ctx.Step(`^the match cap should be (\d+) minutes$`, theMatchCapShouldBeMinutes)
	ctx.Step(`^the sample interval should be (\d+) seconds$`, theSampleIntervalShouldBeSeconds)
	ctx.Step(`^the tesseract language should be "([^"]*)"$`, theTesseractLanguageShouldBe)
	ctx.Step(`^I should receive a configuration error mentioning "([^"]*)"$`, iShouldReceiveAConfigurationErrorMentioning)
	ctx.Step(`^I export the layout to "([^"]*)"$`, iExportTheLayoutTo)
	ctx.Step(`^a configuration using the layout file "([^"]*)"$`, aConfigurationUsingTheLayoutFile)
	ctx.Step(`^the layout should be (\d+)x(\d+)$`, theLayoutShouldBe)
	ctx.Step(`^I list the maps$`, iListTheMaps)
	ctx.Step(`^the map list should include "([^"]*)"$`, theMapListShouldInclude)
}

func aConfigurationFileContaining(doc *godog.DocString) error {
	c := getConfigContext()
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func noConfigurationFileExists() error {
	return nil
}

func iLoadTheConfiguration() error {
	c := getConfigContext()
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func iAttemptToLoadTheConfiguration() error {
	c := getConfigContext()
	c.cfg, c.loadErr = config.LoadOrDefault(c.configPath)
	return nil
}

func theMatchCapShouldBeMinutes(expected int) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Analysis.MatchCapMinutes != expected {
		return fmt.Errorf("expected match cap %d, got %d", expected, c.cfg.Analysis.MatchCapMinutes)
	}
	return nil
}

func theSampleIntervalShouldBeSeconds(expected int) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Analysis.SampleIntervalSeconds != expected {
		return fmt.Errorf("expected sample interval %d, got %d", expected, c.cfg.Analysis.SampleIntervalSeconds)
	}
	return nil
}

func theTesseractLanguageShouldBe(expected string) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	if c.cfg.Tesseract.Language != expected {
		return fmt.Errorf("expected tesseract language %q, got %q", expected, c.cfg.Tesseract.Language)
	}
	return nil
}

func iShouldReceiveAConfigurationErrorMentioning(fragment string) error {
	c := getConfigContext()
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.loadErr.Error(), fragment) {
		return fmt.Errorf("expected error mentioning %q, got: %v", fragment, c.loadErr)
	}
	return nil
}

func iExportTheLayoutTo(name string) error {
	c := getConfigContext()
	return cmd.RunConfigLayoutWithDependencies(config.Default(), filepath.Join(c.tempDir, name), c.output)
}

func aConfigurationUsingTheLayoutFile(name string) error {
	c := getConfigContext()
	content := fmt.Sprintf("layout_file: %q\n", filepath.Join(c.tempDir, name))
	return os.WriteFile(c.configPath, []byte(content), 0644)
}

func theLayoutShouldBe(width, height int) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	layout, err := c.cfg.Layout()
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}
	if layout.Width != width || layout.Height != height {
		return fmt.Errorf("expected %dx%d layout, got %dx%d", width, height, layout.Width, layout.Height)
	}
	return nil
}

func iListTheMaps() error {
	return cmd.RunConfigMapsWithDependencies(getConfigContext().output)
}

func theMapListShouldInclude(name string) error {
	c := getConfigContext()
	if !strings.Contains(c.output.String(), name) {
		return fmt.Errorf("expected %q in map list:\n%s", name, c.output.String())
	}
	return nil
}
