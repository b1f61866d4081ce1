//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ebp-replay-analyzer/application/process"
	"ebp-replay-analyzer/cmd"
	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/infrastructure/config"
	"ebp-replay-analyzer/infrastructure/report"

	"github.com/cucumber/godog"
)

// processContext holds test state for process scenarios.
// The replay comes from the analyze context, the cutter from the cut context.
type processContext struct {
	outputDir string
	output    *bytes.Buffer
	err       error
}

// SharedProcessContext is reset before each scenario via Before hook
var SharedProcessContext *processContext

func getProcessContext() *processContext {
	return SharedProcessContext
}

func InitializeProcessScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "process-test-*")
		if err != nil {
			return c, err
		}
		SharedProcessContext = &processContext{
			outputDir: dir,
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedProcessContext != nil {
			os.RemoveAll(SharedProcessContext.outputDir)
		}
		SharedProcessContext = nil
		return c, nil
	})

	ctx.Step(`^I process "([^"]*)"$`, iProcess)
	ctx.Step(`^I process "([^"]*)" without a duration$`, iProcessWithoutADuration)
	ctx.Step(`^the process should succeed$`, theProcessShouldSucceed)
	ctx.Step(`^the process should fail mentioning "([^"]*)"$`, theProcessShouldFailMentioning)
	ctx.Step(`^the game list "([^"]*)" should hold (\d+) games?$`, theGameListShouldHoldGames)
	ctx.Step(`^clip (\d+) should be named "([^"]*)"$`, clipShouldBeNamed)
	ctx.Step(`^the process output should mention "([^"]*)"$`, theProcessOutputShouldMention)
	ctx.Step(`^the replay should not have been opened$`, theReplayShouldNotHaveBeenOpened)
}

func iProcess(path string) error {
	return runProcess(path, float64(getAnalyzeContext().opener.replay.seconds))
}

func iProcessWithoutADuration(path string) error {
	return runProcess(path, 0)
}

func runProcess(path string, duration float64) error {
	p := getProcessContext()
	a := getAnalyzeContext()
	c := getCutContext()

	p.err = cmd.RunProcessWithDependencies(
		context.Background(),
		config.Default(),
		a.opener,
		nil, // duration comes from the scenario
		c.cutter,
		c.fileChecker,
		map[text.Charset]text.Recognizer{
			text.Alphanumeric: a.recognizer,
			text.Numeric:      a.recognizer,
		},
		p.outputDir,
		process.Input{SourcePath: path, DurationSeconds: duration},
		p.output,
		a.stderr,
	)
	return nil
}

func theProcessShouldSucceed() error {
	p := getProcessContext()
	if p.err != nil {
		return fmt.Errorf("expected success, got: %v\n%s", p.err, p.output.String())
	}
	return nil
}

func theProcessShouldFailMentioning(fragment string) error {
	p := getProcessContext()
	if p.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(p.err.Error(), fragment) {
		return fmt.Errorf("expected error mentioning %q, got: %v", fragment, p.err)
	}
	return nil
}

func theGameListShouldHoldGames(name string, n int) error {
	games, err := report.ReadGamesFile(filepath.Join(getProcessContext().outputDir, name))
	if err != nil {
		return err
	}
	if len(games) != n {
		return fmt.Errorf("expected %d games in %s, got %d", n, name, len(games))
	}
	return nil
}

// clipShouldBeNamed compares the base name without its timestamp suffix
func clipShouldBeNamed(n int, expected string) error {
	call, err := getCutContext().clip(n)
	if err != nil {
		return err
	}
	got := filepath.Base(call.outputPath)
	if i := strings.LastIndex(got, " ("); i >= 0 {
		got = got[:i]
	}
	if got != expected {
		return fmt.Errorf("expected clip %d named %q, got %q", n, expected, call.outputPath)
	}
	return nil
}

func theProcessOutputShouldMention(fragment string) error {
	p := getProcessContext()
	if !strings.Contains(p.output.String(), fragment) {
		return fmt.Errorf("expected output to mention %q, got:\n%s", fragment, p.output.String())
	}
	return nil
}

func theReplayShouldNotHaveBeenOpened() error {
	if path := getAnalyzeContext().opener.openedPath; path != "" {
		return fmt.Errorf("expected replay not to be opened, got %q", path)
	}
	return nil
}
