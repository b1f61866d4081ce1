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
	"ebp-replay-analyzer/domain/video"

	"github.com/cucumber/godog"
)

// mockCutter records calls to Cut for verification
type mockCutter struct {
	calls []cutCall
}

type cutCall struct {
	req        *video.ClipRequest
	outputPath string
}

func (m *mockCutter) Cut(ctx context.Context, req *video.ClipRequest, outputPath string) error {
	m.calls = append(m.calls, cutCall{req: req, outputPath: outputPath})
	return nil
}

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// cutContext holds test state for cut scenarios
type cutContext struct {
	tempDir     string
	sourcePath  string
	gamesPath   string
	cutter      *mockCutter
	fileChecker *mockFileChecker
	output      *bytes.Buffer
	err         error
}

// SharedCutContext is reset before each scenario via Before hook
var SharedCutContext *cutContext

func getCutContext() *cutContext {
	return SharedCutContext
}

func InitializeCutScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "cut-test-*")
		if err != nil {
			return c, err
		}
		SharedCutContext = &cutContext{
			tempDir:     tempDir,
			cutter:      &mockCutter{},
			fileChecker: &mockFileChecker{existingFiles: make(map[string]bool)},
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedCutContext != nil && SharedCutContext.tempDir != "" {
			os.RemoveAll(SharedCutContext.tempDir)
		}
		SharedCutContext = nil
		return c, nil
	})

	ctx.Step(`^a recording at "([^"]*)"$`, aRecordingAt)
	ctx.Step(`^no recording exists at "([^"]*)"$`, noRecordingExistsAt)
	ctx.Step(`^a games file containing:$`, aGamesFileContaining)
	ctx.Step(`^I cut the games into "([^"]*)"$`, iCutTheGamesInto)
	ctx.Step(`^(\d+) clips? should have been cut$`, clipsShouldHaveBeenCut)
	ctx.Step(`^clip (\d+) should start at "([^"]*)" and last (\d+) seconds$`, clipShouldStartAtAndLastSeconds)
	ctx.Step(`^clip (\d+) should be written as "([^"]*)"$`, clipShouldBeWrittenAs)
	ctx.Step(`^the cut output should mention "([^"]*)"$`, theCutOutputShouldMention)
	ctx.Step(`^I should receive an error about the missing recording$`, iShouldReceiveAnErrorAboutTheMissingRecording)
}

func aRecordingAt(path string) error {
	c := getCutContext()
	c.sourcePath = path
	c.fileChecker.existingFiles[path] = true
	return nil
}

func noRecordingExistsAt(path string) error {
	c := getCutContext()
	c.sourcePath = path
	return nil
}

func aGamesFileContaining(doc *godog.DocString) error {
	c := getCutContext()
	c.gamesPath = filepath.Join(c.tempDir, "games.json")
	return os.WriteFile(c.gamesPath, []byte(doc.Content), 0644)
}

func iCutTheGamesInto(dir string) error {
	c := getCutContext()
	c.err = cmd.RunCutWithDependencies(
		context.Background(),
		c.cutter,
		c.fileChecker,
		dir,
		c.sourcePath,
		c.gamesPath,
		c.output,
	)
	return nil
}

func (c *cutContext) clip(n int) (cutCall, error) {
	if c.err != nil {
		return cutCall{}, fmt.Errorf("cut failed: %v", c.err)
	}
	if n < 1 || n > len(c.cutter.calls) {
		return cutCall{}, fmt.Errorf("no clip %d among %d", n, len(c.cutter.calls))
	}
	return c.cutter.calls[n-1], nil
}

func clipsShouldHaveBeenCut(n int) error {
	c := getCutContext()
	if c.err != nil {
		return fmt.Errorf("cut failed: %v", c.err)
	}
	if len(c.cutter.calls) != n {
		return fmt.Errorf("expected %d clips, got %d", n, len(c.cutter.calls))
	}
	return nil
}

func clipShouldStartAtAndLastSeconds(n int, start string, seconds int) error {
	call, err := getCutContext().clip(n)
	if err != nil {
		return err
	}
	if call.req.Start.String() != start {
		return fmt.Errorf("expected clip %d to start at %s, got %s", n, start, call.req.Start)
	}
	if call.req.Duration() != seconds {
		return fmt.Errorf("expected clip %d to last %ds, got %ds", n, seconds, call.req.Duration())
	}
	return nil
}

// clipShouldBeWrittenAs compares the file name without its timestamp suffix
func clipShouldBeWrittenAs(n int, expected string) error {
	call, err := getCutContext().clip(n)
	if err != nil {
		return err
	}
	got := filepath.ToSlash(call.outputPath)
	if i := strings.LastIndex(got, " ("); i >= 0 {
		got = got[:i]
	}
	if got != expected {
		return fmt.Errorf("expected clip %d written as %q, got %q", n, expected, call.outputPath)
	}
	return nil
}

func theCutOutputShouldMention(fragment string) error {
	c := getCutContext()
	if !strings.Contains(c.output.String(), fragment) {
		return fmt.Errorf("expected output to mention %q, got:\n%s", fragment, c.output.String())
	}
	return nil
}

func iShouldReceiveAnErrorAboutTheMissingRecording() error {
	c := getCutContext()
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.err.Error(), "does not exist") {
		return fmt.Errorf("expected error about missing recording, got: %v", c.err)
	}
	return nil
}
