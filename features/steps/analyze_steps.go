//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"ebp-replay-analyzer/cmd"
	"ebp-replay-analyzer/domain/detection"
	"ebp-replay-analyzer/domain/detection/detectiontest"
	"ebp-replay-analyzer/domain/text"
	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/config"
	"ebp-replay-analyzer/infrastructure/report"

	"github.com/cucumber/godog"
	json "github.com/goccy/go-json"
)

// replaySegment shows one screen between two timestamps
type replaySegment struct {
	from, to int
	frame    *image.RGBA
}

// syntheticReplay serves painted frames as a video.FrameSource
type syntheticReplay struct {
	seconds  int
	fps      int
	segments []replaySegment
	pos      int
}

func (r *syntheticReplay) FrameCount() int { return r.seconds * r.fps }

func (r *syntheticReplay) Seek(index int) error {
	r.pos = index
	return nil
}

func (r *syntheticReplay) Read() (image.Image, bool) {
	second := r.pos / r.fps
	for _, s := range r.segments {
		if second >= s.from && second < s.to {
			return s.frame, true
		}
	}
	return blankFrame, true
}

func (r *syntheticReplay) PositionSeconds() float64 { return float64(r.pos) / float64(r.fps) }

func (r *syntheticReplay) Close() error { return nil }

// replayOpener hands out the scenario replay
type replayOpener struct {
	replay     *syntheticReplay
	broken     bool
	openedPath string
}

func (o *replayOpener) Open(path string) (video.FrameSource, error) {
	o.openedPath = path
	if o.broken {
		return nil, errors.New("cannot open file")
	}
	return o.replay, nil
}

// regionRecognizer answers by the bounds of the cropped region
type regionRecognizer struct {
	answers map[image.Rectangle]string
}

func (r *regionRecognizer) Recognize(img image.Image, mode text.SegmentationMode) (string, error) {
	return r.answers[img.Bounds()], nil
}

var (
	analyzeLayout = detection.DefaultLayout()
	blankFrame    = detectiontest.NewFrame(analyzeLayout)
	screenFrames  = map[string]*image.RGBA{
		"score":    detectiontest.Frame(analyzeLayout, analyzeLayout.EndScreen),
		"loading":  detectiontest.Frame(analyzeLayout, analyzeLayout.LoadingScreen),
		"intro":    detectiontest.Frame(analyzeLayout, analyzeLayout.IntroScreen),
		"gameplay": detectiontest.Frame(analyzeLayout, analyzeLayout.InMatch),
	}
	regionNames = map[string]text.Rect{
		"orange score": analyzeLayout.Regions.OrangeScore,
		"blue score":   analyzeLayout.Regions.BlueScore,
		"elapsed":      analyzeLayout.Regions.Elapsed,
		"map":          analyzeLayout.Regions.MapName,
		"orange name":  analyzeLayout.Regions.OrangeName,
		"blue name":    analyzeLayout.Regions.BlueName,
		"clock":        analyzeLayout.Regions.Clock,
	}
)

// analyzeContext holds test state for analyze scenarios
type analyzeContext struct {
	opener     *replayOpener
	recognizer *regionRecognizer
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	err        error
	games      []report.Game
	percents   []int
	nbGames    []int
}

// SharedAnalyzeContext is reset before each scenario via Before hook
var SharedAnalyzeContext *analyzeContext

func getAnalyzeContext() *analyzeContext {
	return SharedAnalyzeContext
}

func InitializeAnalyzeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedAnalyzeContext = &analyzeContext{
			opener:     &replayOpener{replay: &syntheticReplay{fps: 1}},
			recognizer: &regionRecognizer{answers: make(map[image.Rectangle]string)},
			stdout:     &bytes.Buffer{},
			stderr:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedAnalyzeContext = nil
		return c, nil
	})

	ctx.Step(`^a (\d+) second replay at (\d+) fps$`, aSecondReplayAtFps)
	ctx.Step(`^the replay shows the (score|loading|intro|gameplay) screen from (\d+)s to (\d+)s$`, theReplayShowsTheScreenFromTo)
	ctx.Step(`^the "([^"]*)" region reads "([^"]*)"$`, theRegionReads)
	ctx.Step(`^the replay cannot be opened$`, theReplayCannotBeOpened)
	ctx.Step(`^I analyze "([^"]*)" on "([^"]*)" with debug "([^"]*)"$`, iAnalyzeOnWithDebug)
	ctx.Step(`^the analysis should succeed$`, theAnalysisShouldSucceed)
	ctx.Step(`^the analysis should exit with code (\d+)$`, theAnalysisShouldExitWithCode)
	ctx.Step(`^(\d+) games? should be reported$`, gamesShouldBeReported)
	ctx.Step(`^game (\d+) should start at (-?\d+)s and end at (\d+)s$`, gameShouldStartAtAndEndAt)
	ctx.Step(`^game (\d+) should have ended (-?\d+) to (-?\d+) after (-?\d+)s on "([^"]*)"$`, gameShouldHaveEndedToAfterOn)
	ctx.Step(`^game (\d+) should be "([^"]*)" vs "([^"]*)"$`, gameShouldBeVs)
	ctx.Step(`^progress should climb to 100 without repeating$`, progressShouldClimbTo100WithoutRepeating)
	ctx.Step(`^(\d+) fast-forward events? should be reported$`, fastForwardEventsShouldBeReported)
	ctx.Step(`^the replay should have been opened as "([^"]*)"$`, theReplayShouldHaveBeenOpenedAs)
	ctx.Step(`^stderr should mention "([^"]*)"$`, stderrShouldMention)
	ctx.Step(`^stderr should be empty$`, stderrShouldBeEmpty)
}

func aSecondReplayAtFps(seconds, fps int) error {
	a := getAnalyzeContext()
	a.opener.replay.seconds = seconds
	a.opener.replay.fps = fps
	return nil
}

func theReplayShowsTheScreenFromTo(screen string, from, to int) error {
	a := getAnalyzeContext()
	a.opener.replay.segments = append(a.opener.replay.segments, replaySegment{from: from, to: to, frame: screenFrames[screen]})
	return nil
}

func theRegionReads(region, value string) error {
	rect, ok := regionNames[region]
	if !ok {
		return fmt.Errorf("unknown region %q", region)
	}
	getAnalyzeContext().recognizer.answers[rect.Image()] = value
	return nil
}

func theReplayCannotBeOpened() error {
	getAnalyzeContext().opener.broken = true
	return nil
}

func iAnalyzeOnWithDebug(path, osName, debug string) error {
	a := getAnalyzeContext()
	input := cmd.NewAnalyzeInput([]string{path, osName, debug, "ffmpeg", fmt.Sprint(a.opener.replay.seconds)})

	a.err = cmd.RunAnalyzeWithDependencies(
		context.Background(),
		config.Default(),
		a.opener,
		nil, // duration comes from the arguments
		map[text.Charset]text.Recognizer{
			text.Alphanumeric: a.recognizer,
			text.Numeric:      a.recognizer,
		},
		input,
		a.stdout,
		a.stderr,
	)
	if a.err != nil {
		return nil
	}
	return a.parseOutput()
}

func (a *analyzeContext) parseOutput() error {
	for _, line := range strings.Split(strings.TrimSpace(a.stdout.String()), "\n") {
		var event struct {
			Percent *int `json:"percent"`
			NbGames *int `json:"nbGames"`
		}
		if strings.HasPrefix(line, "[") {
			continue
		}
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			return fmt.Errorf("invalid output line %q: %w", line, err)
		}
		if event.Percent != nil {
			a.percents = append(a.percents, *event.Percent)
		}
		if event.NbGames != nil {
			a.nbGames = append(a.nbGames, *event.NbGames)
		}
	}

	games, err := report.ReadGames(a.stdout.Bytes())
	if err != nil {
		return err
	}
	a.games = games
	return nil
}

func theAnalysisShouldSucceed() error {
	if err := getAnalyzeContext().err; err != nil {
		return fmt.Errorf("expected success, got: %v", err)
	}
	return nil
}

func theAnalysisShouldExitWithCode(code int) error {
	a := getAnalyzeContext()
	if a.err == nil {
		if code == 0 {
			return nil
		}
		return fmt.Errorf("expected exit code %d, got success", code)
	}
	var exitErr *cmd.ExitError
	if !errors.As(a.err, &exitErr) {
		return fmt.Errorf("expected an exit error, got: %v", a.err)
	}
	if exitErr.Code != code {
		return fmt.Errorf("expected exit code %d, got %d", code, exitErr.Code)
	}
	return nil
}

func gamesShouldBeReported(n int) error {
	a := getAnalyzeContext()
	if len(a.games) != n {
		return fmt.Errorf("expected %d games, got %d: %s", n, len(a.games), a.stdout.String())
	}
	return nil
}

func (a *analyzeContext) game(n int) (report.Game, error) {
	if n < 1 || n > len(a.games) {
		return report.Game{}, fmt.Errorf("no game %d among %d", n, len(a.games))
	}
	return a.games[n-1], nil
}

func gameShouldStartAtAndEndAt(n, start, end int) error {
	g, err := getAnalyzeContext().game(n)
	if err != nil {
		return err
	}
	if g.Start != start || g.End.Time != end {
		return fmt.Errorf("expected game %d from %ds to %ds, got %ds to %ds", n, start, end, g.Start, g.End.Time)
	}
	return nil
}

func gameShouldHaveEndedToAfterOn(n, orange, blue, elapsed int, mapName string) error {
	g, err := getAnalyzeContext().game(n)
	if err != nil {
		return err
	}
	if g.OrangeTeam.Score != orange || g.BlueTeam.Score != blue {
		return fmt.Errorf("expected score %d-%d, got %d-%d", orange, blue, g.OrangeTeam.Score, g.BlueTeam.Score)
	}
	if g.End.Elapsed != elapsed {
		return fmt.Errorf("expected elapsed %ds, got %ds", elapsed, g.End.Elapsed)
	}
	if g.Map != mapName {
		return fmt.Errorf("expected map %q, got %q", mapName, g.Map)
	}
	return nil
}

func gameShouldBeVs(n int, orange, blue string) error {
	g, err := getAnalyzeContext().game(n)
	if err != nil {
		return err
	}
	if g.OrangeTeam.Name != orange || g.BlueTeam.Name != blue {
		return fmt.Errorf("expected %q vs %q, got %q vs %q", orange, blue, g.OrangeTeam.Name, g.BlueTeam.Name)
	}
	return nil
}

func progressShouldClimbTo100WithoutRepeating() error {
	a := getAnalyzeContext()
	if len(a.percents) == 0 {
		return fmt.Errorf("no progress reported")
	}
	for i := 1; i < len(a.percents); i++ {
		if a.percents[i] <= a.percents[i-1] {
			return fmt.Errorf("progress went from %d to %d", a.percents[i-1], a.percents[i])
		}
	}
	if last := a.percents[len(a.percents)-1]; last != 100 {
		return fmt.Errorf("expected progress to end at 100, got %d", last)
	}
	return nil
}

func fastForwardEventsShouldBeReported(n int) error {
	a := getAnalyzeContext()
	if len(a.nbGames) != n {
		return fmt.Errorf("expected %d fast-forward events, got %v", n, a.nbGames)
	}
	return nil
}

func theReplayShouldHaveBeenOpenedAs(path string) error {
	a := getAnalyzeContext()
	if a.opener.openedPath != path {
		return fmt.Errorf("expected replay opened as %q, got %q", path, a.opener.openedPath)
	}
	return nil
}

func stderrShouldMention(fragment string) error {
	a := getAnalyzeContext()
	combined := a.stderr.String()
	if a.err != nil {
		combined += a.err.Error()
	}
	if !strings.Contains(combined, fragment) {
		return fmt.Errorf("expected stderr to mention %q, got %q", fragment, combined)
	}
	return nil
}

func stderrShouldBeEmpty() error {
	a := getAnalyzeContext()
	if a.stderr.Len() != 0 {
		return fmt.Errorf("expected no diagnostics, got %q", a.stderr.String())
	}
	var exitErr *cmd.ExitError
	if errors.As(a.err, &exitErr) && !exitErr.Silent {
		return fmt.Errorf("expected a silent error, got %v", exitErr)
	}
	return nil
}
