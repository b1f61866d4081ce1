package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appdetection "ebp-replay-analyzer/application/detection"
	appvideo "ebp-replay-analyzer/application/video"
	"ebp-replay-analyzer/domain/game"
	"ebp-replay-analyzer/domain/video"
	"ebp-replay-analyzer/infrastructure/report"
)

// --- Mock implementations for testing ---

type mockAnalyzer struct {
	games    []*game.Game
	err      error
	duration float64
	path     string
}

func (m *mockAnalyzer) AnalyzeFile(ctx context.Context, opener video.Opener, path string, durationSeconds float64, reporter appdetection.Reporter) (*game.Ledger, error) {
	m.path = path
	m.duration = durationSeconds
	if m.err != nil {
		return nil, m.err
	}
	reporter.Progress(50)
	reporter.Progress(100)
	ledger := game.NewLedger()
	for i := len(m.games) - 1; i >= 0; i-- {
		if err := ledger.Open(m.games[i]); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

type mockCutter struct {
	games []report.Game
	err   error
}

func (m *mockCutter) CutGames(ctx context.Context, sourcePath string, games []report.Game) (*appvideo.CutResult, error) {
	m.games = games
	if m.err != nil {
		return nil, m.err
	}
	result := &appvideo.CutResult{}
	for _, g := range games {
		if !g.Closed() {
			result.Skipped++
			continue
		}
		result.OutputPaths = append(result.OutputPaths, g.Map+".mp4")
	}
	return result, nil
}

type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

type mockProber struct {
	info video.Info
	err  error
}

func (m *mockProber) Probe(ctx context.Context, path string) (video.Info, error) {
	return m.info, m.err
}

func closedGame(t *testing.T, start, end int, mapName string) *game.Game {
	t.Helper()
	g := game.New(game.End{Time: end, Elapsed: game.Some(end - start)})
	g.Map = mapName
	g.OrangeTeam.Name = "FOO"
	g.BlueTeam.Name = "BAR"
	if err := g.Close(start); err != nil {
		t.Fatalf("close: %v", err)
	}
	return g
}

var fullHD = video.Resolution{Width: 1920, Height: 1080}

func newTestService(t *testing.T, analyzer Analyzer, prober video.Prober, cutter GameCutter, opts ...Option) (*Service, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	checker := &mockFileChecker{existingFiles: map[string]bool{"/videos/session.mp4": true}}
	return NewService(analyzer, nil, prober, cutter, checker, dir, &out, opts...), &out, dir
}

func TestProcess_Success(t *testing.T) {
	analyzer := &mockAnalyzer{games: []*game.Game{
		closedGame(t, 100, 700, "Polaris"),
		closedGame(t, 900, 1500, "Helios Station"),
	}}
	cutter := &mockCutter{}
	svc, out, dir := newTestService(t, analyzer, nil, cutter)

	result, err := svc.Process(context.Background(), Input{SourcePath: "/videos/session.mp4", DurationSeconds: 1800})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analyzer.duration != 1800 {
		t.Errorf("expected duration 1800, got %v", analyzer.duration)
	}
	if len(result.Clips) != 2 || result.Skipped != 0 {
		t.Errorf("expected 2 clips and no skips, got %v / %d", result.Clips, result.Skipped)
	}
	if len(cutter.games) != 2 || cutter.games[0].Map != "Polaris" {
		t.Errorf("expected games passed in video order, got %+v", cutter.games)
	}

	wantPath := filepath.Join(dir, "session.games.json")
	if result.GamesPath != wantPath {
		t.Errorf("expected games path %s, got %s", wantPath, result.GamesPath)
	}
	saved, err := report.ReadGamesFile(wantPath)
	if err != nil {
		t.Fatalf("read saved games: %v", err)
	}
	if len(saved) != 2 || saved[1].Start != 900 || saved[1].End.Time != 1500 {
		t.Errorf("unexpected saved games: %+v", saved)
	}

	for _, step := range GetSteps() {
		if !strings.Contains(out.String(), step.Description) {
			t.Errorf("expected output to mention %q", step.Description)
		}
	}
	if !strings.Contains(out.String(), "100%") {
		t.Errorf("expected progress in output, got:\n%s", out.String())
	}
}

func TestProcess_CutsInVideoOrder(t *testing.T) {
	analyzer := &mockAnalyzer{games: []*game.Game{
		closedGame(t, 900, 1500, "Helios Station"),
		closedGame(t, 100, 700, "Polaris"),
		closedGame(t, 1600, 2100, "Silva"),
	}}
	cutter := &mockCutter{}
	svc, _, _ := newTestService(t, analyzer, nil, cutter)

	if _, err := svc.Process(context.Background(), Input{SourcePath: "/videos/session.mp4", DurationSeconds: 2400}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Polaris", "Helios Station", "Silva"}
	if len(cutter.games) != len(want) {
		t.Fatalf("expected %d games, got %d", len(want), len(cutter.games))
	}
	for i, name := range want {
		if cutter.games[i].Map != name {
			t.Errorf("game %d: expected %s, got %s", i, name, cutter.games[i].Map)
		}
	}
}

func TestProcess_SkipsOpenGames(t *testing.T) {
	open := game.New(game.End{Time: 300})
	analyzer := &mockAnalyzer{games: []*game.Game{open, closedGame(t, 400, 900, "Polaris")}}
	svc, _, _ := newTestService(t, analyzer, nil, &mockCutter{})

	result, err := svc.Process(context.Background(), Input{SourcePath: "/videos/session.mp4", DurationSeconds: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 1 || len(result.Clips) != 1 {
		t.Errorf("expected 1 clip and 1 skip, got %v / %d", result.Clips, result.Skipped)
	}
	if result.Games[0].Start != report.Unset {
		t.Errorf("expected open game start %d, got %d", report.Unset, result.Games[0].Start)
	}
}

func TestProcess_ProbesMissingDuration(t *testing.T) {
	analyzer := &mockAnalyzer{}
	prober := &mockProber{info: video.Info{Resolution: fullHD, DurationSeconds: 3600.5}}
	svc, out, _ := newTestService(t, analyzer, prober, &mockCutter{}, WithResolution(fullHD))

	if _, err := svc.Process(context.Background(), Input{SourcePath: "/videos/session.mp4"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analyzer.duration != 3600.5 {
		t.Errorf("expected probed duration, got %v", analyzer.duration)
	}
	if !strings.Contains(out.String(), "1920x1080") {
		t.Errorf("expected resolution in output, got:\n%s", out.String())
	}
}

func TestProcess_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		prober  video.Prober
		wantMsg string
		hasHint bool
	}{
		{
			name:    "not an mp4",
			input:   Input{SourcePath: "/videos/session.mkv", DurationSeconds: 10},
			wantMsg: "not an mp4",
		},
		{
			name:    "missing source",
			input:   Input{SourcePath: "/videos/other.mp4", DurationSeconds: 10},
			wantMsg: "does not exist",
		},
		{
			name:    "no duration and no prober",
			input:   Input{SourcePath: "/videos/session.mp4"},
			wantMsg: "duration must be positive",
			hasHint: true,
		},
		{
			name:    "probe fails",
			input:   Input{SourcePath: "/videos/session.mp4"},
			prober:  &mockProber{err: errors.New("no video stream")},
			wantMsg: "could not probe",
			hasHint: true,
		},
		{
			name:    "smaller recording",
			input:   Input{SourcePath: "/videos/session.mp4", DurationSeconds: 10},
			prober:  &mockProber{info: video.Info{Resolution: video.Resolution{Width: 1280, Height: 720}, DurationSeconds: 10}},
			wantMsg: "1280x720, detection expects 1920x1080",
			hasHint: true,
		},
		{
			name:    "larger recording without duration",
			input:   Input{SourcePath: "/videos/session.mp4"},
			prober:  &mockProber{info: video.Info{Resolution: video.Resolution{Width: 2560, Height: 1440}, DurationSeconds: 10}},
			wantMsg: "wrong resolution",
			hasHint: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &mockAnalyzer{}
			svc, _, _ := newTestService(t, analyzer, tt.prober, &mockCutter{}, WithResolution(fullHD))

			_, err := svc.Process(context.Background(), tt.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(vErr.Message, tt.wantMsg) {
				t.Errorf("expected message containing %q, got %q", tt.wantMsg, vErr.Message)
			}
			if tt.hasHint != (vErr.Suggestion != "") {
				t.Errorf("unexpected suggestion %q", vErr.Suggestion)
			}
			if analyzer.path != "" {
				t.Error("analyzer should not run on invalid input")
			}
		})
	}
}

func TestProcess_ResolutionCheck(t *testing.T) {
	tests := []struct {
		name         string
		prober       *mockProber
		duration     float64
		wantDuration float64
		wantOutput   string
	}{
		{
			name:         "matching recording keeps the given duration",
			prober:       &mockProber{info: video.Info{Resolution: fullHD, DurationSeconds: 50}},
			duration:     40,
			wantDuration: 40,
			wantOutput:   "Resolution: 1920x1080",
		},
		{
			name:         "unreadable recording with a given duration continues",
			prober:       &mockProber{err: errors.New("no video stream")},
			duration:     40,
			wantDuration: 40,
			wantOutput:   "Could not probe resolution",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &mockAnalyzer{}
			svc, out, _ := newTestService(t, analyzer, tt.prober, &mockCutter{}, WithResolution(fullHD))

			if _, err := svc.Process(context.Background(), Input{SourcePath: "/videos/session.mp4", DurationSeconds: tt.duration}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if analyzer.duration != tt.wantDuration {
				t.Errorf("expected duration %v, got %v", tt.wantDuration, analyzer.duration)
			}
			if !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("expected output to mention %q, got:\n%s", tt.wantOutput, out.String())
			}
		})
	}
}

func TestProcess_AnalysisFailureShowsRecovery(t *testing.T) {
	analyzer := &mockAnalyzer{err: errors.New("boom")}
	svc, out, _ := newTestService(t, analyzer, nil, &mockCutter{})

	_, err := svc.Process(context.Background(), Input{SourcePath: "/videos/session.mp4", DurationSeconds: 10})
	if err == nil || !strings.Contains(err.Error(), "analysis failed") {
		t.Fatalf("expected analysis failure, got %v", err)
	}
	if !strings.Contains(out.String(), "ebp-replay-analyzer analyze") {
		t.Errorf("expected analyze recovery command, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "ebp-replay-analyzer cut") {
		t.Errorf("expected cut recovery command, got:\n%s", out.String())
	}
}

func TestProcess_CutFailureOnlySuggestsCut(t *testing.T) {
	analyzer := &mockAnalyzer{games: []*game.Game{closedGame(t, 1, 100, "Polaris")}}
	svc, out, dir := newTestService(t, analyzer, nil, &mockCutter{err: errors.New("ffmpeg exited")})

	_, err := svc.Process(context.Background(), Input{SourcePath: "/videos/session.mp4", DurationSeconds: 10})
	if err == nil || !strings.Contains(err.Error(), "cutting failed") {
		t.Fatalf("expected cut failure, got %v", err)
	}
	if strings.Contains(out.String(), "ebp-replay-analyzer analyze") {
		t.Errorf("analyze already succeeded, got:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "session.games.json")); err != nil {
		t.Errorf("expected game list to be kept: %v", err)
	}
}

func TestGamesFileName(t *testing.T) {
	tests := map[string]string{
		"/videos/session.mp4":            "session.games.json",
		"2025-01-01 20-00-00.mp4":        "2025-01-01 20-00-00.games.json",
		filepath.Join("a", "b.test.mp4"): "b.test.games.json",
	}
	for in, want := range tests {
		if got := gamesFileName(in); got != want {
			t.Errorf("gamesFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProgressPrinter(t *testing.T) {
	var out bytes.Buffer
	p := &progressPrinter{out: &out}
	for i := 1; i <= 25; i++ {
		p.Progress(i)
	}
	p.FastForward(2)

	got := out.String()
	if strings.Count(got, "%") != 2 {
		t.Errorf("expected two progress lines, got:\n%s", got)
	}
	if !strings.Contains(got, "Identified game 2") {
		t.Errorf("expected fast-forward line, got:\n%s", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{5, "5s"},
		{65, "1m 5s"},
		{600, "10m 0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(time.Duration(tt.seconds) * time.Second); got != tt.want {
			t.Errorf("formatDuration(%ds) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
