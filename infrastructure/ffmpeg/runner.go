package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// CombinedOutput executes a command and returns stdout and stderr together.
// ffmpeg prints stream information on stderr.
func (r *ExecCommandRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Option is a functional option shared by the ffmpeg adapters
type Option func(*base)

// base holds what every ffmpeg adapter needs
type base struct {
	ffmpegPath string
	runner     CommandRunner
}

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) Option {
	return func(b *base) {
		if path != "" {
			b.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(b *base) {
		b.runner = runner
	}
}

func newBase(opts []Option) base {
	b := base{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// VerifyInstalled checks that ffmpeg is available
func (b *base) VerifyInstalled(ctx context.Context) error {
	_, err := b.runner.Output(ctx, b.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}
