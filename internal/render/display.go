package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// Displayer shows a saved image to the user.
type Displayer interface {
	Display(ctx context.Context, path string) error
}

// NoopDisplay never shows anything.
type NoopDisplay struct{}

// Display implements Displayer.
func (NoopDisplay) Display(context.Context, string) error { return nil }

// ViewerDisplay opens images with the desktop's default viewer. Without a
// display surface it does nothing.
type ViewerDisplay struct {
	Logger *slog.Logger

	// overridable in tests
	lookupEnv func(string) (string, bool)
	goos      string
	command   func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewDisplayer returns the displayer for a configured display mode:
// "auto" selects ViewerDisplay and anything else NoopDisplay.
func NewDisplayer(mode string, logger *slog.Logger) Displayer {
	if mode == "auto" {
		return &ViewerDisplay{Logger: logger}
	}
	return NoopDisplay{}
}

// Display implements Displayer. The viewer is started and not waited for.
func (d *ViewerDisplay) Display(ctx context.Context, path string) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name, args, ok := d.viewer(path)
	if !ok {
		logger.DebugContext(ctx, "No display available, skipping image display",
			slog.String("path", path))
		return nil
	}

	command := d.command
	if command == nil {
		command = exec.CommandContext
	}
	cmd := command(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start image viewer %s: %w", name, err)
	}
	go cmd.Wait()

	logger.InfoContext(ctx, "Opened image viewer",
		slog.String("viewer", name),
		slog.String("path", path))
	return nil
}

// viewer picks the opener command for the platform, reporting false when
// the session is headless.
func (d *ViewerDisplay) viewer(path string) (string, []string, bool) {
	lookup := d.lookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	goos := d.goos
	if goos == "" {
		goos = runtime.GOOS
	}

	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, true
	case "darwin":
		if _, ssh := lookup("SSH_CONNECTION"); ssh {
			return "", nil, false
		}
		return "open", []string{path}, true
	default:
		if v, _ := lookup("DISPLAY"); v != "" {
			return "xdg-open", []string{path}, true
		}
		if v, _ := lookup("WAYLAND_DISPLAY"); v != "" {
			return "xdg-open", []string{path}, true
		}
		return "", nil, false
	}
}
