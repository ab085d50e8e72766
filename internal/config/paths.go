package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths, resolved to absolute form.
// This is the single source of truth for file locations in the application.
type Paths struct {
	BaseDir   string
	DataDir   string
	ImagesDir string
	LogsDir   string

	// ManifestFile is empty when no run manifest should be written.
	ManifestFile string
}

// ResolvePaths resolves the configured directories against the base
// directory. An empty base directory means the current working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", c.Paths.BaseDir, err)
	}

	paths := &Paths{
		BaseDir:   base,
		DataDir:   resolve(base, c.Paths.DataDir),
		ImagesDir: resolve(base, c.Paths.ImagesDir),
		LogsDir:   resolve(base, c.Paths.LogsDir),
	}
	if c.Paths.ManifestFile != "" {
		paths.ManifestFile = resolve(paths.ImagesDir, c.Paths.ManifestFile)
	}

	return paths, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the output directories.
// The images directory is only created when createImages is set; otherwise
// it must already exist and rendering reports an IO error.
func (p *Paths) EnsureDirectories(createImages bool) error {
	directories := []string{p.LogsDir}
	if createImages {
		directories = append(directories, p.ImagesDir)
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// DataFile returns the path of an input table
func (p *Paths) DataFile(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ValidateInputs checks that every named input table exists under DataDir.
func (p *Paths) ValidateInputs(filenames ...string) error {
	var missing []string
	for _, name := range filenames {
		if !fileExists(p.DataFile(name)) {
			missing = append(missing, p.DataFile(name))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("input tables missing: %s", strings.Join(missing, ", "))
	}

	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("images", p.ImagesDir),
			slog.String("logs", p.LogsDir),
		),
		slog.String("manifest", p.ManifestFile))
}
