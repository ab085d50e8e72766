package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"surfviz/internal/config"
	apperrors "surfviz/internal/errors"
)

// EnsureDir checks that dir exists and is a directory. When create is set a
// missing directory is created together with its parents.
func EnsureDir(dir string, create bool) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return apperrors.NewIOError(fmt.Sprintf("%s is not a directory", dir), nil).
			WithContext("path", dir)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return apperrors.NewIOError("failed to stat output directory", err).
			WithContext("path", dir)
	case !create:
		return apperrors.NewIOError(fmt.Sprintf("output directory %s does not exist", dir), err).
			WithContext("path", dir)
	}

	slog.Debug("Creating directory",
		slog.String("path", dir))

	if err := os.MkdirAll(dir, config.DirPermission); err != nil {
		return apperrors.NewIOError("failed to create output directory", err).
			WithContext("path", dir)
	}
	return nil
}

// WriteFile replaces path with data. The data is written to a temporary
// file in the same directory and renamed into place.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	slog.Debug("Writing file",
		slog.String("path", path),
		slog.Int("size_bytes", len(data)))

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewIOError("failed to create file", err).
			WithContext("path", path)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error, msg string) error {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewIOError(msg, cause).WithContext("path", path)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err, "failed to write file")
	}
	// Sync to ensure write is complete
	if err := tmp.Sync(); err != nil {
		return cleanup(err, "failed to sync file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewIOError("failed to close file", err).WithContext("path", path)
	}
	if err := os.Chmod(tmpName, config.FilePermission); err != nil {
		os.Remove(tmpName)
		return apperrors.NewIOError("failed to set file mode", err).WithContext("path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewIOError("failed to replace file", err).WithContext("path", path)
	}

	return nil
}
