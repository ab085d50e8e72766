package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "surfviz/internal/errors"
)

// SupportedExtensions lists the input table formats that can be loaded.
var SupportedExtensions = []string{".csv", ".xlsx"}

// FileValidator checks input tables before they are loaded
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewDataLoadError(fmt.Sprintf("file %s does not exist", path), err).
			WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewDataLoadError(fmt.Sprintf("failed to stat file %s", path), err).
			WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewDataLoadError(fmt.Sprintf("%s is a directory, not a file", path), nil).
			WithContext("path", path)
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewDataLoadError(fmt.Sprintf("file %s is not readable", path), err).
			WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateTableFile checks that path is a readable table in a supported
// format. Unknown extensions are read as CSV, so they only produce a
// warning; spreadsheet lock files are rejected.
func (v *FileValidator) ValidateTableFile(path string) error {
	// First validate it exists
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return apperrors.NewDataLoadError(fmt.Sprintf("file %s is a temporary Excel file", path), nil).
			WithContext("path", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return nil
		}
	}

	v.logger.Warn("Unrecognized table extension, reading as CSV",
		slog.String("file", path),
		slog.String("extension", ext))
	return nil
}
