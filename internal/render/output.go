package render

import (
	"path/filepath"
	"strings"

	"surfviz/internal/config"
	apperrors "surfviz/internal/errors"
	"surfviz/internal/files"
)

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")

// FilenameFor derives the image file name from a plot title: lower case,
// spaces replaced by underscores, .png appended.
func FilenameFor(title string) string {
	return filenameReplacer.Replace(strings.ToLower(title)) + config.ImageExtension
}

// Save writes img into dir and returns the full path. A missing directory
// is created when createDir is set and reported as an IO error otherwise.
func Save(img *Image, dir string, createDir bool) (string, error) {
	if img == nil || len(img.PNG) == 0 {
		return "", apperrors.NewIOError("nothing to save", nil)
	}
	if dir == "" {
		dir = "."
	}

	if err := files.EnsureDir(dir, createDir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, img.Filename)
	if err := files.WriteFile(path, img.PNG); err != nil {
		return "", err
	}
	return path, nil
}
