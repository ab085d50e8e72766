package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surfviz/internal/config"
	apperrors "surfviz/internal/errors"
)

func TestEnsureDir(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		create  bool
		wantErr bool
	}{
		{
			name:  "existing directory",
			setup: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name:   "missing directory is created",
			setup:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "images", "nested") },
			create: true,
		},
		{
			name:    "missing directory without create",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "images") },
			wantErr: true,
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "images")
				require.NoError(t, os.WriteFile(path, nil, 0o644))
				return path
			},
			create:  true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)

			err := EnsureDir(dir, tt.create)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))
				return
			}

			require.NoError(t, err)
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "option_price_surface.png")

	require.NoError(t, WriteFile(path, []byte("first")))
	require.NoError(t, WriteFile(path, []byte("second")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermission, int(info.Mode().Perm()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should remain")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "delta_surface.png")

	err := WriteFile(path, []byte("data"))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, path, appErr.Context["path"])
}
