package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surfviz/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermission))
	return path
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data", cfg.Paths.DataDir)
				assert.Equal(t, "images", cfg.Paths.ImagesDir)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 6.4, cfg.Render.WidthInches)
				assert.Equal(t, 4.8, cfg.Render.HeightInches)
				assert.Equal(t, 500.0, cfg.Render.DPI)
				assert.Equal(t, 30.0, cfg.Render.Elevation)
				assert.Equal(t, 120.0, cfg.Render.Azimuth)
				assert.Equal(t, "viridis", cfg.Render.Colormap)
				assert.True(t, cfg.Render.CreateOutputDir)
				assert.Equal(t, "auto", cfg.Render.Display)
				assert.Equal(t, "reject", cfg.Pipeline.DuplicatePolicy)
				assert.False(t, cfg.Pipeline.FailFast)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "file overrides defaults",
			fileContent: `
render:
  dpi: 100
  colormap: magma
pipeline:
  duplicate_policy: last_write_wins
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 100.0, cfg.Render.DPI)
				assert.Equal(t, "magma", cfg.Render.Colormap)
				assert.Equal(t, "last_write_wins", cfg.Pipeline.DuplicatePolicy)
				// untouched keys keep their defaults
				assert.Equal(t, 30.0, cfg.Render.Elevation)
			},
		},
		{
			name: "env overrides file",
			setupEnv: func(t *testing.T) {
				t.Setenv("SURFVIZ_RENDER_DPI", "72")
				t.Setenv("SURFVIZ_RENDER_DISPLAY_MODE", "none")
				t.Setenv("SURFVIZ_PIPELINE_FAIL_FAST", "true")
			},
			fileContent: `
render:
  dpi: 100
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 72.0, cfg.Render.DPI)
				assert.Equal(t, "none", cfg.Render.Display)
				assert.True(t, cfg.Pipeline.FailFast)
			},
		},
		{
			name: "values are normalized to lower case",
			setupEnv: func(t *testing.T) {
				t.Setenv("SURFVIZ_LOGGING_LEVEL", "DEBUG")
				t.Setenv("SURFVIZ_RENDER_COLORMAP", "Cividis")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "cividis", cfg.Render.Colormap)
			},
		},
		{
			name: "invalid colormap",
			setupEnv: func(t *testing.T) {
				t.Setenv("SURFVIZ_RENDER_COLORMAP", "jet")
			},
			wantErr: true,
		},
		{
			name: "invalid duplicate policy",
			fileContent: `
pipeline:
  duplicate_policy: first_wins
`,
			wantErr: true,
		},
		{
			name: "malformed env value",
			setupEnv: func(t *testing.T) {
				t.Setenv("SURFVIZ_RENDER_DPI", "high")
			},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "render: [dpi",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

			path := ""
			if tt.fileContent != "" {
				path = writeConfigFile(t, tt.fileContent)
			}

			cfg, err := LoadFromFile(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestLoad_UsesExplicitConfigEnv(t *testing.T) {
	path := writeConfigFile(t, "render:\n  dpi: 150\n")
	t.Setenv("SURFVIZ_CONFIG", path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 150.0, cfg.Render.DPI)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "zero dpi", mutate: func(c *Config) { c.Render.DPI = 0 }, wantErr: true},
		{name: "negative width", mutate: func(c *Config) { c.Render.WidthInches = -1 }, wantErr: true},
		{name: "elevation beyond pole", mutate: func(c *Config) { c.Render.Elevation = 91 }, wantErr: true},
		{name: "image too large", mutate: func(c *Config) { c.Render.WidthInches = 50; c.Render.DPI = 1000 }, wantErr: true},
		{name: "image too small", mutate: func(c *Config) { c.Render.HeightInches = 0.001; c.Render.DPI = 10 }, wantErr: true},
		{name: "unknown display mode", mutate: func(c *Config) { c.Render.Display = "window" }, wantErr: true},
		{name: "unknown trace exporter", mutate: func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, wantErr: true},
		{name: "empty images dir", mutate: func(c *Config) { c.Paths.ImagesDir = "" }, wantErr: true},
		{name: "file output without path", mutate: func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, wantErr: true},
		{name: "text format accepted", mutate: func(c *Config) { c.Logging.Format = "TEXT" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
