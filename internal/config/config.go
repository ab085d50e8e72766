package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "surfviz/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Render    RenderConfig    `yaml:"render" envconfig:"RENDER"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PathsConfig contains file system paths configuration.
// Relative directories are resolved against BaseDir, which defaults to the
// working directory.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ImagesDir    string `yaml:"images_dir" envconfig:"IMAGES_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	ManifestFile string `yaml:"manifest_file" envconfig:"MANIFEST_FILE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// RenderConfig holds the figure geometry and camera used for every surface.
type RenderConfig struct {
	WidthInches     float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" validate:"gt=0,lte=100"`
	HeightInches    float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" validate:"gt=0,lte=100"`
	DPI             float64 `yaml:"dpi" envconfig:"DPI" validate:"gt=0,lte=2400"`
	Elevation       float64 `yaml:"elevation" envconfig:"ELEVATION" validate:"gte=-90,lte=90"`
	Azimuth         float64 `yaml:"azimuth" envconfig:"AZIMUTH" validate:"gte=-360,lte=360"`
	Colormap        string  `yaml:"colormap" envconfig:"COLORMAP" validate:"oneof=viridis cividis magma"`
	CreateOutputDir bool    `yaml:"create_output_dir" envconfig:"CREATE_OUTPUT_DIR"`
	Display         string  `yaml:"display" envconfig:"DISPLAY_MODE" validate:"oneof=auto none"`
}

// PipelineConfig controls how the load/render jobs are executed.
type PipelineConfig struct {
	DuplicatePolicy string `yaml:"duplicate_policy" envconfig:"DUPLICATE_POLICY" validate:"oneof=reject last_write_wins"`
	FailFast        bool   `yaml:"fail_fast" envconfig:"FAIL_FAST"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// maxPixels bounds a single image dimension.
const maxPixels = 20000

// Load loads configuration from defaults, the config file (if any) and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFromFile(getConfigFilePath())
}

// LoadFromFile is like Load but reads the given YAML file instead of
// searching for one. An empty path skips the file layer.
func LoadFromFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	// envconfig leaves fields untouched when a variable is unset, so it
	// layers cleanly over the file values.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate normalizes and validates the configuration
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Render.Colormap = strings.ToLower(c.Render.Colormap)
	c.Render.Display = strings.ToLower(c.Render.Display)
	c.Pipeline.DuplicatePolicy = strings.ToLower(c.Pipeline.DuplicatePolicy)

	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if w := c.Render.WidthInches * c.Render.DPI; w < 1 || w > maxPixels {
		return apperrors.NewConfigError(fmt.Sprintf("image width of %.0f px is out of range", w), nil)
	}
	if h := c.Render.HeightInches * c.Render.DPI; h < 1 || h > maxPixels {
		return apperrors.NewConfigError(fmt.Sprintf("image height of %.0f px is out of range", h), nil)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging file_path is required when output is file or both", nil)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	// Check for config file in common locations
	locations := []string{
		ConfigFileName,
		"configs/" + ConfigFileName,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:   "data",
			ImagesDir: "images",
			LogsDir:   "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/surfviz.log",
		},
		Render: RenderConfig{
			WidthInches:     6.4,
			HeightInches:    4.8,
			DPI:             500,
			Elevation:       30,
			Azimuth:         120,
			Colormap:        "viridis",
			CreateOutputDir: true,
			Display:         "auto",
		},
		Pipeline: PipelineConfig{
			DuplicatePolicy: "reject",
			FailFast:        false,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}
