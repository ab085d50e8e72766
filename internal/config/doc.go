// Package config provides centralized configuration management for surfviz.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (surfviz.yaml, configs/surfviz.yaml or $SURFVIZ_CONFIG)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SURFVIZ_<SECTION>_<FIELD>:
//
//	SURFVIZ_PATHS_DATA_DIR=data
//	SURFVIZ_RENDER_DPI=300
//	SURFVIZ_RENDER_DISPLAY_MODE=none
//	SURFVIZ_PIPELINE_DUPLICATE_POLICY=last_write_wins
//	SURFVIZ_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/surfviz.prom
//
// # Path Management
//
// Paths are resolved against a base directory (the working directory unless
// SURFVIZ_PATHS_BASE_DIR is set):
//
//	paths, err := cfg.ResolvePaths()
//	input := paths.DataFile(config.PriceSurfaceFile)
//	if err := paths.ValidateInputs(config.PriceSurfaceFile, config.DeltaSurfaceFile); err != nil {
//	    logger.Warn("Input tables missing", slog.String("error", err.Error()))
//	}
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
