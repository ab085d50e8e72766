package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"surfviz/internal/config"
	"surfviz/internal/infrastructure"
	"surfviz/internal/operations"
	"surfviz/internal/render"
)

// dotenvFile is loaded before the configuration when present.
const dotenvFile = ".env"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, "", dotenvFile); err != nil {
		fmt.Fprintf(os.Stderr, "surfaces: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run renders the option price and delta surfaces once. An empty
// configFile falls back to SURFVIZ_CONFIG and the default locations.
func run(ctx context.Context, configFile, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return err
	}
	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.BaseDir, cfg.Logging.FilePath)
	}
	if err := paths.EnsureDirectories(cfg.Render.CreateOutputDir); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting surface rendering",
		slog.String("version", config.AppVersion),
		slog.String("colormap", cfg.Render.Colormap),
		slog.Float64("dpi", cfg.Render.DPI),
		slog.String("duplicate_policy", cfg.Pipeline.DuplicatePolicy))
	paths.LogPathResolution(logger)

	// jobs still run one by one; a missing table only fails its own job
	if err := paths.ValidateInputs(config.PriceSurfaceFile, config.DeltaSurfaceFile); err != nil {
		logger.Warn("Input tables missing", slog.String("error", err.Error()))
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	renderer, err := render.NewRenderer(render.OptionsFromConfig(cfg.Render), logger)
	if err != nil {
		return err
	}
	defer renderer.Close()

	opts, err := operations.OptionsFromConfig(cfg, paths)
	if err != nil {
		return err
	}
	opts.Displayer = render.NewDisplayer(cfg.Render.Display, logger)
	opts.Providers = providers
	opts.Logger = logger

	pipeline, err := operations.NewPipeline(renderer, opts)
	if err != nil {
		return err
	}

	manifest, runErr := pipeline.Run(ctx, operations.DefaultJobs(paths))

	if manifest != nil && paths.ManifestFile != "" {
		if err := manifest.SaveToFile(paths.ManifestFile); err != nil {
			logger.Error("Failed to save run manifest",
				slog.String("path", paths.ManifestFile),
				slog.String("error", err.Error()))
		}
	}

	if metricsFile := cfg.Telemetry.MetricsFile; metricsFile != "" {
		if !filepath.IsAbs(metricsFile) {
			metricsFile = filepath.Join(paths.BaseDir, metricsFile)
		}
		if err := providers.WriteMetricsFile(metricsFile); err != nil {
			logger.Error("Failed to write metrics file", slog.String("error", err.Error()))
		}
	}

	return runErr
}
