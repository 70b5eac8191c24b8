package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/junopark00/tk-clarisse/internal/config"
	"github.com/junopark00/tk-clarisse/internal/ctxlog"
)

// App encapsulates the integration's dependencies, configuration and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	logLevel *slog.LevelVar
	config   *Config
	settings *config.Settings
	env      *config.Env
}

// NewApp is the constructor for the integration. It returns a fully
// initialized App instance with its own isolated logger and the settings
// file already loaded.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger, level := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	envCfg, err := config.ParseEnv()
	if err != nil {
		// A malformed environment is a fatal startup error.
		panic(fmt.Errorf("failed to read environment: %w", err))
	}
	if envCfg.Debug {
		level.Set(slog.LevelDebug)
		logger.Debug("Debug logging enabled via environment.")
	}

	settings, err := loader.Load(ctx, appConfig.SettingsPath)
	if err != nil {
		panic(fmt.Errorf("failed to load settings: %w", err))
	}
	logger.Debug("Settings loaded.", "path", appConfig.SettingsPath)

	return &App{
		outW:     outW,
		logger:   logger,
		logLevel: level,
		config:   appConfig,
		settings: settings,
		env:      envCfg,
	}
}

// Settings returns the loaded engine settings. This is primarily for testing.
func (a *App) Settings() *config.Settings {
	return a.settings
}
