package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/junopark00/tk-clarisse/internal/ctxlog"
	"github.com/junopark00/tk-clarisse/internal/engine"
	"github.com/junopark00/tk-clarisse/internal/host/remote"
	"github.com/junopark00/tk-clarisse/internal/hostlog"
	"github.com/junopark00/tk-clarisse/internal/pipeline"
)

// Run connects to the host bridge, starts the engine and serves host
// callbacks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	client, err := remote.Dial(ctx, remote.Options{
		URL:       a.config.BridgeURL,
		Namespace: a.config.BridgeNamespace,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to host: %w", err)
	}
	defer client.Close()
	a.logger.Info("Connected to host.", "url", a.config.BridgeURL)

	startCtx, err := a.startupContext()
	if err != nil {
		a.logger.Warn("Launch context could not be restored.", "error", err)
		startCtx = &pipeline.Context{}
	}

	// Engine output goes to the host's own log window, the place pipeline
	// users actually look at.
	hostLogger := slog.New(hostlog.NewHandler(client, a.logLevel, a.env.Debug))
	engineCtx := ctxlog.WithLogger(ctx, hostLogger)

	eng := engine.New(engine.Options{
		App:      client,
		Settings: a.settings,
		Env:      a.env,
		Resolver: pipeline.NewStaticResolver(a.settings.Projects),
		Context:  startCtx,
		LogDir:   a.config.LogDir,
		LogLevel: a.logLevel,
	})
	if err := eng.Start(engineCtx); err != nil {
		return fmt.Errorf("engine startup failed: %w", err)
	}
	defer eng.DestroyEngine(engineCtx)
	a.logger.Info("Engine started.", "menu", eng.MenuName())

	// Block serving deferred work and scene events from the host.
	client.Run(ctx)

	a.logger.Debug("App.Run method finished.")
	return nil
}

// startupContext restores the context handed over by the launcher, if any.
func (a *App) startupContext() (*pipeline.Context, error) {
	if a.env.SerializedContext == "" {
		return &pipeline.Context{}, nil
	}
	return pipeline.FromSerialized(a.env.SerializedContext)
}
