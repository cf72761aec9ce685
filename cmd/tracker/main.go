package main

import (
	"context"
	"database/sql"

	fxmodules "standings-tracker/internal/fx"
	"standings-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runPipeline),
	).Run()
}

// runPipeline executes one tracker run and shuts the app down when it
// finishes. The fx lifecycle still owns resource teardown.
func runPipeline(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	tracker *service.Tracker,
	db *sql.DB,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				exitCode := 0
				if err := tracker.Run(context.Background()); err != nil {
					logger.Error().Err(err).Msg("run failed")
					exitCode = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
					logger.Error().Err(err).Msg("shutdown failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("tracker stopped")
			return nil
		},
	})
}
