package fx

import (
	"standings-tracker/internal/aggregate"
	"standings-tracker/internal/api"
	"standings-tracker/internal/config"
	"standings-tracker/internal/database"
	"standings-tracker/internal/logger"
	"standings-tracker/internal/repository"
	"standings-tracker/internal/roster"
	"standings-tracker/internal/service"
	"standings-tracker/internal/sheets"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewResultsRepository),
	// page source + roster store
	fx.Provide(fx.Annotate(api.NewCodeforcesClient, fx.As(new(aggregate.PageSource)))),
	fx.Provide(fx.Annotate(sheets.NewStore, fx.As(new(roster.Store)))),
	// core engines
	fx.Provide(aggregate.NewAggregator),
	fx.Provide(roster.NewReconciler),
	// svc
	fx.Provide(service.NewStandingsService),
	fx.Provide(service.NewCleanupService),
	fx.Provide(service.NewTracker),
)
