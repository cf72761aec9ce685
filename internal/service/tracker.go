package service

import (
	"context"
	"fmt"
	"standings-tracker/internal/aggregate"
	"standings-tracker/internal/config"
	"standings-tracker/internal/constants"
	"standings-tracker/internal/domain"
	"standings-tracker/internal/export"
	"standings-tracker/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tracker drives one full pipeline run: aggregate (or load) every contest,
// prune the roster sheets, then export the combined ranking.
type Tracker struct {
	standings *StandingsService
	cleanup   *CleanupService
	repo      *repository.ResultsRepository
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewTracker(standings *StandingsService, cleanup *CleanupService, repo *repository.ResultsRepository, cfg *config.Config, logger zerolog.Logger) *Tracker {
	return &Tracker{standings: standings, cleanup: cleanup, repo: repo, cfg: cfg, logger: logger}
}

func (t *Tracker) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.PipelineTimeout)
	defer cancel()

	run := domain.Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}
	logger := t.logger.With().Str("run_id", run.ID).Logger()

	t.logSummary(logger)

	if err := t.repo.CreateRun(ctx, run); err != nil {
		return err
	}

	var tables map[string][]domain.PerContestRecord
	var partial bool
	var err error
	if t.cfg.RunScraper {
		tables, partial, err = t.standings.ScrapeAll(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("standings aggregation failed: %w", err)
		}
	} else {
		tables, err = t.standings.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load standings CSVs: %w", err)
		}
	}

	deleted, cleanErr := t.cleanup.CleanRoster(ctx, run.ID, tables)

	combined := aggregate.Combine(t.cfg.Contests, tables)
	if err := export.WriteCombinedCSV(t.cfg.CombinedCSV, t.cfg.Contests, combined); err != nil {
		return err
	}
	logger.Info().
		Str("path", t.cfg.CombinedCSV).
		Int("participants", len(combined)).
		Msg("combined results exported")

	if err := t.repo.FinishRun(ctx, run.ID, time.Now(), partial); err != nil {
		logger.Warn().Err(err).Msg("failed to mark run finished")
	}

	if cleanErr != nil {
		return fmt.Errorf("roster cleanup incomplete: %w", cleanErr)
	}

	logger.Info().
		Int("rows_deleted", deleted).
		Bool("partial", partial).
		Msg("automation complete")
	return nil
}

func (t *Tracker) logSummary(logger zerolog.Logger) {
	for _, contest := range t.cfg.Contests {
		event := logger.Info().Str("contest", contest.Name)
		if contest.Threshold != nil {
			event.Int("individual_threshold", *contest.Threshold).Msg("contest configured")
		} else {
			event.Msg("contest configured, no individual threshold")
		}
	}
	logger.Info().
		Int("global_threshold", t.cfg.GlobalThreshold).
		Int("contests", len(t.cfg.Contests)).
		Msg("starting multi-contest run")
}
