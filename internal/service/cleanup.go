package service

import (
	"context"
	"errors"
	"standings-tracker/internal/aggregate"
	"standings-tracker/internal/config"
	"standings-tracker/internal/constants"
	"standings-tracker/internal/domain"
	"standings-tracker/internal/repository"
	"standings-tracker/internal/roster"

	"github.com/rs/zerolog"
)

// CleanupService runs roster reconciliation across every configured sheet and
// records the deletion audit trail.
type CleanupService struct {
	reconciler *roster.Reconciler
	repo       *repository.ResultsRepository
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewCleanupService(reconciler *roster.Reconciler, repo *repository.ResultsRepository, cfg *config.Config, logger zerolog.Logger) *CleanupService {
	return &CleanupService{reconciler: reconciler, repo: repo, cfg: cfg, logger: logger}
}

// CleanRoster prunes each sheet against the finalized contest tables. A
// failing sheet does not stop the remaining sheets; its error is reported
// after all sheets ran, together with the row positions that were not
// confirmed deleted.
func (s *CleanupService) CleanRoster(ctx context.Context, runID string, tables map[string][]domain.PerContestRecord) (int, error) {
	counts := make(map[string]map[string]int, len(tables))
	for contestName, records := range tables {
		counts[contestName] = aggregate.Index(records)
	}

	totalDeleted := 0
	var errs []error

	for _, sheetName := range s.cfg.SheetNames {
		sheetCtx, cancel := context.WithTimeout(ctx, constants.SheetsTimeout)
		result, err := s.reconciler.Reconcile(sheetCtx, sheetName, s.cfg.Contests, counts, s.cfg.GlobalThreshold)
		cancel()
		if err != nil {
			positions := make([]int, 0, len(result.Deleted))
			for _, d := range result.Deleted {
				positions = append(positions, d.RowIndex)
			}
			s.logger.Error().Err(err).
				Str("sheet", sheetName).
				Ints("unconfirmed_rows", positions).
				Msg("sheet reconciliation failed")
			errs = append(errs, err)
			continue
		}

		if err := s.repo.SaveDeletions(ctx, runID, result.Deleted); err != nil {
			s.logger.Error().Err(err).Str("sheet", sheetName).Msg("failed to record deletions")
			errs = append(errs, err)
		}
		totalDeleted += len(result.Deleted)
	}

	s.logger.Info().Int("total_deleted", totalDeleted).Msg("roster cleanup finished")
	return totalDeleted, errors.Join(errs...)
}
