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
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StandingsService produces the finalized per-contest tables, either by
// aggregating live standings pages or by re-loading previously exported CSVs.
type StandingsService struct {
	aggregator *aggregate.Aggregator
	repo       *repository.ResultsRepository
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewStandingsService(aggregator *aggregate.Aggregator, repo *repository.ResultsRepository, cfg *config.Config, logger zerolog.Logger) *StandingsService {
	return &StandingsService{aggregator: aggregator, repo: repo, cfg: cfg, logger: logger}
}

// ScrapeAll aggregates every configured contest. Contests are independent, so
// they run concurrently; each result is persisted and exported as it
// finalizes. A contest whose source fails mid-way keeps its accumulated
// records and marks the whole run partial instead of aborting it.
func (s *StandingsService) ScrapeAll(ctx context.Context, runID string) (map[string][]domain.PerContestRecord, bool, error) {
	tables := make(map[string][]domain.PerContestRecord, len(s.cfg.Contests))
	partial := false

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)

	for _, contest := range s.cfg.Contests {
		contest := contest
		g.Go(func() error {
			result, err := s.aggregator.Aggregate(gCtx, contest, s.cfg.MaxPages)
			if err != nil {
				s.logger.Warn().Err(err).
					Str("contest", contest.Name).
					Int("records", len(result.Records)).
					Msg("contest aggregation incomplete, keeping partial table")
			}

			s.logger.Info().
				Str("contest", contest.Name).
				Int("participants", len(result.Records)).
				Int("pages", result.Pages).
				Bool("partial", result.Partial).
				Msg("contest aggregated")

			mu.Lock()
			tables[contest.Name] = result.Records
			partial = partial || result.Partial
			mu.Unlock()

			dbCtx, cancel := context.WithTimeout(gCtx, constants.DatabaseTimeout)
			defer cancel()
			if err := s.repo.SaveContestResults(dbCtx, runID, contest.Name, result.Records); err != nil {
				return err
			}
			if err := export.WriteContestCSV(export.ContestCSVPath(contest.Name), result.Records); err != nil {
				return fmt.Errorf("failed to export contest %s: %w", contest.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return tables, partial, err
	}
	return tables, partial, nil
}

// LoadAll reads previously exported standings CSVs instead of scraping. A
// missing file is fatal since the tables feed the roster cleanup.
func (s *StandingsService) LoadAll(ctx context.Context) (map[string][]domain.PerContestRecord, error) {
	tables := make(map[string][]domain.PerContestRecord, len(s.cfg.Contests))

	for _, contest := range s.cfg.Contests {
		path := export.ContestCSVPath(contest.Name)
		records, err := export.LoadContestCSV(path)
		if err != nil {
			return nil, fmt.Errorf("set RUN_SCRAPER=true or provide %s: %w", path, err)
		}

		s.logger.Info().
			Str("contest", contest.Name).
			Str("path", path).
			Int("participants", len(records)).
			Msg("loaded existing standings CSV")
		tables[contest.Name] = records
	}
	return tables, nil
}
