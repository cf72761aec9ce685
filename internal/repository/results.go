package repository

import (
	"context"
	"database/sql"
	"fmt"
	"standings-tracker/internal/constants"
	"standings-tracker/internal/domain"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ResultsRepository persists pipeline runs, finalized contest tables, and the
// audit trail of roster deletions.
type ResultsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewResultsRepository(sqlDB *sql.DB, logger zerolog.Logger) *ResultsRepository {
	return &ResultsRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *ResultsRepository) CreateRun(ctx context.Context, run domain.Run) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, partial) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt, run.Partial,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

func (r *ResultsRepository) FinishRun(ctx context.Context, runID string, finishedAt time.Time, partial bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, partial = ? WHERE id = ?`,
		finishedAt, partial, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}
	return nil
}

// SaveContestResults writes one contest's finalized table in batched
// transactions.
func (r *ResultsRepository) SaveContestResults(ctx context.Context, runID, contestName string, records []domain.PerContestRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i := 0; i < len(records); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(records) {
			end = len(records)
		}

		for _, record := range records[i:end] {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO contest_results (id, run_id, contest_name, handle, solved_problems, total_solved, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, runID, contestName, record.Handle,
				strings.Join(record.Solved, ","), record.TotalSolved, now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert result for %s: %w", record.Handle, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contest results: %w", err)
	}

	r.logger.Debug().
		Str("run_id", runID).
		Str("contest", contestName).
		Int("records", len(records)).
		Msg("contest results saved")
	return nil
}

// SaveDeletions records the roster rows removed during a run.
func (r *ResultsRepository) SaveDeletions(ctx context.Context, runID string, deletions []domain.RosterDeletion) error {
	if len(deletions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, deletion := range deletions {
		id := deletion.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO roster_deletions (id, run_id, sheet_name, row_index, handle, total_all, reason, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, runID, deletion.SheetName, deletion.RowIndex,
			deletion.Handle, deletion.TotalAll, deletion.Reason, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert deletion for %s: %w", deletion.Handle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletions: %w", err)
	}

	r.logger.Debug().
		Str("run_id", runID).
		Int("deletions", len(deletions)).
		Msg("roster deletions saved")
	return nil
}
