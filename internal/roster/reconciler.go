// Package roster prunes tracked participants that fall below the configured
// performance thresholds. The roster itself lives in an external store; this
// package only decides which row positions go and issues one batched delete.
package roster

import (
	"context"
	"fmt"
	"sort"
	"standings-tracker/internal/constants"
	"standings-tracker/internal/domain"
	"standings-tracker/internal/eligibility"
	"strings"

	"github.com/rs/zerolog"
)

// Store is the external roster holding participant rows. Row positions are
// zero-based and include header rows.
type Store interface {
	ReadRows(ctx context.Context, sheetName string) ([][]string, error)
	DeleteRows(ctx context.Context, sheetName string, rows []int) error
}

type Reconciler struct {
	store  Store
	logger zerolog.Logger
}

func NewReconciler(store Store, logger zerolog.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// SheetResult summarizes one sheet's reconciliation.
type SheetResult struct {
	SheetName string
	Deleted   []domain.RosterDeletion
}

// Reconcile walks one sheet's rows, evaluates each handle against the contest
// tables, and deletes every failing row in a single batch. When the delete
// itself fails, the returned result still lists the rows that were due so the
// caller can report exactly what was not confirmed deleted.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	sheetName string,
	contests []domain.ContestConfig,
	counts map[string]map[string]int,
	globalThreshold int,
) (SheetResult, error) {
	result := SheetResult{SheetName: sheetName}

	rows, err := r.store.ReadRows(ctx, sheetName)
	if err != nil {
		return result, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}
	if len(rows) <= constants.RosterHeaderRows {
		r.logger.Warn().Str("sheet", sheetName).Msg("no data rows")
		return result, nil
	}

	for rowIdx := constants.RosterHeaderRows; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if len(row) <= constants.RosterHandleColumn {
			continue
		}
		handle := strings.TrimSpace(row[constants.RosterHandleColumn])
		if handle == "" {
			continue
		}

		decision := eligibility.Evaluate(handle, contests, counts, globalThreshold)
		if !decision.Delete {
			continue
		}

		r.logger.Debug().
			Str("sheet", sheetName).
			Str("handle", handle).
			Int("row", rowIdx).
			Int("total", decision.TotalAllContests).
			Msg("row marked for deletion")

		result.Deleted = append(result.Deleted, domain.RosterDeletion{
			SheetName: sheetName,
			RowIndex:  rowIdx,
			Handle:    handle,
			TotalAll:  decision.TotalAllContests,
			Reason:    deletionReason(decision, globalThreshold),
		})
	}

	if len(result.Deleted) == 0 {
		r.logger.Info().Str("sheet", sheetName).Msg("no rows to delete")
		return result, nil
	}

	positions := make([]int, len(result.Deleted))
	for i, d := range result.Deleted {
		positions[i] = d.RowIndex
	}

	if err := r.store.DeleteRows(ctx, sheetName, DescendingUnique(positions)); err != nil {
		return result, fmt.Errorf("delete %d rows from sheet %s: %w", len(positions), sheetName, err)
	}

	r.logger.Info().
		Str("sheet", sheetName).
		Int("deleted", len(result.Deleted)).
		Msg("sheet reconciled")
	return result, nil
}

// deletionReason names the first rule that condemned the row.
func deletionReason(decision domain.EligibilityDecision, globalThreshold int) string {
	if len(decision.FailedThresholds) > 0 {
		failed := decision.FailedThresholds[0]
		return fmt.Sprintf("%s solved %d below threshold %d", failed.Contest, failed.TotalSolved, failed.Threshold)
	}
	return fmt.Sprintf("total %d below global threshold %d", decision.TotalAllContests, globalThreshold)
}

// DescendingUnique de-duplicates row positions and orders them high to low,
// so deleting one row never shifts a position that is still pending.
func DescendingUnique(positions []int) []int {
	seen := make(map[int]struct{}, len(positions))
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
