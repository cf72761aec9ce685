package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"standings-tracker/internal/domain"
	"strings"

	"github.com/rs/zerolog"
)

// ErrEndOfData is returned by a PageSource when the contest has no further
// pages. It terminates aggregation normally.
var ErrEndOfData = errors.New("no more standings pages")

// PageSource produces one standings page at a time. Pages are numbered from 1.
type PageSource interface {
	NextPage(ctx context.Context, standingsURL string, page int) ([]domain.PageRow, error)
}

// Result is the finalized output of one contest aggregation. Records is
// always well-formed, even when Partial is set because the source failed
// mid-contest.
type Result struct {
	Records []domain.PerContestRecord
	Pages   int
	Partial bool
}

type Aggregator struct {
	source PageSource
	logger zerolog.Logger
}

func NewAggregator(source PageSource, logger zerolog.Logger) *Aggregator {
	return &Aggregator{source: source, logger: logger}
}

// Aggregate walks a contest's standings pages and unions each participant's
// solved problems into a single record. It stops at maxPages, at source
// exhaustion, or as soon as a page contributes no new handle and grows no
// existing solved set. Later pages of a standings table only repeat or extend
// earlier ones, so a page with no new information makes the rest redundant.
//
// A hard source failure finalizes whatever was accumulated and returns it as
// a partial result alongside the error.
func (a *Aggregator) Aggregate(ctx context.Context, contest domain.ContestConfig, maxPages int) (Result, error) {
	if maxPages < 1 {
		return Result{}, fmt.Errorf("maxPages must be at least 1, got %d", maxPages)
	}

	logger := a.logger.With().Str("contest", contest.Name).Logger()
	solved := make(map[string]map[string]struct{})

	pages := 0
	for page := 1; page <= maxPages; page++ {
		rows, err := a.source.NextPage(ctx, contest.StandingsURL, page)
		if errors.Is(err, ErrEndOfData) {
			logger.Debug().Int("page", page).Msg("source exhausted")
			break
		}
		if err != nil {
			logger.Warn().Err(err).Int("page", page).Msg("page fetch failed, keeping partial results")
			return Result{Records: finalize(solved), Pages: pages, Partial: true},
				fmt.Errorf("contest %s page %d: %w", contest.Name, page, err)
		}
		if len(rows) == 0 {
			logger.Debug().Int("page", page).Msg("empty page, stopping")
			break
		}

		pages++
		newHandles, anyNewData := mergePage(solved, rows, logger)

		logger.Info().
			Int("page", page).
			Int("new_handles", newHandles).
			Int("total_handles", len(solved)).
			Msg("page merged")

		if !anyNewData {
			logger.Info().Int("page", page).Msg("no new data, stopping")
			break
		}
	}

	return Result{Records: finalize(solved), Pages: pages}, nil
}

// mergePage unions one page into the accumulation map. It reports how many
// handles were first seen on this page and whether the page added any
// information at all (a new handle, or a grown solved set).
func mergePage(solved map[string]map[string]struct{}, rows []domain.PageRow, logger zerolog.Logger) (newHandles int, anyNewData bool) {
	for _, row := range rows {
		handle := NormalizeHandle(row.Handle)
		if handle == "" {
			logger.Debug().Str("raw_handle", row.Handle).Msg("skipping row with empty handle")
			continue
		}

		set, ok := solved[handle]
		if !ok {
			set = make(map[string]struct{}, len(row.Solved))
			solved[handle] = set
			newHandles++
			anyNewData = true
		}

		before := len(set)
		for _, problem := range row.Solved {
			set[problem] = struct{}{}
		}
		if len(set) > before {
			anyNewData = true
		}
	}
	return newHandles, anyNewData
}

// NormalizeHandle trims surrounding whitespace and one trailing "*" marker
// that the standings source appends to some handles. An empty result means
// the row is unusable.
func NormalizeHandle(raw string) string {
	handle := strings.TrimSpace(raw)
	handle = strings.TrimSuffix(handle, "*")
	return strings.TrimSpace(handle)
}

// finalize freezes the accumulation map into records ranked by solved count
// descending, ties broken by handle ascending so repeated runs order
// identically.
func finalize(solved map[string]map[string]struct{}) []domain.PerContestRecord {
	records := make([]domain.PerContestRecord, 0, len(solved))
	for handle, set := range solved {
		problems := make([]string, 0, len(set))
		for problem := range set {
			problems = append(problems, problem)
		}
		sort.Strings(problems)
		records = append(records, domain.PerContestRecord{
			Handle:      handle,
			Solved:      problems,
			TotalSolved: len(problems),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].TotalSolved != records[j].TotalSolved {
			return records[i].TotalSolved > records[j].TotalSolved
		}
		return records[i].Handle < records[j].Handle
	})
	return records
}

// Index maps a finalized record list by handle for constant-time lookups.
func Index(records []domain.PerContestRecord) map[string]int {
	counts := make(map[string]int, len(records))
	for _, record := range records {
		counts[record.Handle] = record.TotalSolved
	}
	return counts
}
