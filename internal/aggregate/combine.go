package aggregate

import (
	"sort"
	"standings-tracker/internal/domain"
)

// Combine merges the finalized tables of every configured contest into one
// ranking. Every handle that appears in any contest appears exactly once in
// the output; a handle absent from a contest counts as zero there. Records
// are ordered by total descending, ties broken by handle ascending, so the
// output is byte-identical across runs on the same input.
func Combine(contests []domain.ContestConfig, tables map[string][]domain.PerContestRecord) []domain.CombinedRecord {
	indexes := make([]map[string]int, len(contests))
	handles := make(map[string]struct{})
	for i, contest := range contests {
		indexes[i] = Index(tables[contest.Name])
		for handle := range indexes[i] {
			handles[handle] = struct{}{}
		}
	}

	combined := make([]domain.CombinedRecord, 0, len(handles))
	for handle := range handles {
		record := domain.CombinedRecord{
			Handle:          handle,
			SolvedByContest: make([]int, len(contests)),
		}
		for i := range contests {
			record.SolvedByContest[i] = indexes[i][handle]
			record.TotalAllContests += indexes[i][handle]
		}
		combined = append(combined, record)
	}

	sort.Slice(combined, func(i, j int) bool {
		if combined[i].TotalAllContests != combined[j].TotalAllContests {
			return combined[i].TotalAllContests > combined[j].TotalAllContests
		}
		return combined[i].Handle < combined[j].Handle
	})
	return combined
}
