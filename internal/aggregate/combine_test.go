package aggregate

import (
	"standings-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func combineFixture() ([]domain.ContestConfig, map[string][]domain.PerContestRecord) {
	contests := []domain.ContestConfig{
		{Name: "Contest1"},
		{Name: "Contest2"},
	}
	tables := map[string][]domain.PerContestRecord{
		"Contest1": {
			{Handle: "alice", TotalSolved: 6},
			{Handle: "bob", TotalSolved: 4},
		},
		"Contest2": {
			{Handle: "bob", TotalSolved: 10},
			{Handle: "carol", TotalSolved: 5},
			{Handle: "alice", TotalSolved: 3},
		},
	}
	return contests, tables
}

func TestCombineTotalsAndOrdering(t *testing.T) {
	contests, tables := combineFixture()

	combined := Combine(contests, tables)
	require.Len(t, combined, 3)

	assert.Equal(t, domain.CombinedRecord{Handle: "bob", SolvedByContest: []int{4, 10}, TotalAllContests: 14}, combined[0])
	assert.Equal(t, domain.CombinedRecord{Handle: "alice", SolvedByContest: []int{6, 3}, TotalAllContests: 9}, combined[1])
	assert.Equal(t, domain.CombinedRecord{Handle: "carol", SolvedByContest: []int{0, 5}, TotalAllContests: 5}, combined[2])
}

func TestCombineIsDeterministic(t *testing.T) {
	contests, tables := combineFixture()

	first := Combine(contests, tables)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Combine(contests, tables))
	}
}

func TestCombineTieBreaksByHandle(t *testing.T) {
	contests := []domain.ContestConfig{{Name: "C"}}
	tables := map[string][]domain.PerContestRecord{
		"C": {
			{Handle: "zed", TotalSolved: 2},
			{Handle: "amy", TotalSolved: 2},
			{Handle: "mia", TotalSolved: 2},
		},
	}

	combined := Combine(contests, tables)
	require.Len(t, combined, 3)
	assert.Equal(t, "amy", combined[0].Handle)
	assert.Equal(t, "mia", combined[1].Handle)
	assert.Equal(t, "zed", combined[2].Handle)
}

func TestCombineEmptyInputs(t *testing.T) {
	t.Run("no contests", func(t *testing.T) {
		assert.Empty(t, Combine(nil, nil))
	})

	t.Run("contest with empty table", func(t *testing.T) {
		contests := []domain.ContestConfig{{Name: "C1"}, {Name: "C2"}}
		tables := map[string][]domain.PerContestRecord{
			"C1": {{Handle: "alice", TotalSolved: 1}},
		}

		combined := Combine(contests, tables)
		require.Len(t, combined, 1)
		assert.Equal(t, []int{1, 0}, combined[0].SolvedByContest)
		assert.Equal(t, 1, combined[0].TotalAllContests)
	})
}
