package roster

import (
	"context"
	"errors"
	"standings-tracker/internal/domain"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows      [][]string
	readErr   error
	deleteErr error

	deletedRows []int
	deleteCalls int
}

func (f *fakeStore) ReadRows(context.Context, string) ([][]string, error) {
	return f.rows, f.readErr
}

func (f *fakeStore) DeleteRows(_ context.Context, _ string, rows []int) error {
	f.deleteCalls++
	f.deletedRows = rows
	return f.deleteErr
}

func intPtr(v int) *int { return &v }

func rosterFixture() ([]domain.ContestConfig, map[string]map[string]int) {
	contests := []domain.ContestConfig{
		{Name: "Contest1", Threshold: intPtr(5)},
		{Name: "Contest2"},
	}
	counts := map[string]map[string]int{
		"Contest1": {"alice": 6, "bob": 4},
		"Contest2": {"alice": 3, "bob": 10, "carol": 5},
	}
	return contests, counts
}

func sheetRows() [][]string {
	return [][]string{
		{"Roster"},                     // header
		{"", "", "Handle"},             // header
		{"#", "Name", "CF Handle"},     // header
		{"1", "Alice A.", "alice"},     // row 3: keeps
		{"2", "Bob B.", "bob"},         // row 4: fails Contest1 gate
		{"3", "Carol C.", "carol"},     // row 5: below global threshold
		{"4", "Empty E.", "   "},       // row 6: blank handle, skipped
		{"5"},                          // row 7: short row, skipped
		{"6", "Nobody N.", "nobody"},   // row 8: zero everywhere
	}
}

func TestReconcileDeletesFailingRows(t *testing.T) {
	contests, counts := rosterFixture()
	store := &fakeStore{rows: sheetRows()}
	reconciler := NewReconciler(store, zerolog.Nop())

	result, err := reconciler.Reconcile(context.Background(), "Sheet1", contests, counts, 8)
	require.NoError(t, err)

	require.Len(t, result.Deleted, 3)
	assert.Equal(t, "bob", result.Deleted[0].Handle)
	assert.Equal(t, "carol", result.Deleted[1].Handle)
	assert.Equal(t, "nobody", result.Deleted[2].Handle)

	assert.Equal(t, 1, store.deleteCalls, "deletions go out as one batch")
	assert.Equal(t, []int{8, 5, 4}, store.deletedRows,
		"positions must be deleted bottom-up so indexes do not shift")
}

func TestReconcileHeaderRowsAreNeverEvaluated(t *testing.T) {
	contests, counts := rosterFixture()
	// Header rows contain text that would fail every threshold.
	store := &fakeStore{rows: [][]string{
		{"x", "y", "not-a-participant"},
		{"x", "y", "also-not"},
		{"x", "y", "still-not"},
		{"1", "Alice A.", "alice"},
	}}
	reconciler := NewReconciler(store, zerolog.Nop())

	result, err := reconciler.Reconcile(context.Background(), "Sheet1", contests, counts, 8)
	require.NoError(t, err)
	assert.Empty(t, result.Deleted)
	assert.Zero(t, store.deleteCalls)
}

func TestReconcileEmptySheet(t *testing.T) {
	cases := []struct {
		name string
		rows [][]string
	}{
		{"no rows", nil},
		{"headers only", [][]string{{"a"}, {"b"}, {"c"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			contests, counts := rosterFixture()
			store := &fakeStore{rows: tc.rows}
			reconciler := NewReconciler(store, zerolog.Nop())

			result, err := reconciler.Reconcile(context.Background(), "Sheet1", contests, counts, 8)
			require.NoError(t, err)
			assert.Empty(t, result.Deleted)
		})
	}
}

func TestReconcileReadFailure(t *testing.T) {
	contests, counts := rosterFixture()
	store := &fakeStore{readErr: errors.New("permission denied")}
	reconciler := NewReconciler(store, zerolog.Nop())

	_, err := reconciler.Reconcile(context.Background(), "Sheet1", contests, counts, 8)
	require.Error(t, err)
	assert.ErrorContains(t, err, "Sheet1")
}

func TestReconcileDeleteFailureReportsPendingRows(t *testing.T) {
	contests, counts := rosterFixture()
	store := &fakeStore{rows: sheetRows(), deleteErr: errors.New("store rejected")}
	reconciler := NewReconciler(store, zerolog.Nop())

	result, err := reconciler.Reconcile(context.Background(), "Sheet1", contests, counts, 8)
	require.Error(t, err)

	// The caller still learns exactly which rows were due for deletion.
	require.Len(t, result.Deleted, 3)
	assert.Equal(t, 4, result.Deleted[0].RowIndex)
	assert.Equal(t, 5, result.Deleted[1].RowIndex)
	assert.Equal(t, 8, result.Deleted[2].RowIndex)
}

func TestDescendingUnique(t *testing.T) {
	cases := []struct {
		name string
		in   []int
		want []int
	}{
		{"already sorted", []int{9, 5, 3}, []int{9, 5, 3}},
		{"ascending input", []int{3, 5, 9}, []int{9, 5, 3}},
		{"duplicates", []int{3, 1, 3, 7, 1}, []int{7, 3, 1}},
		{"empty", nil, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DescendingUnique(tc.in))
		})
	}
}
