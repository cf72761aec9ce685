package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SPREADSHEET_ID", "sheet-id")
	t.Setenv("SHEET_NAMES", "Roster A, Roster B")
	t.Setenv("CONTESTS", "Contest1|https://codeforces.com/api/contest.standings?contestId=1;Contest2|https://codeforces.com/api/contest.standings?contestId=2|5")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "sheet-id", cfg.SpreadsheetID)
	assert.Equal(t, []string{"Roster A", "Roster B"}, cfg.SheetNames)
	assert.Equal(t, 8, cfg.GlobalThreshold)
	assert.Equal(t, 100, cfg.MaxPages)
	assert.True(t, cfg.RunScraper)
	assert.Equal(t, "combined_results.csv", cfg.CombinedCSV)

	require.Len(t, cfg.Contests, 2)
	assert.Equal(t, "Contest1", cfg.Contests[0].Name)
	assert.Nil(t, cfg.Contests[0].Threshold)
	require.NotNil(t, cfg.Contests[1].Threshold)
	assert.Equal(t, 5, *cfg.Contests[1].Threshold)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GLOBAL_THRESHOLD", "12")
	t.Setenv("MAX_PAGES", "3")
	t.Setenv("RUN_SCRAPER", "false")
	t.Setenv("COMBINED_CSV", "out.csv")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.GlobalThreshold)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.False(t, cfg.RunScraper)
	assert.Equal(t, "out.csv", cfg.CombinedCSV)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(t *testing.T)
		wantErr string
	}{
		{
			name:    "missing spreadsheet id",
			mutate:  func(t *testing.T) { t.Setenv("SPREADSHEET_ID", "") },
			wantErr: "SPREADSHEET_ID",
		},
		{
			name:    "missing sheets",
			mutate:  func(t *testing.T) { t.Setenv("SHEET_NAMES", " , ") },
			wantErr: "SHEET_NAMES",
		},
		{
			name:    "no contests",
			mutate:  func(t *testing.T) { t.Setenv("CONTESTS", "") },
			wantErr: "no contests configured",
		},
		{
			name:    "malformed contest entry",
			mutate:  func(t *testing.T) { t.Setenv("CONTESTS", "OnlyAName") },
			wantErr: "malformed contest entry",
		},
		{
			name:    "malformed threshold",
			mutate:  func(t *testing.T) { t.Setenv("CONTESTS", "C1|https://example.com|five") },
			wantErr: "malformed threshold",
		},
		{
			name:    "duplicate contest names",
			mutate:  func(t *testing.T) { t.Setenv("CONTESTS", "C1|https://a;C1|https://b") },
			wantErr: "duplicate contest name",
		},
		{
			name:    "bad global threshold",
			mutate:  func(t *testing.T) { t.Setenv("GLOBAL_THRESHOLD", "many") },
			wantErr: "GLOBAL_THRESHOLD",
		},
		{
			name:    "max pages below one",
			mutate:  func(t *testing.T) { t.Setenv("MAX_PAGES", "0") },
			wantErr: "MAX_PAGES",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			tc.mutate(t)

			_, err := Load(zerolog.Nop())
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestParseContestsThresholdZero(t *testing.T) {
	contests, err := parseContests("C1|https://example.com|0")
	require.NoError(t, err)
	require.Len(t, contests, 1)
	require.NotNil(t, contests[0].Threshold)
	assert.Equal(t, 0, *contests[0].Threshold, "zero is a real threshold, not absence")
}
