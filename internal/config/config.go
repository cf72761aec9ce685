package config

import (
	"fmt"
	"os"
	"standings-tracker/internal/constants"
	"standings-tracker/internal/domain"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	SpreadsheetID   string
	SheetNames      []string
	CredentialsFile string

	Contests        []domain.ContestConfig
	GlobalThreshold int
	MaxPages        int

	RunScraper  bool
	CombinedCSV string
	DBPath      string
	LogLevel    string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		SheetNames:      splitList(getEnv("SHEET_NAMES", "")),
		CredentialsFile: getEnv("CREDENTIALS_FILE", "credentials.json"),
		RunScraper:      strings.EqualFold(getEnv("RUN_SCRAPER", "true"), "true"),
		CombinedCSV:     getEnv("COMBINED_CSV", "combined_results.csv"),
		DBPath:          getEnv("DB_PATH", "tracker.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.GlobalThreshold, err = parseIntEnv("GLOBAL_THRESHOLD", constants.DefaultGlobalThreshold); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = parseIntEnv("MAX_PAGES", constants.DefaultMaxPages); err != nil {
		return nil, err
	}
	if cfg.Contests, err = parseContests(getEnv("CONTESTS", "")); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("contests", len(cfg.Contests)).
		Int("global_threshold", cfg.GlobalThreshold).
		Int("max_pages", cfg.MaxPages).
		Bool("run_scraper", cfg.RunScraper).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Strs("sheets", cfg.SheetNames).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is required")
	}
	if len(c.SheetNames) == 0 {
		return fmt.Errorf("SHEET_NAMES is required")
	}
	if len(c.Contests) == 0 {
		return fmt.Errorf("no contests configured, set CONTESTS")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES must be at least 1, got %d", c.MaxPages)
	}

	seen := make(map[string]struct{}, len(c.Contests))
	for _, contest := range c.Contests {
		if _, ok := seen[contest.Name]; ok {
			return fmt.Errorf("duplicate contest name %q", contest.Name)
		}
		seen[contest.Name] = struct{}{}
	}
	return nil
}

// parseContests parses the CONTESTS variable. Each entry is
// "name|standings_url" or "name|standings_url|threshold", entries are
// separated by semicolons.
func parseContests(raw string) ([]domain.ContestConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var contests []domain.ContestConfig
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, "|")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("malformed contest entry %q, want name|url or name|url|threshold", entry)
		}

		contest := domain.ContestConfig{
			Name:         strings.TrimSpace(parts[0]),
			StandingsURL: strings.TrimSpace(parts[1]),
		}
		if contest.Name == "" || contest.StandingsURL == "" {
			return nil, fmt.Errorf("malformed contest entry %q, empty name or url", entry)
		}

		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			threshold, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil {
				return nil, fmt.Errorf("malformed threshold in contest entry %q: %w", entry, err)
			}
			contest.Threshold = &threshold
		}

		contests = append(contests, contest)
	}
	return contests, nil
}

func parseIntEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
