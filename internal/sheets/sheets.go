// Package sheets backs the roster store with a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"standings-tracker/internal/config"
	"standings-tracker/internal/constants"
	"standings-tracker/internal/roster"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

type Store struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        zerolog.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64
}

func NewStore(cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	service, err := sheetsapi.NewService(context.Background(),
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Store{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

var _ roster.Store = (*Store)(nil)

func (s *Store) ReadRows(ctx context.Context, sheetName string) ([][]string, error) {
	readRange := fmt.Sprintf("%s!%s", sheetName, constants.RosterReadRange)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}

	s.logger.Debug().Str("sheet", sheetName).Int("rows", len(rows)).Msg("sheet rows read")
	return rows, nil
}

// DeleteRows removes the given zero-based row positions in one batch update.
// Callers pass positions already de-duplicated and sorted descending; the
// requests are applied in that order so earlier deletes cannot shift rows a
// later request still points at.
func (s *Store) DeleteRows(ctx context.Context, sheetName string, rows []int) error {
	if len(rows) == 0 {
		return nil
	}

	sheetID, err := s.sheetID(ctx, sheetName)
	if err != nil {
		return err
	}

	requests := make([]*sheetsapi.Request, 0, len(rows))
	for _, rowIndex := range rows {
		requests = append(requests, &sheetsapi.Request{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex) + 1,
				},
			},
		})
	}

	_, err = s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete %d rows from sheet %s: %w", len(rows), sheetName, err)
	}

	s.logger.Info().Str("sheet", sheetName).Int("rows", len(rows)).Msg("rows deleted")
	return nil
}

func (s *Store) sheetID(ctx context.Context, sheetName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.sheetIDs[sheetName]; ok {
		return id, nil
	}

	metadata, err := s.service.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to load spreadsheet metadata: %w", err)
	}

	s.sheetIDs = make(map[string]int64, len(metadata.Sheets))
	for _, sheet := range metadata.Sheets {
		if sheet.Properties != nil {
			s.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}

	id, ok := s.sheetIDs[sheetName]
	if !ok {
		return 0, fmt.Errorf("sheet %q not found in spreadsheet", sheetName)
	}
	return id, nil
}
