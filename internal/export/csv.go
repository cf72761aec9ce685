// Package export reads and writes the tracker's CSV surfaces: one standings
// file per contest and one combined file across all contests. Files are
// written with a UTF-8 BOM so spreadsheet tools open them cleanly.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"standings-tracker/internal/domain"
	"strconv"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ContestCSVPath names the standings file for one contest.
func ContestCSVPath(contestName string) string {
	return contestName + "_standings.csv"
}

// WriteContestCSV writes a finalized contest table in record order.
func WriteContestCSV(path string, records []domain.PerContestRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"Handle", "Solved_Problems", "Total_Solved"})
	for _, record := range records {
		rows = append(rows, []string{
			record.Handle,
			strings.Join(record.Solved, ","),
			strconv.Itoa(record.TotalSolved),
		})
	}
	return writeCSV(path, rows)
}

// WriteCombinedCSV writes the cross-contest ranking. Per-contest columns
// follow configuration order.
func WriteCombinedCSV(path string, contests []domain.ContestConfig, combined []domain.CombinedRecord) error {
	header := make([]string, 0, len(contests)+2)
	header = append(header, "Handle")
	for _, contest := range contests {
		header = append(header, contest.Name+"_Solved")
	}
	header = append(header, "Total_All_Contests")

	rows := make([][]string, 0, len(combined)+1)
	rows = append(rows, header)
	for _, record := range combined {
		row := make([]string, 0, len(header))
		row = append(row, record.Handle)
		for _, solved := range record.SolvedByContest {
			row = append(row, strconv.Itoa(solved))
		}
		row = append(row, strconv.Itoa(record.TotalAllContests))
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// LoadContestCSV reads a previously exported standings file back into
// records, for runs that skip scraping.
func LoadContestCSV(path string) ([]domain.PerContestRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]domain.PerContestRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}

		handle := strings.TrimSpace(row[0])
		if handle == "" {
			continue
		}

		total, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("bad Total_Solved for %s in %s: %w", handle, path, err)
		}

		var solved []string
		if row[1] != "" {
			solved = strings.Split(row[1], ",")
		}

		records = append(records, domain.PerContestRecord{
			Handle:      handle,
			Solved:      solved,
			TotalSolved: total,
		})
	}
	return records, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM to %s: %w", path, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
