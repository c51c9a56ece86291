package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"workout-stats-go/internal/types"
)

var (
	ErrNoHeader = errors.New("no header row")
	ErrNoRows   = errors.New("no data rows")
)

// xlsx files are zip archives
var zipMagic = []byte("PK\x03\x04")

// Load reads a workout export from disk. The format (CSV or XLSX) is
// detected from the content, not the file name.
func Load(path string) (types.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawTable{}, fmt.Errorf("open file: %w", err)
	}
	return Parse(data)
}

// Read consumes r fully and parses the export.
func Read(r io.Reader) (types.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.RawTable{}, fmt.Errorf("read: %w", err)
	}
	return Parse(data)
}

// Parse detects the export format of data and parses it.
func Parse(data []byte) (types.RawTable, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return parseXLSX(data)
	}
	return parseCSV(data)
}

func parseCSV(data []byte) (types.RawTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return types.RawTable{}, fmt.Errorf("read csv: %w", err)
	}
	return toTable(records)
}

func parseXLSX(data []byte) (types.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return types.RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return types.RawTable{}, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return types.RawTable{}, fmt.Errorf("read rows: %w", err)
	}
	return toTable(rows)
}

func toTable(records [][]string) (types.RawTable, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return types.RawTable{}, ErrNoHeader
	}
	if len(records) == 1 {
		return types.RawTable{}, ErrNoRows
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := types.RawTable{Columns: header, Rows: make([]types.RawRow, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(types.RawRow, len(header))
		for i, col := range header {
			// spreadsheet rows drop trailing empty cells
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// FilterDiscipline keeps the rows whose discipline column matches
// discipline, ignoring case. An empty discipline keeps everything.
func FilterDiscipline(t types.RawTable, discipline string) types.RawTable {
	if discipline == "" {
		return t
	}
	out := types.RawTable{Columns: t.Columns, Rows: make([]types.RawRow, 0, len(t.Rows))}
	for _, row := range t.Rows {
		if strings.EqualFold(strings.TrimSpace(row[types.ColDiscipline]), discipline) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
