// Package normalizer turns raw export rows into typed workout records with
// calendar keys and per-workout rates.
package normalizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"workout-stats-go/internal/types"
)

// ErrMissingColumn is matched by every MissingColumnError.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError names a required column absent from the export header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Validate checks the table header for every required column.
func Validate(table types.RawTable) error {
	for _, col := range types.RequiredColumns {
		if !table.HasColumn(col) {
			return &MissingColumnError{Column: col}
		}
	}
	return nil
}

// Normalize parses every row of table. Bad cells become absent values; only
// a missing required column is an error. The input is not modified.
func Normalize(table types.RawTable) ([]types.Workout, error) {
	if err := Validate(table); err != nil {
		return nil, err
	}
	out := make([]types.Workout, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, NormalizeRow(row))
	}
	return out, nil
}

// NormalizeRow converts a single raw row.
func NormalizeRow(row types.RawRow) types.Workout {
	w := types.Workout{
		Distance:       parseNumber(row[types.ColDistance]),
		LengthMinutes:  parseNumber(row[types.ColLength]),
		TotalOutput:    parseNumber(row[types.ColOutput]),
		CaloriesBurned: parseNumber(row[types.ColCalories]),
		AvgHeartrate:   parseNumber(row[types.ColHeartrate]),
		AvgSpeed:       parseNumber(row[types.ColSpeed]),
		AvgCadence:     parseNumber(row[types.ColCadence]),
		Instructor:     strings.TrimSpace(row[types.ColInstructor]),
		Discipline:     strings.TrimSpace(row[types.ColDiscipline]),
	}

	if ts, ok := ParseTimestamp(row[types.ColTimestamp]); ok {
		day := Day(ts)
		week := WeekStart(ts)
		w.Timestamp = &ts
		w.Day = &day
		w.WeekStart = &week
		w.Month = MonthKey(ts)
		w.Year = ts.Year()
	}

	w.CaloriesPerMinute = ratio(w.CaloriesBurned, w.LengthMinutes)
	w.OutputPerMinute = ratio(w.TotalOutput, w.LengthMinutes)
	return w
}

func parseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "--" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	v := *num / *den
	return &v
}
