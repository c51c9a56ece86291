package aggregator

import (
	"errors"
	"fmt"
	"strconv"

	"workout-stats-go/internal/types"
)

// ErrInvalidGroupField is matched by every InvalidGroupFieldError.
var ErrInvalidGroupField = errors.New("invalid group field")

// InvalidGroupFieldError names a grouping field the engine does not know.
type InvalidGroupFieldError struct {
	Field string
}

func (e *InvalidGroupFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidGroupField, e.Field)
}

func (e *InvalidGroupFieldError) Is(target error) bool {
	return target == ErrInvalidGroupField
}

// GroupField selects the value records are partitioned by. AllTime puts
// every record in one group.
type GroupField string

const (
	AllTime     GroupField = ""
	Year        GroupField = "year"
	Month       GroupField = "month"
	Week        GroupField = "week"
	Day         GroupField = "day"
	Instructor  GroupField = "instructor"
	ClassLength GroupField = "class_length"
)

// AllTimeKey is the key of the single all-time group.
const AllTimeKey = "All Time"

var fieldAliases = map[string]GroupField{
	"":                  AllTime,
	"all_time":          AllTime,
	"year":              Year,
	"c_year":            Year,
	"month":             Month,
	"c_month":           Month,
	"week":              Week,
	"c_week":            Week,
	"day":               Day,
	"c_day":             Day,
	"instructor":        Instructor,
	types.ColInstructor: Instructor,
	"class_length":      ClassLength,
	types.ColLength:     ClassLength,
}

// ParseGroupField resolves a field name, accepting the canonical names and
// the export's own column names.
func ParseGroupField(name string) (GroupField, error) {
	f, ok := fieldAliases[name]
	if !ok {
		return "", &InvalidGroupFieldError{Field: name}
	}
	return f, nil
}

func (f GroupField) valid() bool {
	switch f {
	case AllTime, Year, Month, Week, Day, Instructor, ClassLength:
		return true
	}
	return false
}

func (f GroupField) String() string {
	if f == AllTime {
		return "all_time"
	}
	return string(f)
}

// numeric fields sort by value rather than by their string key
func (f GroupField) numeric() bool {
	return f == Year || f == ClassLength
}

// keyOf returns the group key of w, its numeric sort value and whether the
// record has a value for the field at all.
func (f GroupField) keyOf(w types.Workout) (string, float64, bool) {
	switch f {
	case AllTime:
		return AllTimeKey, 0, true
	case Year:
		if w.Year == 0 {
			return "", 0, false
		}
		return strconv.Itoa(w.Year), float64(w.Year), true
	case Month:
		return w.Month, 0, w.Month != ""
	case Week:
		if w.WeekStart == nil {
			return "", 0, false
		}
		return w.WeekStart.String(), 0, true
	case Day:
		if w.Day == nil {
			return "", 0, false
		}
		return w.Day.String(), 0, true
	case Instructor:
		return w.Instructor, 0, w.Instructor != ""
	case ClassLength:
		if w.LengthMinutes == nil {
			return "", 0, false
		}
		v := *w.LengthMinutes
		return strconv.FormatFloat(v, 'f', -1, 64), v, true
	}
	return "", 0, false
}
