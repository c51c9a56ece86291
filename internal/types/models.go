package types

import (
	"time"

	"cloud.google.com/go/civil"
)

// Column names of the workout export.
const (
	ColTimestamp  = "Workout Timestamp"
	ColDistance   = "Distance (mi)"
	ColLength     = "Length (minutes)"
	ColOutput     = "Total Output"
	ColCalories   = "Calories Burned"
	ColHeartrate  = "Avg. Heartrate"
	ColSpeed      = "Avg. Speed (mph)"
	ColCadence    = "Avg. Cadence (RPM)"
	ColInstructor = "Instructor Name"
	ColDiscipline = "Fitness Discipline"
)

// RequiredColumns must all be present in the header of an export.
var RequiredColumns = []string{
	ColTimestamp,
	ColDistance,
	ColLength,
	ColOutput,
	ColCalories,
	ColHeartrate,
	ColSpeed,
	ColCadence,
	ColInstructor,
	ColDiscipline,
}

// RawRow maps a column name to the raw cell text.
type RawRow map[string]string

// RawTable is an export as read from disk, before any parsing.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// HasColumn reports whether the header contains name.
func (t RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Workout is one normalized row of the export. Nil pointers mean the value
// was not recorded, which is not the same as zero.
type Workout struct {
	Timestamp *time.Time `json:"timestamp"`

	Distance       *float64 `json:"distance"`
	LengthMinutes  *float64 `json:"length_minutes"`
	TotalOutput    *float64 `json:"total_output"`
	CaloriesBurned *float64 `json:"calories_burned"`
	AvgHeartrate   *float64 `json:"avg_heartrate"`
	AvgSpeed       *float64 `json:"avg_speed"`
	AvgCadence     *float64 `json:"avg_cadence"`

	Instructor string `json:"instructor,omitempty"`
	Discipline string `json:"discipline,omitempty"`

	// calendar keys, all derived from Timestamp
	Day       *civil.Date `json:"day"`
	WeekStart *civil.Date `json:"week_start"`
	Month     string      `json:"month,omitempty"`
	Year      int         `json:"year,omitempty"`

	CaloriesPerMinute *float64 `json:"calories_per_minute"`
	OutputPerMinute   *float64 `json:"output_per_minute"`
}
