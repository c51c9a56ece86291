// Package report runs the aggregation for every display dimension and
// shapes the results into tables.
package report

import (
	"fmt"

	"cloud.google.com/go/civil"
	"go.uber.org/multierr"

	"workout-stats-go/internal/aggregator"
	"workout-stats-go/internal/normalizer"
	"workout-stats-go/internal/types"
)

// Dimension is one way of slicing the workouts.
type Dimension struct {
	Name  string
	Title string
	Field aggregator.GroupField
}

var (
	DimAllTime     = Dimension{Name: "all_time", Title: "All-Time", Field: aggregator.AllTime}
	DimYear        = Dimension{Name: "year", Title: "Year", Field: aggregator.Year}
	DimMonth       = Dimension{Name: "month", Title: "Month", Field: aggregator.Month}
	DimWeek        = Dimension{Name: "week", Title: "Week", Field: aggregator.Week}
	DimDay         = Dimension{Name: "day", Title: "Day", Field: aggregator.Day}
	DimInstructor  = Dimension{Name: "instructor", Title: "Instructor", Field: aggregator.Instructor}
	DimClassLength = Dimension{Name: "class_length", Title: "Class Length", Field: aggregator.ClassLength}
)

// Dimensions lists every table a report carries.
var Dimensions = []Dimension{
	DimAllTime,
	DimYear,
	DimMonth,
	DimWeek,
	DimDay,
	DimInstructor,
	DimClassLength,
}

// DimensionByName finds a dimension by its name or by any group field alias.
func DimensionByName(name string) (Dimension, error) {
	for _, d := range Dimensions {
		if d.Name == name {
			return d, nil
		}
	}
	field, err := aggregator.ParseGroupField(name)
	if err != nil {
		return Dimension{}, err
	}
	for _, d := range Dimensions {
		if d.Field == field {
			return d, nil
		}
	}
	return Dimension{}, &aggregator.InvalidGroupFieldError{Field: name}
}

func (d Dimension) label(key string) string {
	if d.Field != aggregator.Week {
		return ""
	}
	date, err := civil.ParseDate(key)
	if err != nil {
		return ""
	}
	return normalizer.ISOWeekLabel(date)
}

type Report struct {
	Workouts int      `json:"workouts"`
	Tables   []*Table `json:"tables"`
}

// Table returns the table of the named dimension.
func (r *Report) Table(name string) (*Table, bool) {
	for _, t := range r.Tables {
		if t.Dimension == name {
			return t, true
		}
	}
	return nil, false
}

// Build computes every dimension in Dimensions.
func Build(records []types.Workout) (*Report, error) {
	return BuildDimensions(records, Dimensions)
}

// BuildDimensions computes the given dimensions one after another. A
// dimension that fails is left out of the report and its error is returned
// alongside the tables that did succeed.
func BuildDimensions(records []types.Workout, dims []Dimension) (*Report, error) {
	r := &Report{Workouts: len(records), Tables: make([]*Table, 0, len(dims))}
	var errs error
	for _, d := range dims {
		res, err := aggregator.Aggregate(records, d.Field)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("dimension %s: %w", d.Name, err))
			continue
		}
		r.Tables = append(r.Tables, newTable(d, res))
	}
	return r, errs
}
