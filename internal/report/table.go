package report

import (
	"sort"

	"workout-stats-go/internal/aggregator"
)

// Display columns, in table order.
const (
	ColTotalWorkouts     = "Total Workouts"
	ColTotalMinutes      = "Total Minutes"
	ColTotalDistance     = "Total Distance"
	ColTotalOutput       = "Total Output"
	ColTotalCalories     = "Total Calories"
	ColOutputPerMinute   = "Output per Minute"
	ColCaloriesPerMinute = "Calories per Minute"
	ColAvgHeartrate      = "Avg. Heartrate"
	ColAvgSpeed          = "Avg. Speed"
	ColAvgCadence        = "Avg. Cadence"
)

var Columns = []string{
	ColTotalWorkouts,
	ColTotalMinutes,
	ColTotalDistance,
	ColTotalOutput,
	ColTotalCalories,
	ColOutputPerMinute,
	ColCaloriesPerMinute,
	ColAvgHeartrate,
	ColAvgSpeed,
	ColAvgCadence,
}

// Row is one group of a table. Values line up with Table.Columns; nil is an
// absent value.
type Row struct {
	Key    string     `json:"key"`
	Label  string     `json:"label,omitempty"`
	Values []*float64 `json:"values"`
}

type Table struct {
	Dimension string   `json:"dimension"`
	Title     string   `json:"title"`
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"rows"`
}

// Point is one present value of a column.
type Point struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

func newTable(d Dimension, res aggregator.Result) *Table {
	t := &Table{
		Dimension: d.Name,
		Title:     d.Title,
		Columns:   append([]string(nil), Columns...),
		Rows:      make([]Row, 0, len(res.Groups)),
	}
	for _, g := range res.Groups {
		t.Rows = append(t.Rows, Row{
			Key:    g.Key,
			Label:  d.label(g.Key),
			Values: values(g.Summary),
		})
	}
	return t
}

func values(s aggregator.Summary) []*float64 {
	workouts := float64(s.TotalWorkouts)
	return []*float64{
		&workouts,
		ptr(s.TotalMinutes),
		ptr(s.TotalDistance),
		ptr(s.TotalOutput),
		ptr(s.TotalCalories),
		s.OutputPerMinute,
		s.CaloriesPerMinute,
		s.AvgHeartrate,
		s.AvgSpeed,
		s.AvgCadence,
	}
}

func ptr(v float64) *float64 { return &v }

func (t *Table) columnIndex(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Value returns the cell for key and column. The bool is false when the row
// or column does not exist; the pointer is nil when the value is absent.
func (t *Table) Value(key, column string) (*float64, bool) {
	idx := t.columnIndex(column)
	if idx < 0 {
		return nil, false
	}
	for _, r := range t.Rows {
		if r.Key == key {
			return r.Values[idx], true
		}
	}
	return nil, false
}

// Series returns the present values of column in row order.
func (t *Table) Series(column string) []Point {
	idx := t.columnIndex(column)
	if idx < 0 {
		return nil
	}
	out := make([]Point, 0, len(t.Rows))
	for _, r := range t.Rows {
		if v := r.Values[idx]; v != nil {
			out = append(out, Point{Key: r.Key, Value: *v})
		}
	}
	return out
}

// Ranked is Series sorted by value, largest first.
func (t *Table) Ranked(column string) []Point {
	pts := t.Series(column)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Value > pts[j].Value })
	return pts
}

// Max returns the largest present value of column.
func (t *Table) Max(column string) (float64, bool) {
	pts := t.Ranked(column)
	if len(pts) == 0 {
		return 0, false
	}
	return pts[0].Value, true
}
