// Package aggregator computes per-group totals and length-weighted averages
// over normalized workouts.
package aggregator

import (
	"sort"

	"workout-stats-go/internal/types"
)

// Summary holds the statistics of one group. Rates and averages are nil
// when no workout in the group had the minutes needed to compute them.
type Summary struct {
	TotalWorkouts     int      `json:"total_workouts"`
	TotalMinutes      float64  `json:"total_minutes"`
	TotalDistance     float64  `json:"total_distance"`
	TotalOutput       float64  `json:"total_output"`
	TotalCalories     float64  `json:"total_calories"`
	OutputPerMinute   *float64 `json:"output_per_minute"`
	CaloriesPerMinute *float64 `json:"calories_per_minute"`
	AvgHeartrate      *float64 `json:"avg_heartrate"`
	AvgSpeed          *float64 `json:"avg_speed"`
	AvgCadence        *float64 `json:"avg_cadence"`
}

type Group struct {
	Key     string  `json:"key"`
	Summary Summary `json:"summary"`
}

// Result is the outcome of one aggregation, groups ordered by key.
type Result struct {
	Field  GroupField `json:"field"`
	Groups []Group    `json:"groups"`
}

// Get returns the summary for key.
func (r Result) Get(key string) (Summary, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g.Summary, true
		}
	}
	return Summary{}, false
}

// TotalWorkouts sums the workout counts of all groups.
func (r Result) TotalWorkouts() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Summary.TotalWorkouts
	}
	return n
}

// running sums for one group; every weighted metric keeps its own minutes
type accumulator struct {
	order float64

	workouts        int
	minutes         float64
	distance        float64
	output          float64
	outputMinutes   float64
	calories        float64
	caloriesMinutes float64
	hr              float64
	hrMinutes       float64
	speed           float64
	speedMinutes    float64
	cadence         float64
	cadenceMinutes  float64
}

func (a *accumulator) add(w types.Workout) {
	a.workouts++
	if w.Distance != nil {
		a.distance += *w.Distance
	}
	if w.LengthMinutes == nil {
		return
	}

	length := *w.LengthMinutes
	a.minutes += length
	if w.TotalOutput != nil {
		a.output += *w.TotalOutput
		a.outputMinutes += length
	}
	if w.CaloriesBurned != nil {
		a.calories += *w.CaloriesBurned
		a.caloriesMinutes += length
	}
	if w.AvgHeartrate != nil {
		a.hr += length * *w.AvgHeartrate
		a.hrMinutes += length
	}
	if w.AvgSpeed != nil {
		a.speed += length * *w.AvgSpeed
		a.speedMinutes += length
	}
	if w.AvgCadence != nil {
		a.cadence += length * *w.AvgCadence
		a.cadenceMinutes += length
	}
}

func (a *accumulator) summary() Summary {
	return Summary{
		TotalWorkouts:     a.workouts,
		TotalMinutes:      a.minutes,
		TotalDistance:     a.distance,
		TotalOutput:       a.output,
		TotalCalories:     a.calories,
		OutputPerMinute:   weighted(a.output, a.outputMinutes),
		CaloriesPerMinute: weighted(a.calories, a.caloriesMinutes),
		AvgHeartrate:      weighted(a.hr, a.hrMinutes),
		AvgSpeed:          weighted(a.speed, a.speedMinutes),
		AvgCadence:        weighted(a.cadence, a.cadenceMinutes),
	}
}

func weighted(sum, minutes float64) *float64 {
	if minutes == 0 {
		return nil
	}
	v := sum / minutes
	return &v
}

// Aggregate partitions records by field and summarises every group.
// Records without a value for field are left out. Sums are accumulated in
// input order, so the same input always yields identical results.
func Aggregate(records []types.Workout, field GroupField) (Result, error) {
	if !field.valid() {
		return Result{}, &InvalidGroupFieldError{Field: string(field)}
	}

	accs := make(map[string]*accumulator)
	var keys []string
	for _, w := range records {
		key, order, ok := field.keyOf(w)
		if !ok {
			continue
		}
		acc, exists := accs[key]
		if !exists {
			acc = &accumulator{order: order}
			accs[key] = acc
			keys = append(keys, key)
		}
		acc.add(w)
	}

	if field.numeric() {
		sort.SliceStable(keys, func(i, j int) bool { return accs[keys[i]].order < accs[keys[j]].order })
	} else {
		sort.Strings(keys)
	}

	res := Result{Field: field, Groups: make([]Group, 0, len(keys))}
	for _, k := range keys {
		res.Groups = append(res.Groups, Group{Key: k, Summary: accs[k].summary()})
	}
	return res, nil
}

// AggregateByName resolves name with ParseGroupField and aggregates.
func AggregateByName(records []types.Workout, name string) (Result, error) {
	field, err := ParseGroupField(name)
	if err != nil {
		return Result{}, err
	}
	return Aggregate(records, field)
}
