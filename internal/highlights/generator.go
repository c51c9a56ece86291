package highlights

import (
	"fmt"

	"workout-stats-go/internal/aggregator"
	"workout-stats-go/internal/report"
)

const (
	caloriesPerPizza  = 2240 // one large pepperoni pizza
	caloriesPerPound  = 3500 // one pound of body fat
	logScaleThreshold = 100
)

// Highlights are the headline figures of the all-time view.
type Highlights struct {
	TotalWorkouts int      `json:"total_workouts"`
	Instructors   int      `json:"instructors"`
	TotalMinutes  float64  `json:"total_minutes"`
	TotalHours    float64  `json:"total_hours"`
	TotalDays     float64  `json:"total_days"`
	TotalDistance float64  `json:"total_distance"`
	AvgSpeed      *float64 `json:"avg_speed"`
	TotalCalories float64  `json:"total_calories"`
	Pizzas        float64  `json:"pizzas"`
	PoundsOfFat   float64  `json:"pounds_of_fat"`
	// the instructor view reads better on a log scale once a single
	// instructor has this many workouts
	SuggestLogScale bool     `json:"suggest_log_scale"`
	Messages        []string `json:"messages"`
}

func Generate(rep *report.Report) Highlights {
	var h Highlights

	if all, ok := rep.Table(report.DimAllTime.Name); ok {
		get := func(col string) float64 {
			if v, ok := all.Value(aggregator.AllTimeKey, col); ok && v != nil {
				return *v
			}
			return 0
		}
		h.TotalWorkouts = int(get(report.ColTotalWorkouts))
		h.TotalMinutes = get(report.ColTotalMinutes)
		h.TotalDistance = get(report.ColTotalDistance)
		h.TotalCalories = get(report.ColTotalCalories)
		h.AvgSpeed, _ = all.Value(aggregator.AllTimeKey, report.ColAvgSpeed)
	}
	if instr, ok := rep.Table(report.DimInstructor.Name); ok {
		h.Instructors = len(instr.Rows)
		if top, ok := instr.Max(report.ColTotalWorkouts); ok && top >= logScaleThreshold {
			h.SuggestLogScale = true
		}
	}

	h.TotalHours = h.TotalMinutes / 60
	h.TotalDays = h.TotalHours / 24
	h.Pizzas = h.TotalCalories / caloriesPerPizza
	h.PoundsOfFat = h.TotalCalories / caloriesPerPound
	h.Messages = messages(h)
	return h
}

func messages(h Highlights) []string {
	if h.TotalWorkouts == 0 {
		return []string{"No workouts found in the export."}
	}
	out := []string{
		fmt.Sprintf("You have completed %d workouts with %d different instructors.", h.TotalWorkouts, h.Instructors),
		fmt.Sprintf("You have worked out for %.0f minutes (that's %.2f hours, or %.2f whole days) and covered %.2f miles in that time.",
			h.TotalMinutes, h.TotalHours, h.TotalDays, h.TotalDistance),
	}
	if h.AvgSpeed != nil {
		out = append(out, fmt.Sprintf("That makes for an all-time average speed of %.2f mph.", *h.AvgSpeed))
	}
	out = append(out, fmt.Sprintf("You've burned a total of %.0f calories - that's equivalent to %.2f large pepperoni pizzas or %.2f lbs of body fat.",
		h.TotalCalories, h.Pizzas, h.PoundsOfFat))
	return out
}
