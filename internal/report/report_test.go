package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"workout-stats-go/internal/aggregator"
	"workout-stats-go/internal/normalizer"
	"workout-stats-go/internal/types"
)

func sampleWorkouts(t *testing.T) []types.Workout {
	t.Helper()
	row := func(ts, length, output, calories, hr, instructor string) types.RawRow {
		return types.RawRow{
			types.ColTimestamp:  ts,
			types.ColLength:     length,
			types.ColOutput:     output,
			types.ColCalories:   calories,
			types.ColHeartrate:  hr,
			types.ColInstructor: instructor,
			types.ColDistance:   "5",
			types.ColDiscipline: "Cycling",
		}
	}
	tbl := types.RawTable{
		Columns: types.RequiredColumns,
		Rows: []types.RawRow{
			row("2024-12-30 07:00 (-05)", "30", "300", "300", "140", "Jane"),
			row("2024-12-31 07:00 (-05)", "60", "700", "900", "", "Jane"),
			row("2025-01-02 07:00 (-05)", "", "100", "500", "150", "Ben"),
			row("garbage", "20", "", "200", "120", ""),
		},
	}
	workouts, err := normalizer.Normalize(tbl)
	require.NoError(t, err)
	return workouts
}

func TestBuild_AllDimensions(t *testing.T) {
	rep, err := Build(sampleWorkouts(t))
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Workouts)
	require.Len(t, rep.Tables, len(Dimensions))

	all, ok := rep.Table("all_time")
	require.True(t, ok)
	workouts, ok := all.Value(aggregator.AllTimeKey, ColTotalWorkouts)
	require.True(t, ok)
	assert.Equal(t, 4.0, *workouts)
	minutes, _ := all.Value(aggregator.AllTimeKey, ColTotalMinutes)
	assert.Equal(t, 110.0, *minutes)
	cpm, _ := all.Value(aggregator.AllTimeKey, ColCaloriesPerMinute)
	assert.InDelta(t, 1400.0/110, *cpm, 1e-9)

	week, ok := rep.Table("week")
	require.True(t, ok)
	require.Len(t, week.Rows, 1, "all three dated rides share ISO week 2025-W01")
	assert.Equal(t, "2024-12-30", week.Rows[0].Key)
	assert.Equal(t, "2025-W01", week.Rows[0].Label)

	year, _ := rep.Table("year")
	assert.Equal(t, []Point{{Key: "2024", Value: 2}, {Key: "2025", Value: 1}}, year.Series(ColTotalWorkouts))

	instr, _ := rep.Table("instructor")
	assert.Len(t, instr.Rows, 2)
	ben, _ := instr.Value("Ben", ColOutputPerMinute)
	assert.Nil(t, ben, "Ben's only ride has no length")
}

func TestTable_SeriesAndRanked(t *testing.T) {
	rep, err := Build(sampleWorkouts(t))
	require.NoError(t, err)
	instr, _ := rep.Table("instructor")

	assert.Equal(t, []Point{{Key: "Jane", Value: 140}}, instr.Series(ColAvgHeartrate))
	assert.Equal(t, "Jane", instr.Ranked(ColTotalMinutes)[0].Key)
	assert.Nil(t, instr.Series("Nope"))

	top, ok := instr.Max(ColTotalWorkouts)
	require.True(t, ok)
	assert.Equal(t, 2.0, top)
}

func TestBuildDimensions_CollectsErrors(t *testing.T) {
	dims := []Dimension{
		DimAllTime,
		{Name: "shoe", Title: "Shoe", Field: aggregator.GroupField("shoe")},
		DimMonth,
		{Name: "hat", Title: "Hat", Field: aggregator.GroupField("hat")},
	}
	rep, err := BuildDimensions(sampleWorkouts(t), dims)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, errors.Is(err, aggregator.ErrInvalidGroupField))

	require.Len(t, rep.Tables, 2)
	_, ok := rep.Table("month")
	assert.True(t, ok)
}

func TestDimensionByName(t *testing.T) {
	d, err := DimensionByName("month")
	require.NoError(t, err)
	assert.Equal(t, DimMonth, d)

	d, err = DimensionByName(types.ColInstructor)
	require.NoError(t, err)
	assert.Equal(t, DimInstructor, d)

	_, err = DimensionByName("nope")
	assert.ErrorIs(t, err, aggregator.ErrInvalidGroupField)
}

func TestReport_JSONKeepsNulls(t *testing.T) {
	rep, err := Build(sampleWorkouts(t))
	require.NoError(t, err)

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rep, &back)

	instr, _ := back.Table("instructor")
	v, ok := instr.Value("Ben", ColAvgSpeed)
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestWriteText(t *testing.T) {
	rep, err := Build(sampleWorkouts(t))
	require.NoError(t, err)
	week, _ := rep.Table("week")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, week))
	out := buf.String()
	assert.Contains(t, out, "Total Workouts")
	assert.Contains(t, out, "2024-12-30 (2025-W01)")
	assert.Contains(t, out, "1200.00")
}
