package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"workout-stats-go/internal/types"
)

const sampleCSV = "\ufeffWorkout Timestamp,Live/On-Demand,Instructor Name,Length (minutes),Fitness Discipline,Type,Title,Class Timestamp,Total Output,Avg. Watts,Avg. Resistance,Avg. Cadence (RPM),Avg. Speed (mph),Distance (mi),Calories Burned,Avg. Heartrate,Avg. Incline,Avg. Pace (min/mi)\n" +
	"2021-01-05 07:31 (-05),On Demand,Jane Doe,30,Cycling,Intervals,30 min HIIT Ride,2020-12-30 06:00 (-05),350,194,45%,82,19.4,9.7,420,151.2,,\n" +
	"2021-01-06 18:02 (-05),Live,John Roe,20,Running,Tempo,20 min Run,2021-01-06 18:00 (-05),,,,,6.1,2.03,240,,1.5,9:50\n" +
	",,,,,,,,,,,,,,,,,\n" +
	"2021-01-07 07:00 (-05),On Demand,,45,Cycling,Climb,45 min Climb Ride,,\n"

func TestParse_CSV(t *testing.T) {
	tbl, err := Parse([]byte(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, types.ColTimestamp, tbl.Columns[0])
	for _, col := range types.RequiredColumns {
		assert.True(t, tbl.HasColumn(col), col)
	}
	require.Len(t, tbl.Rows, 3, "blank rows are dropped")
	assert.Equal(t, "Jane Doe", tbl.Rows[0][types.ColInstructor])
	assert.Equal(t, "420", tbl.Rows[0][types.ColCalories])
	assert.Equal(t, "", tbl.Rows[2][types.ColCalories], "short rows are padded")
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Parse([]byte("Workout Timestamp,Distance (mi)\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{types.ColTimestamp, types.ColLength, types.ColInstructor}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2021-01-05 07:31 (-05)", "30", "Jane Doe"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"2021-01-06 07:31 (-05)", "45"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{types.ColTimestamp, types.ColLength, types.ColInstructor}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "30", tbl.Rows[0][types.ColLength])
	assert.Equal(t, "", tbl.Rows[1][types.ColInstructor])
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workouts.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)
}

func TestFilterDiscipline(t *testing.T) {
	tbl, err := Parse([]byte(sampleCSV))
	require.NoError(t, err)

	cycling := FilterDiscipline(tbl, "cycling")
	require.Len(t, cycling.Rows, 2)
	for _, row := range cycling.Rows {
		assert.Equal(t, "Cycling", row[types.ColDiscipline])
	}
	assert.Equal(t, tbl.Columns, cycling.Columns)
	assert.Len(t, tbl.Rows, 3, "input untouched")

	assert.Len(t, FilterDiscipline(tbl, "").Rows, 3)
}
