package normalizer

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want civil.Date
	}{
		{
			name: "midweek",
			at:   time.Date(2023, time.June, 15, 10, 0, 0, 0, time.UTC), // Thursday
			want: civil.Date{Year: 2023, Month: time.June, Day: 12},
		},
		{
			name: "monday is its own start",
			at:   time.Date(2023, time.June, 12, 0, 0, 0, 0, time.UTC),
			want: civil.Date{Year: 2023, Month: time.June, Day: 12},
		},
		{
			name: "sunday belongs to the previous monday",
			at:   time.Date(2023, time.June, 18, 23, 59, 0, 0, time.UTC),
			want: civil.Date{Year: 2023, Month: time.June, Day: 12},
		},
		{
			name: "late december in week one of next year",
			at:   time.Date(2024, time.December, 31, 8, 0, 0, 0, time.UTC),
			want: civil.Date{Year: 2024, Month: time.December, Day: 30},
		},
		{
			name: "early january in last week of previous year",
			at:   time.Date(2021, time.January, 2, 8, 0, 0, 0, time.UTC),
			want: civil.Date{Year: 2020, Month: time.December, Day: 28},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WeekStart(tc.at))
		})
	}
}

func TestISOWeekLabel(t *testing.T) {
	assert.Equal(t, "2025-W01", ISOWeekLabel(civil.Date{Year: 2024, Month: time.December, Day: 30}))
	assert.Equal(t, "2020-W53", ISOWeekLabel(civil.Date{Year: 2020, Month: time.December, Day: 28}))
}

func TestDayAndMonth(t *testing.T) {
	ts := time.Date(2021, time.February, 3, 23, 15, 0, 0, time.UTC)
	assert.Equal(t, civil.Date{Year: 2021, Month: time.February, Day: 3}, Day(ts))
	assert.Equal(t, "2021-02", MonthKey(ts))
}
