package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name string
		unit TimeUnit
		date string
		want string
	}{
		{name: "day keeps date", unit: UnitDay, date: "2025-03-13", want: "2025-03-13"},
		{name: "week from thursday", unit: UnitWeek, date: "2025-03-13", want: "2025-03-10"},
		{name: "week from monday", unit: UnitWeek, date: "2025-03-10", want: "2025-03-10"},
		{name: "week from sunday goes back six days", unit: UnitWeek, date: "2025-03-16", want: "2025-03-10"},
		{name: "week across month boundary", unit: UnitWeek, date: "2025-03-02", want: "2025-02-24"},
		{name: "month", unit: UnitMonth, date: "2025-03-31", want: "2025-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ChartQuery{Unit: tt.unit, Date: day(tt.date)}
			assert.Equal(t, tt.want, q.PeriodStart().Format(DateLayout))
		})
	}
}

func TestShift(t *testing.T) {
	q := ChartQuery{Unit: UnitDay, Date: day("2025-02-28")}
	assert.Equal(t, "2025-03-01", q.Shift(1).Date.Format(DateLayout))

	q = ChartQuery{Unit: UnitWeek, Date: day("2025-03-13")}
	assert.Equal(t, "2025-03-06", q.Shift(-1).Date.Format(DateLayout))

	q = ChartQuery{Unit: UnitMonth, Date: day("2025-01-31")}
	assert.Equal(t, "2025-02-01", q.Shift(1).Date.Format(DateLayout))
	assert.Equal(t, "2024-12-01", q.Shift(-1).Date.Format(DateLayout))
}

func TestValidate(t *testing.T) {
	q, err := ChartQuery{Date: day("2025-01-01")}.Validate()
	require.NoError(t, err)
	assert.Equal(t, UnitDay, q.Unit)
	assert.Equal(t, ClientContract, q.Client)

	_, err = ChartQuery{Unit: "YEAR"}.Validate()
	require.ErrorIs(t, err, ErrInvalidTimeUnit)

	_, err = ChartQuery{Client: "BANK"}.Validate()
	require.ErrorIs(t, err, ErrInvalidClientType)

	_, err = ChartQuery{Country: "BR"}.Validate()
	require.ErrorIs(t, err, ErrInvalidCountry)

	_, err = ChartQuery{Integration: "FAX"}.Validate()
	require.ErrorIs(t, err, ErrInvalidIntegration)

	q, err = ChartQuery{Country: "GT", Integration: "DEBT", Client: ClientRider}.Validate()
	require.NoError(t, err)
	assert.False(t, q.Date.IsZero())
}

func TestParsers(t *testing.T) {
	k, err := ParseChartKind("/Payments")
	require.NoError(t, err)
	assert.Equal(t, ChartPayments, k)
	_, err = ParseChartKind("dashboard")
	require.ErrorIs(t, err, ErrUnknownChart)

	u, err := ParseTimeUnit(" week ")
	require.NoError(t, err)
	assert.Equal(t, UnitWeek, u)

	c, err := ParseClientType("rider")
	require.NoError(t, err)
	assert.Equal(t, ClientRider, c)
}

func TestWeekdayLabels(t *testing.T) {
	c := ChartData{Options: ChartOptions{XAxis: XAxis{Categories: []string{"2025-03-10", "2025-03-16", "total"}}}}
	c.WeekdayLabels()
	assert.Equal(t, []string{"Monday", "Sunday", "total"}, c.Options.XAxis.Categories)
}
