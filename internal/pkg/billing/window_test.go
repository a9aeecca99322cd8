package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtendWindow(t *testing.T) {
	tests := []struct {
		name      string
		existing  []PaidWindow
		period    Period
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "monthly stacks onto active monthly",
			existing:  []PaidWindow{{End: utc(2024, 3, 15), Period: PeriodMonthly}},
			period:    PeriodMonthly,
			now:       utc(2024, 3, 1),
			wantStart: utc(2024, 3, 15),
			wantEnd:   utc(2024, 4, 15),
		},
		{
			name:      "no prior window starts now",
			period:    PeriodYearly,
			now:       utc(2024, 6, 10),
			wantStart: utc(2024, 6, 10),
			wantEnd:   utc(2025, 6, 10),
		},
		{
			name:      "monthly stacks onto active yearly",
			existing:  []PaidWindow{{End: utc(2025, 1, 1), Period: PeriodYearly}},
			period:    PeriodMonthly,
			now:       utc(2024, 6, 1),
			wantStart: utc(2025, 1, 1),
			wantEnd:   utc(2025, 2, 1),
		},
		{
			name:      "yearly stacks onto active monthly",
			existing:  []PaidWindow{{End: utc(2024, 7, 1), Period: PeriodMonthly}},
			period:    PeriodYearly,
			now:       utc(2024, 6, 1),
			wantStart: utc(2024, 7, 1),
			wantEnd:   utc(2025, 7, 1),
		},
		{
			name: "expired windows are ignored",
			existing: []PaidWindow{
				{End: utc(2024, 1, 1), Period: PeriodYearly},
				{End: utc(2024, 5, 31), Period: PeriodMonthly},
			},
			period:    PeriodMonthly,
			now:       utc(2024, 6, 10),
			wantStart: utc(2024, 6, 10),
			wantEnd:   utc(2024, 7, 10),
		},
		{
			name:      "window ending exactly now is expired",
			existing:  []PaidWindow{{End: utc(2024, 6, 10), Period: PeriodMonthly}},
			period:    PeriodMonthly,
			now:       utc(2024, 6, 10),
			wantStart: utc(2024, 6, 10),
			wantEnd:   utc(2024, 7, 10),
		},
		{
			name: "latest active window wins regardless of order",
			existing: []PaidWindow{
				{End: utc(2024, 8, 1), Period: PeriodMonthly},
				{End: utc(2025, 2, 1), Period: PeriodYearly},
				{End: utc(2024, 9, 1), Period: PeriodMonthly},
			},
			period:    PeriodMonthly,
			now:       utc(2024, 6, 1),
			wantStart: utc(2025, 2, 1),
			wantEnd:   utc(2025, 3, 1),
		},
		{
			name:      "unknown period behaves monthly",
			period:    Period("weekly"),
			now:       utc(2024, 6, 10),
			wantStart: utc(2024, 6, 10),
			wantEnd:   utc(2024, 7, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtendWindow(tt.existing, tt.period, tt.now)
			assert.True(t, tt.wantStart.Equal(got.Start), "start = %s, want %s", got.Start, tt.wantStart)
			assert.True(t, tt.wantEnd.Equal(got.End), "end = %s, want %s", got.End, tt.wantEnd)
		})
	}
}

func TestAddPeriodClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		in     time.Time
		period Period
		want   time.Time
	}{
		{utc(2024, 1, 31), PeriodMonthly, utc(2024, 2, 29)},
		{utc(2023, 1, 31), PeriodMonthly, utc(2023, 2, 28)},
		{utc(2024, 3, 31), PeriodMonthly, utc(2024, 4, 30)},
		{utc(2024, 12, 31), PeriodMonthly, utc(2025, 1, 31)},
		{utc(2024, 2, 29), PeriodYearly, utc(2025, 2, 28)},
		{utc(2024, 2, 29), PeriodMonthly, utc(2024, 3, 29)},
		{utc(2023, 6, 15), PeriodYearly, utc(2024, 6, 15)},
	}

	for _, tt := range tests {
		got := AddPeriod(tt.in, tt.period)
		assert.True(t, tt.want.Equal(got), "AddPeriod(%s, %s) = %s, want %s", tt.in, tt.period, got, tt.want)
	}
}

func TestAddPeriodKeepsTimeOfDayInUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2024, 3, 1, 7, 30, 15, 0, loc) // 2024-02-29T23:30:15Z

	got := AddPeriod(in, PeriodMonthly)
	assert.Equal(t, time.Date(2024, 3, 29, 23, 30, 15, 0, time.UTC), got)
}
