package billing

import (
	"strings"
	"time"

	"github.com/ManuelReschke/PayLedger/app/models"
)

// Period is the recurrence unit of a subscription product.
type Period string

const (
	PeriodMonthly Period = models.RecurrenceMonthly
	PeriodYearly  Period = models.RecurrenceYearly
)

// PaidWindow is the end of an already paid entitlement window.
type PaidWindow struct {
	End    time.Time
	Period Period
}

// Window is the half-open [Start, End) range of an entitlement.
type Window struct {
	Start time.Time
	End   time.Time
}

func normalizePeriod(period string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(period))) {
	case PeriodYearly:
		return PeriodYearly
	default:
		return PeriodMonthly
	}
}

// ExtendWindow computes the window bought by a new payment. The new window
// stacks onto the active window with the latest end (any period), or starts
// at now when every existing window has expired.
func ExtendWindow(existing []PaidWindow, period Period, now time.Time) Window {
	start := now.UTC()
	var active *PaidWindow
	for i := range existing {
		w := &existing[i]
		if !w.End.After(now) {
			continue
		}
		if active == nil || w.End.After(active.End) {
			active = w
		}
	}
	if active != nil {
		start = active.End.UTC()
	}
	return Window{Start: start, End: AddPeriod(start, period)}
}

// AddPeriod advances t by one calendar month or year in UTC. When the day
// of month does not exist in the target month it is clamped to the last
// day of that month. Unknown periods advance by one month.
func AddPeriod(t time.Time, period Period) time.Time {
	t = t.UTC()
	years, months := 0, 1
	if normalizePeriod(string(period)) == PeriodYearly {
		years, months = 1, 0
	}

	y, m, d := t.Date()
	first := time.Date(y+years, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
