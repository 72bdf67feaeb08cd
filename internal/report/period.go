// Package report computes period-windowed totals, category breakdowns, and
// monthly comparisons over a user's ledger.
package report

import (
	"fmt"
	"time"

	"github.com/billfold/billfold/internal/model"
)

// Period selects the reporting window anchored to "now".
type Period string

const (
	// PeriodWeek covers the seven calendar days up to and including the anchor.
	PeriodWeek Period = "week"
	// PeriodMonth covers the first of the anchor's month through the anchor.
	PeriodMonth Period = "month"
	// PeriodYear covers January 1 of the anchor's year through the anchor.
	PeriodYear Period = "year"
)

// ParsePeriod converts a user-supplied string into a Period.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	}
	return "", fmt.Errorf("invalid period %q (want week, month, or year)", s)
}

// Window returns the inclusive [start, end] date range for the period
// anchored at now.
func (p Period) Window(now time.Time) (start, end time.Time) {
	end = now
	switch p {
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		start = now
	}
	return start, end
}

// FromBudgetPeriod maps a budget's recurrence to the equivalent report window.
func FromBudgetPeriod(p model.BudgetPeriod) Period {
	switch p {
	case model.PeriodWeekly:
		return PeriodWeek
	case model.PeriodYearly:
		return PeriodYear
	default:
		return PeriodMonth
	}
}

// inWindow reports whether a date falls inside the inclusive window.
func inWindow(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
