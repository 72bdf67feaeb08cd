package model

import "time"

// BudgetPeriod is the recurrence window a budget ceiling applies to.
type BudgetPeriod string

const (
	// PeriodWeekly evaluates the budget over the trailing week.
	PeriodWeekly BudgetPeriod = "weekly"
	// PeriodMonthly evaluates the budget over the current calendar month.
	PeriodMonthly BudgetPeriod = "monthly"
	// PeriodYearly evaluates the budget over the current calendar year.
	PeriodYearly BudgetPeriod = "yearly"
)

// Valid reports whether the budget period is one of the known values.
func (p BudgetPeriod) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Budget represents a spending ceiling for a category over a recurring period.
// Spent amount and status are derived from the ledger, never stored.
type Budget struct {
	StartDate  time.Time
	CreatedAt  time.Time
	EndDate    *time.Time
	ID         string
	UserID     string
	CategoryID string
	Period     BudgetPeriod
	Amount     float64
}

// BudgetStatus describes how close current spending is to a budget ceiling.
type BudgetStatus string

const (
	// StatusOK means spending is below 80% of the ceiling.
	StatusOK BudgetStatus = "ok"
	// StatusWarning means spending is at or above 80% but below the ceiling.
	StatusWarning BudgetStatus = "warning"
	// StatusExceeded means spending has reached or passed the ceiling.
	StatusExceeded BudgetStatus = "exceeded"
)
