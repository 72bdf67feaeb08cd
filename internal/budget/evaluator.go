// Package budget evaluates spending ceilings against the current period's
// ledger. Budgets are a pure read-side view: nothing here mutates
// transactions or balances.
package budget

import (
	"time"

	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/report"
)

// warningThreshold is the fraction of the ceiling at which a budget moves
// from ok to warning.
const warningThreshold = 0.8

// Evaluation is the derived state of a budget for the current period.
type Evaluation struct {
	PeriodStart time.Time
	Budget      model.Budget
	Status      model.BudgetStatus
	Spent       float64
	Percentage  float64
}

// Evaluate computes spent-to-date and status for a budget. The period window
// is always anchored to now, not to the budget's stored start date. Only
// expense transactions in the budget's category count toward spent.
func Evaluate(b model.Budget, transactions []model.Transaction, now time.Time) Evaluation {
	start, end := report.FromBudgetPeriod(b.Period).Window(now)

	var spent float64
	for i := range transactions {
		txn := &transactions[i]
		if txn.Type != model.TypeExpense {
			continue
		}
		if txn.CategoryID != b.CategoryID {
			continue
		}
		if txn.Date.Before(start) || txn.Date.After(end) {
			continue
		}
		spent += txn.Amount
	}

	eval := Evaluation{
		Budget:      b,
		PeriodStart: start,
		Spent:       spent,
		Status:      model.StatusOK,
	}

	// Display percentage is clamped at 100; status uses the raw comparison.
	if b.Amount > 0 {
		eval.Percentage = spent / b.Amount * 100
		if eval.Percentage > 100 {
			eval.Percentage = 100
		}
	}

	switch {
	case spent >= b.Amount:
		eval.Status = model.StatusExceeded
	case spent >= warningThreshold*b.Amount:
		eval.Status = model.StatusWarning
	}

	return eval
}

// FetchStart returns the earliest window start any of the budgets needs when
// evaluated at now. A weekly window reaches up to seven days back, across a
// month or year boundary if that is where the anchor falls, so callers
// bounding a single transaction fetch must use this rather than a fixed
// year start.
func FetchStart(budgets []model.Budget, now time.Time) time.Time {
	start := now
	for _, b := range budgets {
		s, _ := report.FromBudgetPeriod(b.Period).Window(now)
		if s.Before(start) {
			start = s
		}
	}
	return start
}

// EvaluateAll evaluates every budget against the same transaction set.
func EvaluateAll(budgets []model.Budget, transactions []model.Transaction, now time.Time) []Evaluation {
	evaluations := make([]Evaluation, 0, len(budgets))
	for _, b := range budgets {
		evaluations = append(evaluations, Evaluate(b, transactions, now))
	}
	return evaluations
}
