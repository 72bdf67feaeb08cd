package report

import (
	"testing"
	"time"

	"github.com/billfold/billfold/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txnOn(date time.Time, txType model.TransactionType, amount float64, categoryID string) model.Transaction {
	return model.Transaction{
		ID:         date.Format("20060102") + string(txType) + categoryID,
		UserID:     "user1",
		AccountID:  "acc1",
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       date,
	}
}

func TestAggregate_NetIdentity(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	aug := func(day int) time.Time {
		return time.Date(2026, time.August, day, 12, 0, 0, 0, time.UTC)
	}

	transactions := []model.Transaction{
		txnOn(aug(1), model.TypeIncome, 3000, ""),
		txnOn(aug(5), model.TypeExpense, 1200, "rent"),
		txnOn(aug(10), model.TypeExpense, 300.50, "food"),
		txnOn(aug(15), model.TypeIncome, 250, ""),
	}

	summary := Aggregate(PeriodMonth, anchor, transactions)

	assert.InDelta(t, 3250, summary.TotalIncome, 0.001)
	assert.InDelta(t, 1500.50, summary.TotalExpense, 0.001)
	assert.InDelta(t, summary.TotalIncome-summary.TotalExpense, summary.Net, 0.001)
	assert.InDelta(t, summary.Net/summary.TotalIncome*100, summary.SavingsRate, 0.001)
}

func TestAggregate_WindowExcludesOutsideTransactions(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	transactions := []model.Transaction{
		txnOn(time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC), model.TypeExpense, 100, "food"),
		// July is outside the month window.
		txnOn(time.Date(2026, time.July, 28, 0, 0, 0, 0, time.UTC), model.TypeExpense, 999, "food"),
		// After the anchor is outside too.
		txnOn(time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC), model.TypeExpense, 500, "food"),
	}

	summary := Aggregate(PeriodMonth, anchor, transactions)
	assert.InDelta(t, 100, summary.TotalExpense, 0.001)
}

func TestAggregate_ZeroIncomeZeroSavingsRate(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	transactions := []model.Transaction{
		txnOn(time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC), model.TypeExpense, 100, "food"),
	}

	summary := Aggregate(PeriodMonth, anchor, transactions)
	assert.Zero(t, summary.SavingsRate)
	assert.InDelta(t, -100, summary.Net, 0.001)
}

func TestAggregate_EmptyLedger(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	summary := Aggregate(PeriodMonth, anchor, nil)

	assert.Zero(t, summary.TotalIncome)
	assert.Zero(t, summary.TotalExpense)
	assert.Zero(t, summary.SavingsRate)
	assert.Empty(t, summary.ByCategory)
}

func TestAggregate_CategoryBreakdown(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	aug := func(day int) time.Time {
		return time.Date(2026, time.August, day, 12, 0, 0, 0, time.UTC)
	}

	transactions := []model.Transaction{
		txnOn(aug(1), model.TypeExpense, 100, "food"),
		txnOn(aug(2), model.TypeExpense, 300, "rent"),
		txnOn(aug(3), model.TypeExpense, 100, "food"),
		txnOn(aug(4), model.TypeExpense, 100, ""),
		// Income never appears in the expense breakdown.
		txnOn(aug(5), model.TypeIncome, 5000, ""),
	}

	summary := Aggregate(PeriodMonth, anchor, transactions)
	require.Len(t, summary.ByCategory, 3)

	// Descending by amount.
	assert.Equal(t, "rent", summary.ByCategory[0].Name)
	assert.InDelta(t, 300, summary.ByCategory[0].Amount, 0.001)
	assert.Equal(t, "food", summary.ByCategory[1].Name)
	assert.Equal(t, model.UncategorizedName, summary.ByCategory[2].Name)

	// Percentages sum to 100 for a non-empty breakdown.
	var percentSum float64
	for _, ct := range summary.ByCategory {
		percentSum += ct.Percent
	}
	assert.InDelta(t, 100, percentSum, 0.001)
}

func TestAggregate_TiedCategoriesKeepEncounterOrder(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	aug := func(day int) time.Time {
		return time.Date(2026, time.August, day, 12, 0, 0, 0, time.UTC)
	}

	transactions := []model.Transaction{
		txnOn(aug(1), model.TypeExpense, 50, "first"),
		txnOn(aug(2), model.TypeExpense, 50, "second"),
		txnOn(aug(3), model.TypeExpense, 50, "third"),
	}

	summary := Aggregate(PeriodMonth, anchor, transactions)
	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, "first", summary.ByCategory[0].Name)
	assert.Equal(t, "second", summary.ByCategory[1].Name)
	assert.Equal(t, "third", summary.ByCategory[2].Name)
}

func TestAggregate_YearViewMonthlyBuckets(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	transactions := []model.Transaction{
		txnOn(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), model.TypeIncome, 500, ""),
		txnOn(time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC), model.TypeExpense, 200, "food"),
		// A different year never lands in a bucket.
		txnOn(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), model.TypeIncome, 999, ""),
	}

	summary := Aggregate(PeriodYear, anchor, transactions)
	require.Len(t, summary.ByMonth, 12)

	assert.Equal(t, time.March, summary.ByMonth[2].Month)
	assert.InDelta(t, 500, summary.ByMonth[2].Income, 0.001)
	assert.Zero(t, summary.ByMonth[2].Expense)

	assert.Equal(t, time.July, summary.ByMonth[6].Month)
	assert.InDelta(t, 200, summary.ByMonth[6].Expense, 0.001)

	// Untouched months stay zero-valued.
	assert.Zero(t, summary.ByMonth[0].Income)
	assert.Zero(t, summary.ByMonth[0].Expense)
}

func TestAggregate_NonYearViewHasNoMonthlyBuckets(t *testing.T) {
	anchor := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	summary := Aggregate(PeriodMonth, anchor, nil)
	assert.Nil(t, summary.ByMonth)
}

func TestResolveCategoryNames(t *testing.T) {
	summary := &Summary{
		ByCategory: []CategoryTotal{
			{Name: "cat-1", Amount: 100},
			{Name: "cat-unknown", Amount: 50},
			{Name: model.UncategorizedName, Amount: 25},
		},
	}
	categories := []model.Category{
		{ID: "cat-1", Name: "Food & Dining"},
	}

	ResolveCategoryNames(summary, categories)

	assert.Equal(t, "Food & Dining", summary.ByCategory[0].Name)
	// Unknown ids and the synthetic uncategorized group pass through.
	assert.Equal(t, "cat-unknown", summary.ByCategory[1].Name)
	assert.Equal(t, model.UncategorizedName, summary.ByCategory[2].Name)
}
