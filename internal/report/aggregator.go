package report

import (
	"sort"
	"time"

	"github.com/billfold/billfold/internal/model"
)

// CategoryTotal is one group of the expense breakdown.
type CategoryTotal struct {
	Name    string
	Amount  float64
	Percent float64
}

// MonthTotal is one bucket of the year view's monthly comparison.
type MonthTotal struct {
	Month   time.Month
	Income  float64
	Expense float64
}

// Summary holds the aggregate view of a reporting window.
type Summary struct {
	Start        time.Time
	End          time.Time
	Period       Period
	ByCategory   []CategoryTotal
	ByMonth      []MonthTotal // populated for year views only
	TotalIncome  float64
	TotalExpense float64
	Net          float64
	SavingsRate  float64
}

// Aggregate computes the summary for a period anchored at now over the given
// transactions. Transactions outside the window are ignored; the year view's
// monthly buckets use each transaction's own date regardless of the window.
func Aggregate(period Period, now time.Time, transactions []model.Transaction) Summary {
	start, end := period.Window(now)
	summary := Summary{
		Start:  start,
		End:    end,
		Period: period,
	}

	categoryTotals := make(map[string]float64)
	var categoryOrder []string

	for i := range transactions {
		txn := &transactions[i]
		if !inWindow(txn.Date, start, end) {
			continue
		}

		switch txn.Type {
		case model.TypeIncome:
			summary.TotalIncome += txn.Amount
		case model.TypeExpense:
			summary.TotalExpense += txn.Amount

			name := txn.CategoryID
			if name == "" {
				name = model.UncategorizedName
			}
			if _, seen := categoryTotals[name]; !seen {
				categoryOrder = append(categoryOrder, name)
			}
			categoryTotals[name] += txn.Amount
		}
	}

	summary.Net = summary.TotalIncome - summary.TotalExpense
	if summary.TotalIncome > 0 {
		summary.SavingsRate = summary.Net / summary.TotalIncome * 100
	}

	summary.ByCategory = make([]CategoryTotal, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		amount := categoryTotals[name]
		var percent float64
		if summary.TotalExpense > 0 {
			percent = amount / summary.TotalExpense * 100
		}
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{
			Name:    name,
			Amount:  amount,
			Percent: percent,
		})
	}
	// Ties keep encounter order.
	sort.SliceStable(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Amount > summary.ByCategory[j].Amount
	})

	if period == PeriodYear {
		summary.ByMonth = monthlyBuckets(now.Year(), transactions)
	}

	return summary
}

// monthlyBuckets sums income and expense per calendar month of the given
// year. All twelve months are always present, zero-valued if empty.
func monthlyBuckets(year int, transactions []model.Transaction) []MonthTotal {
	buckets := make([]MonthTotal, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1)
	}

	for i := range transactions {
		txn := &transactions[i]
		if txn.Date.Year() != year {
			continue
		}
		bucket := &buckets[int(txn.Date.Month())-1]
		switch txn.Type {
		case model.TypeIncome:
			bucket.Income += txn.Amount
		case model.TypeExpense:
			bucket.Expense += txn.Amount
		}
	}

	return buckets
}

// ResolveCategoryNames rewrites breakdown group keys from category ids to
// display names using the supplied categories. Unknown ids are left as-is.
func ResolveCategoryNames(summary *Summary, categories []model.Category) {
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	for i := range summary.ByCategory {
		if name, ok := names[summary.ByCategory[i].Name]; ok {
			summary.ByCategory[i].Name = name
		}
	}
}
