package model

import "time"

// CategoryType indicates whether a category classifies income or expense
// transactions. A transaction may only be assigned a category whose type
// matches its own.
type CategoryType string

const (
	// CategoryIncome classifies income transactions.
	CategoryIncome CategoryType = "income"
	// CategoryExpense classifies expense transactions.
	CategoryExpense CategoryType = "expense"
)

// Valid reports whether the category type is one of the known values.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// Category represents a classification label for transactions.
// System categories are seeded at signup and cannot be deleted by the user.
type Category struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	Name      string
	Color     string
	Type      CategoryType
	IsSystem  bool
}

// UncategorizedName is the breakdown group for transactions without a category.
const UncategorizedName = "Uncategorized"
