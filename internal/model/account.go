package model

import "time"

// AccountType identifies the kind of money store an account represents.
type AccountType string

const (
	// AccountChecking is a standard checking account.
	AccountChecking AccountType = "checking"
	// AccountSavings is a savings account.
	AccountSavings AccountType = "savings"
	// AccountCreditCard is a credit card account.
	AccountCreditCard AccountType = "credit_card"
	// AccountCash is physical cash on hand.
	AccountCash AccountType = "cash"
	// AccountInvestment is a brokerage or retirement account.
	AccountInvestment AccountType = "investment"
)

// Valid reports whether the account type is one of the known values.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountCash, AccountInvestment:
		return true
	}
	return false
}

// Account represents a named store of money owned by a single user.
//
// Balance is defined as the signed sum of the account's transactions since
// creation and is only ever mutated through the ledger package.
type Account struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	Name      string
	Currency  string
	Type      AccountType
	Balance   float64
	IsActive  bool
}
