package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TransactionType indicates whether a transaction adds to or subtracts from an
// account's balance.
type TransactionType string

const (
	// TypeIncome represents money flowing into an account.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money flowing out of an account.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the transaction type is one of the known values.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a single monetary event against an account.
//
// Amount is always stored non-negative; Type determines the sign of the
// effect on the owning account's balance (income adds, expense subtracts).
type Transaction struct {
	Date            time.Time
	CreatedAt       time.Time
	ID              string
	UserID          string
	AccountID       string
	CategoryID      string // empty means uncategorized
	Description     string
	Notes           string
	Hash            string
	RecurringSource string // reserved; no scheduler exists
	Type            TransactionType
	Amount          float64
}

// SignedAmount returns the transaction's effect on its account balance.
func (t *Transaction) SignedAmount() float64 {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return -t.Amount
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Type,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
