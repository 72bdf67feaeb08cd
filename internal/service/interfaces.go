// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/billfold/billfold/internal/model"
)

// TransactionFilter defines filtering options for ledger queries. Zero-value
// fields are ignored. All queries are additionally scoped to a single user.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	AccountID  string
	CategoryID string
	Type       model.TransactionType
	Limit      int
	Offset     int
}

// Storage defines the contract for the persistence layer. Every operation is
// scoped to the owning user; cross-user access is never valid.
type Storage interface {
	// Profile operations
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	FindProfileByName(ctx context.Context, displayName string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile *model.Profile) error

	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, userID, accountID string) (*model.Account, error)
	GetAccounts(ctx context.Context, userID string) ([]model.Account, error)
	AdjustAccountBalance(ctx context.Context, userID, accountID string, delta float64) error
	SetAccountActive(ctx context.Context, userID, accountID string, active bool) error
	DeleteAccount(ctx context.Context, userID, accountID string) error

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategories(ctx context.Context, userID string) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, userID, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error

	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, userID, txnID string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, txnID string) error
	TransactionExistsByHash(ctx context.Context, userID, hash string) (bool, error)
	GetAccountLedgerSum(ctx context.Context, userID, accountID string) (float64, error)

	// Budget operations
	CreateBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context, userID string) ([]model.Budget, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*model.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error

	// Goal operations (schema only, no behavior)
	GetGoals(ctx context.Context, userID string) ([]model.Goal, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// Session is the identity collaborator: it answers who the current user is
// and manages sign-up/sign-in state. Enforcement of user scoping on data rows
// belongs to Storage callers, keyed by CurrentUserID.
type Session interface {
	CurrentUserID() (string, error)
	SignIn(ctx context.Context, displayName string) (string, error)
	SignOut() error
}

// RetryOptions configures retry behavior for remote operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
