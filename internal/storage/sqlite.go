package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// querier is satisfied by both *sql.DB and *sql.Tx so entity queries can run
// standalone or inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and a single
	// connection serializes the ledger's balance adjustments.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Storage methods delegate to the shared query helpers with the transaction.

func (t *sqliteTransaction) CreateProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	return createProfile(ctx, t.tx, profile)
}

func (t *sqliteTransaction) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getProfile(ctx, t.tx, userID)
}

func (t *sqliteTransaction) FindProfileByName(ctx context.Context, displayName string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(displayName, "displayName"); err != nil {
		return nil, err
	}
	return findProfileByName(ctx, t.tx, displayName)
}

func (t *sqliteTransaction) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	return updateProfile(ctx, t.tx, profile)
}

func (t *sqliteTransaction) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	return createAccount(ctx, t.tx, account)
}

func (t *sqliteTransaction) GetAccount(ctx context.Context, userID, accountID string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAccount(ctx, t.tx, userID, accountID)
}

func (t *sqliteTransaction) GetAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getAccounts(ctx, t.tx, userID)
}

func (t *sqliteTransaction) AdjustAccountBalance(ctx context.Context, userID, accountID string, delta float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return adjustAccountBalance(ctx, t.tx, userID, accountID, delta)
}

func (t *sqliteTransaction) SetAccountActive(ctx context.Context, userID, accountID string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return setAccountActive(ctx, t.tx, userID, accountID, active)
}

func (t *sqliteTransaction) DeleteAccount(ctx context.Context, userID, accountID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteAccount(ctx, t.tx, userID, accountID)
}

func (t *sqliteTransaction) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return createCategory(ctx, t.tx, category)
}

func (t *sqliteTransaction) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, t.tx, userID)
}

func (t *sqliteTransaction) GetCategoryByID(ctx context.Context, userID, categoryID string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategoryByID(ctx, t.tx, userID, categoryID)
}

func (t *sqliteTransaction) GetCategoryByName(ctx context.Context, userID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategoryByName(ctx, t.tx, userID, name)
}

func (t *sqliteTransaction) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteCategory(ctx, t.tx, userID, categoryID)
}

func (t *sqliteTransaction) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return saveTransaction(ctx, t.tx, txn)
}

func (t *sqliteTransaction) GetTransactionByID(ctx context.Context, userID, txnID string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransactionByID(ctx, t.tx, userID, txnID)
}

func (t *sqliteTransaction) GetTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getTransactions(ctx, t.tx, userID, filter)
}

func (t *sqliteTransaction) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteTransaction(ctx, t.tx, userID, txnID)
}

func (t *sqliteTransaction) TransactionExistsByHash(ctx context.Context, userID, hash string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return transactionExistsByHash(ctx, t.tx, userID, hash)
}

func (t *sqliteTransaction) GetAccountLedgerSum(ctx context.Context, userID, accountID string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return getAccountLedgerSum(ctx, t.tx, userID, accountID)
}

func (t *sqliteTransaction) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}
	return createBudget(ctx, t.tx, budget)
}

func (t *sqliteTransaction) GetBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getBudgets(ctx, t.tx, userID)
}

func (t *sqliteTransaction) GetBudgetByID(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getBudgetByID(ctx, t.tx, userID, budgetID)
}

func (t *sqliteTransaction) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteBudget(ctx, t.tx, userID, budgetID)
}

func (t *sqliteTransaction) GetGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getGoals(ctx, t.tx, userID)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
