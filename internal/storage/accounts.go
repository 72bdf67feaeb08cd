package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/billfold/billfold/internal/model"
)

// ErrAccountNotFound is returned when an account lookup matches no row owned
// by the caller.
var ErrAccountNotFound = errors.New("account not found")

// CreateAccount inserts a new account row.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	return createAccount(ctx, s.db, account)
}

func createAccount(ctx context.Context, q querier, account *model.Account) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance, currency, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.UserID, account.Name, string(account.Type),
		account.Balance, account.Currency, account.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount returns a single account owned by the user.
func (s *SQLiteStorage) GetAccount(ctx context.Context, userID, accountID string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	return getAccount(ctx, s.db, userID, accountID)
}

func getAccount(ctx context.Context, q querier, userID, accountID string) (*model.Account, error) {
	var a model.Account
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, balance, currency, is_active, created_at
		FROM accounts
		WHERE id = ? AND user_id = ?`, accountID, userID,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &a, nil
}

// GetAccounts returns all of a user's accounts, active first.
func (s *SQLiteStorage) GetAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getAccounts(ctx, s.db, userID)
}

func getAccounts(ctx context.Context, q querier, userID string) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, name, type, balance, currency, is_active, created_at
		FROM accounts
		WHERE user_id = ?
		ORDER BY is_active DESC, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	slog.Debug("retrieved accounts", "count", len(accounts))
	return accounts, nil
}

// AdjustAccountBalance applies a signed delta to an account's stored balance
// in a single UPDATE statement. The balance is never read back to the client
// first, so two adjustments can never clobber each other.
func (s *SQLiteStorage) AdjustAccountBalance(ctx context.Context, userID, accountID string, delta float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}
	return adjustAccountBalance(ctx, s.db, userID, accountID, delta)
}

func adjustAccountBalance(ctx context.Context, q querier, userID, accountID string, delta float64) error {
	result, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + ?
		WHERE id = ? AND user_id = ?`,
		delta, accountID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance adjustment: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return nil
}

// SetAccountActive toggles the soft-delete flag on an account.
func (s *SQLiteStorage) SetAccountActive(ctx context.Context, userID, accountID string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}
	return setAccountActive(ctx, s.db, userID, accountID, active)
}

func setAccountActive(ctx context.Context, q querier, userID, accountID string, active bool) error {
	result, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET is_active = ?
		WHERE id = ? AND user_id = ?`,
		active, accountID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check account update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return nil
}

// DeleteAccount hard-deletes an account row along with its transactions.
// Both deletes run in one transaction so a crash can never leave ledger rows
// pointing at a missing account.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, userID, accountID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteAccount(ctx, tx, userID, accountID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteAccount(ctx context.Context, q querier, userID, accountID string) error {
	result, err := q.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check account delete: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}

	if _, err := q.ExecContext(ctx,
		`DELETE FROM transactions WHERE account_id = ? AND user_id = ?`, accountID, userID); err != nil {
		return fmt.Errorf("failed to delete account transactions: %w", err)
	}
	return nil
}
