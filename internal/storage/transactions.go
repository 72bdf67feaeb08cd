package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"
)

// ErrTransactionNotFound is returned when a ledger row lookup matches nothing
// owned by the caller.
var ErrTransactionNotFound = errors.New("transaction not found")

// SaveTransaction inserts a single ledger row. Balance maintenance is the
// ledger package's responsibility; this only persists the row.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return saveTransaction(ctx, s.db, txn)
}

func saveTransaction(ctx context.Context, q querier, txn *model.Transaction) error {
	if txn.Hash == "" {
		txn.Hash = txn.GenerateHash()
	}

	var categoryID any
	if txn.CategoryID != "" {
		categoryID = txn.CategoryID
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (
			id, user_id, account_id, category_id, hash, date,
			description, notes, type, amount, recurring_source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.AccountID, categoryID, txn.Hash, txn.Date,
		txn.Description, txn.Notes, string(txn.Type), txn.Amount, txn.RecurringSource,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

// GetTransactionByID returns a single ledger row owned by the user.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, userID, txnID string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(txnID, "txnID"); err != nil {
		return nil, err
	}
	return getTransactionByID(ctx, s.db, userID, txnID)
}

func getTransactionByID(ctx context.Context, q querier, userID, txnID string) (*model.Transaction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, account_id, category_id, hash, date,
		       description, notes, type, amount, recurring_source, created_at
		FROM transactions
		WHERE id = ? AND user_id = ?`, txnID, userID)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, txnID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// GetTransactions returns the user's ledger rows matching the filter, newest
// first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getTransactions(ctx, s.db, userID, filter)
}

func getTransactions(ctx context.Context, q querier, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, user_id, account_id, category_id, hash, date,
		       description, notes, type, amount, recurring_source, created_at
		FROM transactions
		WHERE user_id = ?`)
	args := []any{userID}

	if filter.StartDate != nil {
		query.WriteString(" AND date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query.WriteString(" AND date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.AccountID != "" {
		query.WriteString(" AND account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != "" {
		query.WriteString(" AND category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Type != "" {
		query.WriteString(" AND type = ?")
		args = append(args, string(filter.Type))
	}

	query.WriteString(" ORDER BY date DESC, created_at DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query.WriteString(" OFFSET ?")
			args = append(args, filter.Offset)
		}
	}

	rows, err := q.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "count", len(transactions))
	return transactions, nil
}

// DeleteTransaction removes a ledger row. Balance maintenance is the ledger
// package's responsibility.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(txnID, "txnID"); err != nil {
		return err
	}
	return deleteTransaction(ctx, s.db, userID, txnID)
}

func deleteTransaction(ctx context.Context, q querier, userID, txnID string) error {
	result, err := q.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, txnID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transaction delete: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, txnID)
	}
	return nil
}

// TransactionExistsByHash reports whether the user already has a ledger row
// with the given duplicate-detection hash.
func (s *SQLiteStorage) TransactionExistsByHash(ctx context.Context, userID, hash string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return false, err
	}
	if err := validateString(hash, "hash"); err != nil {
		return false, err
	}
	return transactionExistsByHash(ctx, s.db, userID, hash)
}

func transactionExistsByHash(ctx context.Context, q querier, userID, hash string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM transactions WHERE user_id = ? AND hash = ?`,
		userID, hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction hash: %w", err)
	}
	return count > 0, nil
}

// GetAccountLedgerSum returns the signed sum of an account's surviving
// transactions: income positive, expense negative.
func (s *SQLiteStorage) GetAccountLedgerSum(ctx context.Context, userID, accountID string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return 0, err
	}
	return getAccountLedgerSum(ctx, s.db, userID, accountID)
}

func getAccountLedgerSum(ctx context.Context, q querier, userID, accountID string) (float64, error) {
	var sum float64
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE type WHEN 'income' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE user_id = ? AND account_id = ?`,
		userID, accountID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return sum, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var txn model.Transaction
	var categoryID sql.NullString
	if err := row.Scan(
		&txn.ID, &txn.UserID, &txn.AccountID, &categoryID, &txn.Hash, &txn.Date,
		&txn.Description, &txn.Notes, &txn.Type, &txn.Amount, &txn.RecurringSource, &txn.CreatedAt,
	); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		txn.CategoryID = categoryID.String
	}
	return &txn, nil
}
