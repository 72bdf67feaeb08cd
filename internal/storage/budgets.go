package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/billfold/billfold/internal/model"
)

// ErrBudgetNotFound is returned when a budget lookup matches no row owned by
// the caller.
var ErrBudgetNotFound = errors.New("budget not found")

// CreateBudget inserts a new budget row. Budgets are a pure read-side view
// over the ledger; creating or deleting one never touches balances.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}
	return createBudget(ctx, s.db, budget)
}

func createBudget(ctx context.Context, q querier, budget *model.Budget) error {
	var endDate any
	if budget.EndDate != nil {
		endDate = *budget.EndDate
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category_id, amount, period, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.UserID, budget.CategoryID, budget.Amount,
		string(budget.Period), budget.StartDate, endDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// GetBudgets returns all of a user's budgets.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getBudgets(ctx, s.db, userID)
}

func getBudgets(ctx context.Context, q querier, userID string) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, category_id, amount, period, start_date, end_date, created_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "count", len(budgets))
	return budgets, nil
}

// GetBudgetByID returns a single budget owned by the user.
func (s *SQLiteStorage) GetBudgetByID(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(budgetID, "budgetID"); err != nil {
		return nil, err
	}
	return getBudgetByID(ctx, s.db, userID, budgetID)
}

func getBudgetByID(ctx context.Context, q querier, userID, budgetID string) (*model.Budget, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, amount, period, start_date, end_date, created_at
		FROM budgets
		WHERE id = ? AND user_id = ?`, budgetID, userID)

	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBudgetNotFound, budgetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return b, nil
}

// DeleteBudget removes a budget row. Transactions and balances are unaffected.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(budgetID, "budgetID"); err != nil {
		return err
	}
	return deleteBudget(ctx, s.db, userID, budgetID)
}

func deleteBudget(ctx context.Context, q querier, userID, budgetID string) error {
	result, err := q.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check budget delete: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrBudgetNotFound, budgetID)
	}
	return nil
}

func scanBudget(row scanner) (*model.Budget, error) {
	var b model.Budget
	var endDate sql.NullTime
	if err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period,
		&b.StartDate, &endDate, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	if endDate.Valid {
		t := endDate.Time
		b.EndDate = &t
	}
	return &b, nil
}
