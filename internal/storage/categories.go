package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/billfold/billfold/internal/model"
)

// Category errors.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSystemCategory   = errors.New("system categories cannot be deleted")
)

// CreateCategory inserts a new category row.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return createCategory(ctx, s.db, category)
}

func createCategory(ctx context.Context, q querier, category *model.Category) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, type, color, is_system)
		VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID, category.UserID, category.Name, string(category.Type),
		category.Color, category.IsSystem,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category %q: %w", category.Name, err)
	}
	return nil
}

// GetCategories returns all of a user's categories, system ones first.
func (s *SQLiteStorage) GetCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db, userID)
}

func getCategories(ctx context.Context, q querier, userID string) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, name, type, color, is_system, created_at
		FROM categories
		WHERE user_id = ?
		ORDER BY is_system DESC, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &cat.IsSystem, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a category by id, or nil if it does not exist.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, userID, categoryID string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	return getCategoryByID(ctx, s.db, userID, categoryID)
}

func getCategoryByID(ctx context.Context, q querier, userID, categoryID string) (*model.Category, error) {
	var cat model.Category
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, color, is_system, created_at
		FROM categories
		WHERE id = ? AND user_id = ?`, categoryID, userID,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &cat.IsSystem, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// GetCategoryByName returns a category by name, or nil if it does not exist.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, userID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCategoryByName(ctx, s.db, userID, name)
}

func getCategoryByName(ctx context.Context, q querier, userID, name string) (*model.Category, error) {
	var cat model.Category
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, color, is_system, created_at
		FROM categories
		WHERE name = ? AND user_id = ?`, name, userID,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &cat.IsSystem, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// DeleteCategory removes a user-created category and reassigns its
// transactions to uncategorized. System categories are refused.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteCategory(ctx, tx, userID, categoryID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteCategory(ctx context.Context, q querier, userID, categoryID string) error {
	cat, err := getCategoryByID(ctx, q, userID, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	if cat.IsSystem {
		return fmt.Errorf("%w: %s", ErrSystemCategory, cat.Name)
	}

	// Orphan the category's transactions to uncategorized before removal.
	if _, err := q.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = NULL
		WHERE category_id = ? AND user_id = ?`,
		categoryID, userID,
	); err != nil {
		return fmt.Errorf("failed to uncategorize transactions: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	slog.Debug("deleted category", "category", cat.Name)
	return nil
}
