// Package storage provides the data persistence layer for the billfold
// application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/billfold/billfold/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidType      = errors.New("invalid type value")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single ledger transaction before any
// database call is made.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: transaction ID", ErrEmptyString)
	}
	if txn.UserID == "" {
		return fmt.Errorf("%w: transaction user ID", ErrEmptyString)
	}
	if txn.AccountID == "" {
		return fmt.Errorf("%w: transaction account ID", ErrEmptyString)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("invalid transaction: missing date")
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidAmount, txn.Amount)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, txn.Type)
	}
	return nil
}

// validateAccount validates an account record.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" {
		return fmt.Errorf("%w: account ID", ErrEmptyString)
	}
	if account.UserID == "" {
		return fmt.Errorf("%w: account user ID", ErrEmptyString)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: account name", ErrEmptyString)
	}
	if !account.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, account.Type)
	}
	return nil
}

// validateCategory validates a category record.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if category.ID == "" {
		return fmt.Errorf("%w: category ID", ErrEmptyString)
	}
	if category.UserID == "" {
		return fmt.Errorf("%w: category user ID", ErrEmptyString)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: category name", ErrEmptyString)
	}
	if !category.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, category.Type)
	}
	return nil
}

// validateBudget validates a budget record.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.ID == "" {
		return fmt.Errorf("%w: budget ID", ErrEmptyString)
	}
	if budget.UserID == "" {
		return fmt.Errorf("%w: budget user ID", ErrEmptyString)
	}
	if budget.CategoryID == "" {
		return fmt.Errorf("%w: budget category ID", ErrEmptyString)
	}
	if budget.Amount <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidAmount, budget.Amount)
	}
	if !budget.Period.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, budget.Period)
	}
	if budget.EndDate != nil && budget.EndDate.Before(budget.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// validateProfile validates a profile record.
func validateProfile(profile *model.Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if profile.ID == "" {
		return fmt.Errorf("%w: profile ID", ErrEmptyString)
	}
	if profile.UserID == "" {
		return fmt.Errorf("%w: profile user ID", ErrEmptyString)
	}
	if strings.TrimSpace(profile.DisplayName) == "" {
		return fmt.Errorf("%w: profile display name", ErrEmptyString)
	}
	return nil
}
