// Package provision seeds a new user's baseline data at signup: one profile
// and the fixed set of system categories. Seeding is idempotent, keyed off
// profile existence, and runs inside a single storage transaction.
package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"
	"github.com/google/uuid"
)

// DefaultCurrency is assigned to profiles created without an explicit one.
const DefaultCurrency = "USD"

// SeedCategory describes one system category created at signup.
type SeedCategory struct {
	Name  string
	Color string
	Type  model.CategoryType
}

// DefaultCategories is the fixed list of system categories every new user
// receives, each pre-assigned a color.
var DefaultCategories = []SeedCategory{
	{Name: "Salary", Type: model.CategoryIncome, Color: "#4ECDC4"},
	{Name: "Freelance", Type: model.CategoryIncome, Color: "#95E1D3"},
	{Name: "Food & Dining", Type: model.CategoryExpense, Color: "#FF6B6B"},
	{Name: "Transportation", Type: model.CategoryExpense, Color: "#FFE66D"},
	{Name: "Shopping", Type: model.CategoryExpense, Color: "#C44569"},
	{Name: "Entertainment", Type: model.CategoryExpense, Color: "#786FA6"},
	{Name: "Bills & Utilities", Type: model.CategoryExpense, Color: "#F8A5C2"},
	{Name: "Healthcare", Type: model.CategoryExpense, Color: "#63CDDA"},
}

// Seed establishes a user's baseline data. If the user already has a profile
// the call is a no-op and returns the existing profile; a second invocation
// can never duplicate the system categories.
func Seed(ctx context.Context, storage service.Storage, userID, displayName, currency string) (*model.Profile, error) {
	if currency == "" {
		currency = DefaultCurrency
	}

	tx, err := storage.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := tx.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Debug("user already provisioned", "user", userID)
		return existing, nil
	}

	profile := &model.Profile{
		ID:          uuid.NewString(),
		UserID:      userID,
		DisplayName: displayName,
		Currency:    currency,
	}
	if err := tx.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	for _, seed := range DefaultCategories {
		category := &model.Category{
			ID:       uuid.NewString(),
			UserID:   userID,
			Name:     seed.Name,
			Type:     seed.Type,
			Color:    seed.Color,
			IsSystem: true,
		}
		if err := tx.CreateCategory(ctx, category); err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", seed.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit provisioning: %w", err)
	}

	slog.Info("provisioned new user",
		"user", userID,
		"categories", len(DefaultCategories))
	return profile, nil
}
