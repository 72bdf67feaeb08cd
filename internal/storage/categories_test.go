package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/billfold/billfold/internal/model"
	"github.com/google/uuid"
)

func TestSQLiteStorage_CategoryCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	food := seedTestCategory(t, store, "user1", "Food", model.CategoryExpense)
	seedTestCategory(t, store, "user1", "Salary", model.CategoryIncome)

	categories, err := store.GetCategories(ctx, "user1")
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("Got %d categories, want 2", len(categories))
	}

	byID, err := store.GetCategoryByID(ctx, "user1", food.ID)
	if err != nil {
		t.Fatalf("Failed to get category by id: %v", err)
	}
	if byID == nil || byID.Name != "Food" {
		t.Errorf("GetCategoryByID = %+v, want Food", byID)
	}

	byName, err := store.GetCategoryByName(ctx, "user1", "Food")
	if err != nil {
		t.Fatalf("Failed to get category by name: %v", err)
	}
	if byName == nil || byName.ID != food.ID {
		t.Errorf("GetCategoryByName = %+v, want %s", byName, food.ID)
	}
}

func TestSQLiteStorage_DuplicateCategoryNameRejected(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	seedTestCategory(t, store, "user1", "Food", model.CategoryExpense)

	dup := &model.Category{
		ID:     uuid.NewString(),
		UserID: "user1",
		Name:   "Food",
		Type:   model.CategoryExpense,
	}
	if err := store.CreateCategory(ctx, dup); err == nil {
		t.Error("Expected duplicate name insert to fail")
	}

	// The same name is fine for a different user.
	other := &model.Category{
		ID:     uuid.NewString(),
		UserID: "user2",
		Name:   "Food",
		Type:   model.CategoryExpense,
	}
	if err := store.CreateCategory(ctx, other); err != nil {
		t.Errorf("Same name for different user should succeed: %v", err)
	}
}

func TestSQLiteStorage_DeleteCategoryUncategorizesTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)
	food := seedTestCategory(t, store, "user1", "Food", model.CategoryExpense)

	txn := makeTestTransaction("user1", account.ID, food.ID, model.TypeExpense, 15, testDate(2026, 8, 1))
	if err := store.SaveTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	if err := store.DeleteCategory(ctx, "user1", food.ID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}

	// The ledger row survives, now uncategorized.
	got, err := store.GetTransactionByID(ctx, "user1", txn.ID)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if got.CategoryID != "" {
		t.Errorf("CategoryID = %q after category delete, want empty", got.CategoryID)
	}
}

func TestSQLiteStorage_DeleteSystemCategoryRefused(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	system := &model.Category{
		ID:       uuid.NewString(),
		UserID:   "user1",
		Name:     "Salary",
		Type:     model.CategoryIncome,
		IsSystem: true,
	}
	if err := store.CreateCategory(ctx, system); err != nil {
		t.Fatalf("Failed to create system category: %v", err)
	}

	err := store.DeleteCategory(ctx, "user1", system.ID)
	if !errors.Is(err, ErrSystemCategory) {
		t.Errorf("Delete system category error = %v, want ErrSystemCategory", err)
	}

	// Still there.
	got, err := store.GetCategoryByID(ctx, "user1", system.ID)
	if err != nil {
		t.Fatalf("Failed to get category: %v", err)
	}
	if got == nil {
		t.Error("System category should survive a refused delete")
	}
}
