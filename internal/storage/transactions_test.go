package storage

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"
)

func TestSQLiteStorage_SaveAndGetTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)
	category := seedTestCategory(t, store, "user1", "Food", model.CategoryExpense)

	txn := makeTestTransaction("user1", account.ID, category.ID, model.TypeExpense, 42.50, testDate(2026, 8, 15))
	txn.Notes = "lunch"
	if err := store.SaveTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	got, err := store.GetTransactionByID(ctx, "user1", txn.ID)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if got.Amount != 42.50 || got.Type != model.TypeExpense {
		t.Errorf("Transaction = %.2f/%s, want 42.50/expense", got.Amount, got.Type)
	}
	if got.CategoryID != category.ID {
		t.Errorf("CategoryID = %q, want %q", got.CategoryID, category.ID)
	}
	if got.Notes != "lunch" {
		t.Errorf("Notes = %q, want lunch", got.Notes)
	}
	if got.Hash == "" {
		t.Error("Saved transaction should carry a hash")
	}
}

func TestSQLiteStorage_SaveTransaction_UncategorizedStoredAsNull(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)

	txn := makeTestTransaction("user1", account.ID, "", model.TypeIncome, 100, testDate(2026, 8, 1))
	if err := store.SaveTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to save uncategorized transaction: %v", err)
	}

	got, err := store.GetTransactionByID(ctx, "user1", txn.ID)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if got.CategoryID != "" {
		t.Errorf("Uncategorized CategoryID = %q, want empty", got.CategoryID)
	}
}

func TestSQLiteStorage_GetTransactionsFilters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	checking := seedTestAccount(t, store, "user1", 0)
	savings := seedTestAccount(t, store, "user1", 0)
	food := seedTestCategory(t, store, "user1", "Food", model.CategoryExpense)

	seed := []*model.Transaction{
		makeTestTransaction("user1", checking.ID, food.ID, model.TypeExpense, 10, testDate(2026, 8, 1)),
		makeTestTransaction("user1", checking.ID, "", model.TypeIncome, 500, testDate(2026, 8, 5)),
		makeTestTransaction("user1", savings.ID, food.ID, model.TypeExpense, 20, testDate(2026, 8, 10)),
		makeTestTransaction("user1", checking.ID, food.ID, model.TypeExpense, 30, testDate(2026, 7, 20)),
	}
	for _, txn := range seed {
		if err := store.SaveTransaction(ctx, txn); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	augStart := testDate(2026, 8, 1)
	augEnd := testDate(2026, 8, 31)

	tests := []struct {
		name    string
		filter  service.TransactionFilter
		wantLen int
	}{
		{
			name:    "no filter returns everything",
			filter:  service.TransactionFilter{},
			wantLen: 4,
		},
		{
			name:    "date range",
			filter:  service.TransactionFilter{StartDate: &augStart, EndDate: &augEnd},
			wantLen: 3,
		},
		{
			name:    "by account",
			filter:  service.TransactionFilter{AccountID: savings.ID},
			wantLen: 1,
		},
		{
			name:    "by category",
			filter:  service.TransactionFilter{CategoryID: food.ID},
			wantLen: 3,
		},
		{
			name:    "by type",
			filter:  service.TransactionFilter{Type: model.TypeIncome},
			wantLen: 1,
		},
		{
			name:    "limit",
			filter:  service.TransactionFilter{Limit: 2},
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetTransactions(ctx, "user1", tt.filter)
			if err != nil {
				t.Fatalf("Failed to get transactions: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("Got %d transactions, want %d", len(got), tt.wantLen)
			}
		})
	}

	// Newest first.
	all, err := store.GetTransactions(ctx, "user1", service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.After(all[i-1].Date) {
			t.Errorf("Transactions out of order at index %d", i)
		}
	}
}

func TestSQLiteStorage_TransactionExistsByHash(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)

	txn := makeTestTransaction("user1", account.ID, "", model.TypeExpense, 12.34, testDate(2026, 8, 15))
	if err := store.SaveTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	exists, err := store.TransactionExistsByHash(ctx, "user1", txn.Hash)
	if err != nil {
		t.Fatalf("Failed to check hash: %v", err)
	}
	if !exists {
		t.Error("Expected hash to exist")
	}

	// The same hash under a different user is invisible.
	exists, err = store.TransactionExistsByHash(ctx, "user2", txn.Hash)
	if err != nil {
		t.Fatalf("Failed to check hash: %v", err)
	}
	if exists {
		t.Error("Hash should not leak across users")
	}
}

func TestSQLiteStorage_IdenticalContentRowsBothPersist(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)

	// Buying the same coffee twice in a day is two real rows with the same
	// content hash. The hash is advisory (import-time dedup lookup), never
	// a constraint on manual entry.
	first := makeTestTransaction("user1", account.ID, "", model.TypeExpense, 9.99, testDate(2026, 8, 15))
	if err := store.SaveTransaction(ctx, first); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	dup := makeTestTransaction("user1", account.ID, "", model.TypeExpense, 9.99, testDate(2026, 8, 15))
	if dup.Hash != first.Hash {
		t.Fatal("Test setup: expected identical hashes")
	}
	if err := store.SaveTransaction(ctx, dup); err != nil {
		t.Fatalf("Second identical transaction should persist: %v", err)
	}

	transactions, err := store.GetTransactions(ctx, "user1", service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(transactions) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(transactions))
	}

	exists, err := store.TransactionExistsByHash(ctx, "user1", first.Hash)
	if err != nil {
		t.Fatalf("Failed to check hash: %v", err)
	}
	if !exists {
		t.Error("Expected hash lookup to still find the rows")
	}
}

func TestSQLiteStorage_GetAccountLedgerSum(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)

	seed := []*model.Transaction{
		makeTestTransaction("user1", account.ID, "", model.TypeIncome, 1000, testDate(2026, 8, 1)),
		makeTestTransaction("user1", account.ID, "", model.TypeExpense, 250.25, testDate(2026, 8, 2)),
		makeTestTransaction("user1", account.ID, "", model.TypeExpense, 100, testDate(2026, 8, 3)),
	}
	for _, txn := range seed {
		if err := store.SaveTransaction(ctx, txn); err != nil {
			t.Fatalf("Failed to seed transaction: %v", err)
		}
	}

	sum, err := store.GetAccountLedgerSum(ctx, "user1", account.ID)
	if err != nil {
		t.Fatalf("Failed to sum ledger: %v", err)
	}
	if math.Abs(sum-649.75) > 0.001 {
		t.Errorf("Ledger sum = %.4f, want 649.75", sum)
	}

	// An account with no rows sums to zero, not an error.
	empty := seedTestAccount(t, store, "user1", 0)
	sum, err = store.GetAccountLedgerSum(ctx, "user1", empty.ID)
	if err != nil {
		t.Fatalf("Failed to sum empty ledger: %v", err)
	}
	if sum != 0 {
		t.Errorf("Empty ledger sum = %.4f, want 0", sum)
	}
}

func TestSQLiteStorage_DeleteTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)

	txn := makeTestTransaction("user1", account.ID, "", model.TypeExpense, 5, testDate(2026, 8, 15))
	if err := store.SaveTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	if err := store.DeleteTransaction(ctx, "user1", txn.ID); err != nil {
		t.Fatalf("Failed to delete transaction: %v", err)
	}
	if _, err := store.GetTransactionByID(ctx, "user1", txn.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Deleted transaction lookup error = %v, want ErrTransactionNotFound", err)
	}

	// Deleting again reports not found.
	if err := store.DeleteTransaction(ctx, "user1", txn.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Second delete error = %v, want ErrTransactionNotFound", err)
	}
}
