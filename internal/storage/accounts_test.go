package storage

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/billfold/billfold/internal/model"
	"github.com/google/uuid"
)

func TestSQLiteStorage_AccountCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 1000)

	got, err := store.GetAccount(ctx, "user1", account.ID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if got.Balance != 1000 {
		t.Errorf("Balance = %.2f, want 1000.00", got.Balance)
	}
	if !got.IsActive {
		t.Error("New account should be active")
	}

	// Another user must not see it.
	if _, err := store.GetAccount(ctx, "user2", account.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Cross-user lookup error = %v, want ErrAccountNotFound", err)
	}
}

func TestSQLiteStorage_AdjustAccountBalance(t *testing.T) {
	tests := []struct {
		name    string
		deltas  []float64
		initial float64
		want    float64
	}{
		{
			name:    "single expense",
			initial: 1000,
			deltas:  []float64{-50},
			want:    950,
		},
		{
			name:    "expense then inverse restores balance",
			initial: 1000,
			deltas:  []float64{-50, 50},
			want:    1000,
		},
		{
			name:    "mixed income and expense",
			initial: 0,
			deltas:  []float64{2500, -1200.50, -99.99},
			want:    1199.51,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			seedTestProfile(t, store, "user1")
			account := seedTestAccount(t, store, "user1", tt.initial)

			for _, delta := range tt.deltas {
				if err := store.AdjustAccountBalance(ctx, "user1", account.ID, delta); err != nil {
					t.Fatalf("Failed to adjust balance by %.2f: %v", delta, err)
				}
			}

			got, err := store.GetAccount(ctx, "user1", account.ID)
			if err != nil {
				t.Fatalf("Failed to get account: %v", err)
			}
			if math.Abs(got.Balance-tt.want) > 0.001 {
				t.Errorf("Balance = %.4f, want %.2f", got.Balance, tt.want)
			}
		})
	}
}

func TestSQLiteStorage_AdjustAccountBalance_MissingAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.AdjustAccountBalance(context.Background(), "user1", uuid.NewString(), -10)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Adjust on missing account error = %v, want ErrAccountNotFound", err)
	}
}

func TestSQLiteStorage_SetAccountActive(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 0)

	if err := store.SetAccountActive(ctx, "user1", account.ID, false); err != nil {
		t.Fatalf("Failed to close account: %v", err)
	}
	got, err := store.GetAccount(ctx, "user1", account.ID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if got.IsActive {
		t.Error("Account should be inactive after close")
	}

	// Closed accounts keep their history; reopening restores them.
	if err := store.SetAccountActive(ctx, "user1", account.ID, true); err != nil {
		t.Fatalf("Failed to reopen account: %v", err)
	}
	got, err = store.GetAccount(ctx, "user1", account.ID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if !got.IsActive {
		t.Error("Account should be active after reopen")
	}
}

func TestSQLiteStorage_GetAccountsOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	active := seedTestAccount(t, store, "user1", 0)
	closed := seedTestAccount(t, store, "user1", 0)
	if err := store.SetAccountActive(ctx, "user1", closed.ID, false); err != nil {
		t.Fatalf("Failed to close account: %v", err)
	}

	accounts, err := store.GetAccounts(ctx, "user1")
	if err != nil {
		t.Fatalf("Failed to list accounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("Got %d accounts, want 2", len(accounts))
	}
	if accounts[0].ID != active.ID {
		t.Errorf("Active account should sort first, got %s", accounts[0].Name)
	}
}

func TestSQLiteStorage_DeleteAccountCascades(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedTestProfile(t, store, "user1")
	account := seedTestAccount(t, store, "user1", 100)
	category := seedTestCategory(t, store, "user1", "Food", model.CategoryExpense)

	txn := makeTestTransaction("user1", account.ID, category.ID, model.TypeExpense, 25, testDate(2026, 3, 1))
	if err := store.SaveTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	if err := store.DeleteAccount(ctx, "user1", account.ID); err != nil {
		t.Fatalf("Failed to delete account: %v", err)
	}

	if _, err := store.GetAccount(ctx, "user1", account.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Deleted account lookup error = %v, want ErrAccountNotFound", err)
	}
	if _, err := store.GetTransactionByID(ctx, "user1", txn.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Orphan transaction lookup error = %v, want ErrTransactionNotFound", err)
	}
}
