// Package ledger keeps account balances consistent with the transaction
// ledger. Every mutation pairs the ledger write with its balance adjustment
// inside a single storage transaction, so the two can never diverge.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"
)

// Maintainer errors.
var (
	ErrAccountInactive  = errors.New("account is inactive")
	ErrCategoryMismatch = errors.New("category type does not match transaction type")
	ErrCategoryUnknown  = errors.New("category does not exist")
)

// driftTolerance absorbs float rounding when comparing a stored balance to a
// recomputed ledger sum.
const driftTolerance = 0.005

// Maintainer applies ledger mutations and their balance effects atomically.
type Maintainer struct {
	storage service.Storage
}

// NewMaintainer creates a balance maintainer on top of a storage service.
func NewMaintainer(storage service.Storage) *Maintainer {
	return &Maintainer{storage: storage}
}

// Record inserts a transaction and applies its effect to the owning account's
// balance. The account must exist, be active, and belong to the transaction's
// owner; a category, if set, must match the transaction's type.
func (m *Maintainer) Record(ctx context.Context, txn *model.Transaction) error {
	tx, err := m.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := m.checkTransaction(ctx, tx, txn); err != nil {
		return err
	}

	if err := tx.SaveTransaction(ctx, txn); err != nil {
		return err
	}
	if err := tx.AdjustAccountBalance(ctx, txn.UserID, txn.AccountID, txn.SignedAmount()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction record: %w", err)
	}

	slog.Debug("recorded transaction",
		"transaction", txn.ID,
		"account", txn.AccountID,
		"effect", txn.SignedAmount())
	return nil
}

// Remove deletes a transaction and applies the inverse adjustment to the
// owning account's balance.
func (m *Maintainer) Remove(ctx context.Context, userID, txnID string) error {
	tx, err := m.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	txn, err := tx.GetTransactionByID(ctx, userID, txnID)
	if err != nil {
		return err
	}

	if err := tx.AdjustAccountBalance(ctx, userID, txn.AccountID, -txn.SignedAmount()); err != nil {
		return err
	}
	if err := tx.DeleteTransaction(ctx, userID, txnID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction removal: %w", err)
	}

	slog.Debug("removed transaction",
		"transaction", txnID,
		"account", txn.AccountID,
		"effect", -txn.SignedAmount())
	return nil
}

// Replace is the only edit operation: it removes the old transaction and
// records the new one as one atomic unit, applying both balance adjustments
// inside the same storage transaction.
func (m *Maintainer) Replace(ctx context.Context, userID, oldID string, newTxn *model.Transaction) error {
	if newTxn == nil {
		return errors.New("replacement transaction cannot be nil")
	}
	if newTxn.UserID != userID {
		return errors.New("replacement transaction must keep the same owner")
	}

	tx, err := m.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	oldTxn, err := tx.GetTransactionByID(ctx, userID, oldID)
	if err != nil {
		return err
	}

	if err := tx.AdjustAccountBalance(ctx, userID, oldTxn.AccountID, -oldTxn.SignedAmount()); err != nil {
		return err
	}
	if err := tx.DeleteTransaction(ctx, userID, oldID); err != nil {
		return err
	}

	if err := m.checkTransaction(ctx, tx, newTxn); err != nil {
		return err
	}
	if err := tx.SaveTransaction(ctx, newTxn); err != nil {
		return err
	}
	if err := tx.AdjustAccountBalance(ctx, userID, newTxn.AccountID, newTxn.SignedAmount()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction replacement: %w", err)
	}

	slog.Debug("replaced transaction", "old", oldID, "new", newTxn.ID)
	return nil
}

// Drift describes a divergence between a stored balance and the ledger sum.
type Drift struct {
	AccountID string
	Stored    float64
	Computed  float64
}

// Amount returns the signed difference between stored and computed balances.
func (d Drift) Amount() float64 {
	return d.Stored - d.Computed
}

// VerifyAccount recomputes the signed sum of an account's transactions and
// compares it to the stored balance. A nil result means no drift.
func (m *Maintainer) VerifyAccount(ctx context.Context, userID, accountID string) (*Drift, error) {
	account, err := m.storage.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	sum, err := m.storage.GetAccountLedgerSum(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if math.Abs(account.Balance-sum) <= driftTolerance {
		return nil, nil
	}
	return &Drift{
		AccountID: accountID,
		Stored:    account.Balance,
		Computed:  sum,
	}, nil
}

// checkTransaction enforces the preconditions of Record inside the supplied
// storage transaction.
func (m *Maintainer) checkTransaction(ctx context.Context, tx service.Transaction, txn *model.Transaction) error {
	account, err := tx.GetAccount(ctx, txn.UserID, txn.AccountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: %s", ErrAccountInactive, account.Name)
	}

	if txn.CategoryID != "" {
		category, err := tx.GetCategoryByID(ctx, txn.UserID, txn.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: %s", ErrCategoryUnknown, txn.CategoryID)
		}
		if string(category.Type) != string(txn.Type) {
			return fmt.Errorf("%w: category %s is %s, transaction is %s",
				ErrCategoryMismatch, category.Name, category.Type, txn.Type)
		}
	}

	return nil
}
