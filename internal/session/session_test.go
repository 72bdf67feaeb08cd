package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/billfold/billfold/internal/common"
	"github.com/billfold/billfold/internal/provision"
	"github.com/billfold/billfold/internal/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.SQLiteStorage) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return NewManager(store, tmpDir), store
}

func TestManager_NotSignedIn(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.CurrentUserID()
	if !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("CurrentUserID error = %v, want ErrNotSignedIn", err)
	}
}

func TestManager_SignUpSignsIn(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	profile, err := manager.SignUp(ctx, "Alice", "USD")
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}

	userID, err := manager.CurrentUserID()
	if err != nil {
		t.Fatalf("Failed to get current user: %v", err)
	}
	if userID != profile.UserID {
		t.Errorf("CurrentUserID = %s, want %s", userID, profile.UserID)
	}

	// Signup provisioned the baseline categories.
	categories, err := store.GetCategories(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(categories) != len(provision.DefaultCategories) {
		t.Errorf("Got %d categories after signup, want %d",
			len(categories), len(provision.DefaultCategories))
	}
}

func TestManager_SignUpDuplicateNameRejected(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.SignUp(ctx, "Alice", ""); err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}
	_, err := manager.SignUp(ctx, "Alice", "")
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("Duplicate signup error = %v, want ErrDuplicateEntry", err)
	}
}

func TestManager_SignInAndOut(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	alice, err := manager.SignUp(ctx, "Alice", "")
	if err != nil {
		t.Fatalf("Failed to sign up Alice: %v", err)
	}
	bob, err := manager.SignUp(ctx, "Bob", "")
	if err != nil {
		t.Fatalf("Failed to sign up Bob: %v", err)
	}

	// Signing up Bob switched the session; switch back by name.
	userID, err := manager.SignIn(ctx, "Alice")
	if err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	if userID != alice.UserID {
		t.Errorf("SignIn = %s, want %s", userID, alice.UserID)
	}
	if userID == bob.UserID {
		t.Error("Session should no longer be Bob's")
	}

	if err := manager.SignOut(); err != nil {
		t.Fatalf("Failed to sign out: %v", err)
	}
	if _, err := manager.CurrentUserID(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("CurrentUserID after signout error = %v, want ErrNotSignedIn", err)
	}

	// Signing out twice is fine.
	if err := manager.SignOut(); err != nil {
		t.Errorf("Second signout should succeed: %v", err)
	}
}

func TestManager_SignInUnknownName(t *testing.T) {
	manager, _ := newTestManager(t)

	if _, err := manager.SignIn(context.Background(), "Nobody"); err == nil {
		t.Error("Expected sign in with unknown name to fail")
	}
}
