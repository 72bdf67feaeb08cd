package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/billfold/billfold/internal/config"
	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"
	"github.com/billfold/billfold/internal/session"
	"github.com/billfold/billfold/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/billfold/billfold.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initSession creates the session manager backed by the state directory.
func initSession(store service.Storage) (*session.Manager, error) {
	stateDir, err := config.StateDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state directory: %w", err)
	}
	return session.NewManager(store, stateDir), nil
}

// requireUser returns storage and the signed-in user id, or an error telling
// the user to sign in.
func requireUser(ctx context.Context) (service.Storage, string, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, "", err
	}

	sess, err := initSession(store)
	if err != nil {
		_ = store.Close()
		return nil, "", err
	}

	userID, err := sess.CurrentUserID()
	if err != nil {
		_ = store.Close()
		return nil, "", err
	}

	return store, userID, nil
}

// resolveAccount finds an account by full id, id prefix, or name.
func resolveAccount(ctx context.Context, store service.Storage, userID, ref string) (*model.Account, error) {
	accounts, err := store.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matches []*model.Account
	for i := range accounts {
		account := &accounts[i]
		if account.ID == ref {
			return account, nil
		}
		if strings.HasPrefix(account.ID, ref) || strings.EqualFold(account.Name, ref) {
			matches = append(matches, account)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no account matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("account reference %q is ambiguous", ref)
	}
}

// resolveCategory finds a category by full id, id prefix, or name.
func resolveCategory(ctx context.Context, store service.Storage, userID, ref string) (*model.Category, error) {
	if cat, err := store.GetCategoryByName(ctx, userID, ref); err == nil && cat != nil {
		return cat, nil
	}

	categories, err := store.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matches []*model.Category
	for i := range categories {
		category := &categories[i]
		if category.ID == ref {
			return category, nil
		}
		if strings.HasPrefix(category.ID, ref) {
			matches = append(matches, category)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no category matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("category reference %q is ambiguous", ref)
	}
}

// parseDate parses a YYYY-MM-DD flag value, defaulting to today when empty.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return date, nil
}
