package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/billfold/billfold/internal/model"
)

// CreateProfile inserts a new profile row.
func (s *SQLiteStorage) CreateProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	return createProfile(ctx, s.db, profile)
}

func createProfile(ctx context.Context, q querier, profile *model.Profile) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, display_name, currency)
		VALUES (?, ?, ?, ?)`,
		profile.ID, profile.UserID, profile.DisplayName, profile.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// GetProfile returns the profile for a user, or nil if none exists.
func (s *SQLiteStorage) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getProfile(ctx, s.db, userID)
}

func getProfile(ctx context.Context, q querier, userID string) (*model.Profile, error) {
	var p model.Profile
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, display_name, currency, created_at
		FROM profiles
		WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.UserID, &p.DisplayName, &p.Currency, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &p, nil
}

// FindProfileByName returns the first profile with the given display name, or
// nil if none exists. Used by the session collaborator at sign-in.
func (s *SQLiteStorage) FindProfileByName(ctx context.Context, displayName string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(displayName, "displayName"); err != nil {
		return nil, err
	}
	return findProfileByName(ctx, s.db, displayName)
}

func findProfileByName(ctx context.Context, q querier, displayName string) (*model.Profile, error) {
	var p model.Profile
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, display_name, currency, created_at
		FROM profiles
		WHERE display_name = ?
		ORDER BY created_at
		LIMIT 1`, displayName,
	).Scan(&p.ID, &p.UserID, &p.DisplayName, &p.Currency, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile by name: %w", err)
	}
	return &p, nil
}

// UpdateProfile updates the mutable fields of a profile.
func (s *SQLiteStorage) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}
	return updateProfile(ctx, s.db, profile)
}

func updateProfile(ctx context.Context, q querier, profile *model.Profile) error {
	result, err := q.ExecContext(ctx, `
		UPDATE profiles
		SET display_name = ?, currency = ?
		WHERE user_id = ?`,
		profile.DisplayName, profile.Currency, profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile for user %s not found", profile.UserID)
	}
	return nil
}

// GetGoals returns all goals for a user. Goals carry no behavior; the rows
// exist only so the schema matches the rest of the data model.
func (s *SQLiteStorage) GetGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	return getGoals(ctx, s.db, userID)
}

func getGoals(ctx context.Context, q querier, userID string) ([]model.Goal, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, name, target, saved, target_date, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var g model.Goal
		var targetDate sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Saved, &targetDate, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if targetDate.Valid {
			g.TargetDate = targetDate.Time
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}
