// Package session is the identity collaborator: it tracks which user the CLI
// is acting as. State is a JSON file under the application state directory,
// the same way OAuth tokens are persisted.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/billfold/billfold/internal/common"
	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/provision"
	"github.com/billfold/billfold/internal/service"
	"github.com/google/uuid"
)

// ErrNotSignedIn is returned when no user session exists.
var ErrNotSignedIn = errors.New("not signed in (run 'billfold auth signup' or 'billfold auth signin')")

// state is the on-disk session record.
type state struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	SignedInAt  time.Time `json:"signed_in_at"`
}

// Manager implements service.Session over a state file and the storage layer.
type Manager struct {
	storage   service.Storage
	statePath string
}

// NewManager creates a session manager persisting to stateDir/session.json.
func NewManager(storage service.Storage, stateDir string) *Manager {
	return &Manager{
		storage:   storage,
		statePath: filepath.Join(stateDir, "session.json"),
	}
}

// CurrentUserID returns the signed-in user's id, or ErrNotSignedIn.
func (m *Manager) CurrentUserID() (string, error) {
	st, err := m.load()
	if err != nil {
		return "", err
	}
	if st == nil || st.UserID == "" {
		return "", ErrNotSignedIn
	}
	return st.UserID, nil
}

// SignUp creates a new identity, provisions its baseline data, and signs the
// session in as that user. Provisioning is idempotent, so a signup retried
// after a partial failure completes cleanly rather than duplicating seeds.
func (m *Manager) SignUp(ctx context.Context, displayName, currency string) (*model.Profile, error) {
	if displayName == "" {
		return nil, errors.New("display name is required")
	}

	existing, err := m.storage.FindProfileByName(ctx, displayName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("a profile named %q already exists; use 'billfold auth signin'", displayName),
			common.ErrDuplicateEntry)
	}

	userID := uuid.NewString()
	profile, err := provision.Seed(ctx, m.storage, userID, displayName, currency)
	if err != nil {
		return nil, err
	}

	if err := m.save(&state{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		SignedInAt:  time.Now(),
	}); err != nil {
		return nil, err
	}

	slog.Info("signed up", "user", profile.UserID, "name", profile.DisplayName)
	return profile, nil
}

// SignIn switches the session to an existing profile looked up by name.
func (m *Manager) SignIn(ctx context.Context, displayName string) (string, error) {
	profile, err := m.storage.FindProfileByName(ctx, displayName)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", common.NewUserError(
			fmt.Sprintf("no profile named %q", displayName), common.ErrNotFound)
	}

	if err := m.save(&state{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		SignedInAt:  time.Now(),
	}); err != nil {
		return "", err
	}

	slog.Info("signed in", "user", profile.UserID, "name", profile.DisplayName)
	return profile.UserID, nil
}

// SignOut clears the session state.
func (m *Manager) SignOut() error {
	if err := os.Remove(m.statePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (m *Manager) load() (*state, error) {
	data, err := os.ReadFile(m.statePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &st, nil
}

func (m *Manager) save(st *state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(m.statePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
