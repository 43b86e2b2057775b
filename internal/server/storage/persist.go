package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/filex"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
)

// snapshot is the persisted form of the whole store: five top-level keyed
// collections. Timestamps serialize as RFC3339 via time.Time. There is no
// schema version; every load replaces the in-memory state wholesale.
type snapshot struct {
	Users           map[string]*models.User `json:"users"`
	UsersByEmail    map[string]string       `json:"users_by_email"`
	UsersByUsername map[string]string       `json:"users_by_username"`
	Tasks           map[string]*models.Task `json:"tasks"`
	UserTasks       map[string][]string     `json:"user_tasks"`
}

// cloneSnapshot deep-copies the current state under shared access so the
// caller can serialize without holding the lock.
func (s *Store) cloneSnapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot{
		Users:           make(map[string]*models.User, len(s.data.users)),
		UsersByEmail:    make(map[string]string, len(s.data.usersByEmail)),
		UsersByUsername: make(map[string]string, len(s.data.usersByUsername)),
		Tasks:           make(map[string]*models.Task, len(s.data.tasks)),
		UserTasks:       make(map[string][]string, len(s.data.userTasks)),
	}
	for id, u := range s.data.users {
		snap.Users[id] = u.Clone()
	}
	for email, id := range s.data.usersByEmail {
		snap.UsersByEmail[email] = id
	}
	for username, id := range s.data.usersByUsername {
		snap.UsersByUsername[username] = id
	}
	for id, t := range s.data.tasks {
		snap.Tasks[id] = t.Clone()
	}
	for userID, ids := range s.data.userTasks {
		snap.UserTasks[userID] = append([]string(nil), ids...)
	}
	return snap
}

// replace swaps the in-memory state for the decoded snapshot.
func (s *Store) replace(snap *snapshot) {
	data := newStoreData()
	if snap.Users != nil {
		data.users = snap.Users
	}
	if snap.UsersByEmail != nil {
		data.usersByEmail = snap.UsersByEmail
	}
	if snap.UsersByUsername != nil {
		data.usersByUsername = snap.UsersByUsername
	}
	if snap.Tasks != nil {
		data.tasks = snap.Tasks
	}
	if snap.UserTasks != nil {
		data.userTasks = snap.UserTasks
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Save serializes the entire current state to the configured snapshot path,
// writing a temporary file first and renaming it over the target, so a crash
// mid-write can never leave a half-written snapshot. Concurrent saves may
// overlap at the filesystem level; each writes a complete state, so the race
// is last-writer-wins, never corruption. No-op when persistence is off.
func (s *Store) Save(ctx context.Context) error {
	// SetPath may rebind the target concurrently; read it once via the lock.
	path := s.Path()
	if path == "" {
		return nil
	}

	snap := s.cloneSnapshot()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing snapshot: %w", err)
	}

	if err := filex.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	s.logger.Debug(ctx, "snapshot saved", "path", path)
	return nil
}

// Load reads the configured snapshot and replaces the in-memory state. An
// absent file is a no-op (fresh store); an unreadable or unparseable file is
// an error the caller decides about — app startup treats it as fatal rather
// than silently discarding data.
func (s *Store) Load(ctx context.Context) error {
	path := s.Path()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}

	snap := &snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrDecodeFailure, path, err)
	}

	s.replace(snap)
	s.logger.Info(ctx, "snapshot loaded", "path", path,
		"users", len(snap.Users), "tasks", len(snap.Tasks))
	return nil
}

// Backup serializes the current state to an arbitrary path, independent of
// the configured snapshot path.
func (s *Store) Backup(ctx context.Context, path string) error {
	snap := s.cloneSnapshot()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing backup: %w", err)
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	s.logger.Info(ctx, "backup saved", "path", path)
	return nil
}

// Restore replaces the in-memory state with the snapshot at path and, with
// auto-save on, immediately persists it to the primary snapshot path.
func (s *Store) Restore(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	snap := &snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrDecodeFailure, path, err)
	}

	s.replace(snap)
	s.logger.Info(ctx, "state restored", "path", path)

	s.autoSaveIfEnabled(ctx)
	return nil
}
