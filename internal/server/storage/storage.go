// Package storage implements the in-memory entity store backing TaskHub:
// primary user/task maps, secondary indexes, field-mask patching, pagination
// and whole-state snapshot persistence.
//
// All state lives behind a single readers-writer lock. Mutating operations
// hold exclusive access for the full critical section (lookup, mutation and
// index maintenance), so the secondary indexes are never observed in an
// inconsistent state. Read operations clone the requested data under shared
// access and release the lock before returning; no I/O happens under the lock.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/taskhub/internal/logging"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
)

// storeData holds the primary maps and every secondary index. The maps are
// only ever touched while holding Store.mu.
type storeData struct {
	users           map[string]*models.User
	usersByEmail    map[string]string
	usersByUsername map[string]string
	tasks           map[string]*models.Task
	userTasks       map[string][]string
}

func newStoreData() storeData {
	return storeData{
		users:           make(map[string]*models.User),
		usersByEmail:    make(map[string]string),
		usersByUsername: make(map[string]string),
		tasks:           make(map[string]*models.Task),
		userTasks:       make(map[string][]string),
	}
}

// Store owns all entity state. Collaborators receive a *Store explicitly;
// there is no package-level instance.
type Store struct {
	mu       sync.RWMutex
	data     storeData
	path     string
	autoSave bool
	logger   logging.Logger
}

// New returns an empty store without persistence.
func New(logger logging.Logger) *Store {
	return &Store{
		data:   newStoreData(),
		logger: logger.With("module", "storage"),
	}
}

// NewWithPersistence returns an empty store bound to a snapshot file. When
// autoSave is enabled every mutating call triggers a save after its critical
// section. Call Load to pick up existing state.
func NewWithPersistence(path string, autoSave bool, logger logging.Logger) *Store {
	s := New(logger)
	s.path = path
	s.autoSave = autoSave
	return s
}

// Path returns the configured snapshot path ("" when persistence is off).
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// SetPath rebinds the store to a different snapshot file. Meant for setup,
// before the store starts serving.
func (s *Store) SetPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

// SetAutoSave toggles saving after every mutation.
func (s *Store) SetAutoSave(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSave = enabled
}

// sortedUserIDs returns all user ids in a deterministic order. Go randomizes
// map iteration per range, so pagination needs an explicit order to hand out
// disjoint pages across successive calls. The order is by id and therefore
// still shifts when entities are created or deleted between calls; pagination
// is only coherent in the absence of interleaved mutations.
func (s *Store) sortedUserIDs() []string {
	ids := make([]string, 0, len(s.data.users))
	for id := range s.data.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) sortedTaskIDs() []string {
	ids := make([]string, 0, len(s.data.tasks))
	for id := range s.data.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) autoSaveIfEnabled(ctx context.Context) {
	s.mu.RLock()
	enabled := s.autoSave && s.path != ""
	s.mu.RUnlock()

	if !enabled {
		return
	}
	if err := s.Save(ctx); err != nil {
		s.logger.Error(ctx, "auto-save failed", "error", err)
	}
}
