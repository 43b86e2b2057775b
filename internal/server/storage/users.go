package storage

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/google/uuid"
)

// CreateUser inserts a new user. The store assigns a fresh id and timestamps,
// ignoring whatever the caller put there. A duplicate email fails with
// ErrAlreadyExists; duplicate usernames are deliberately not checked, even
// though the username index is maintained (a later user with the same
// username simply takes over the index slot).
func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, common.ErrInvalidArgument
	}

	u := user.Clone()
	now := time.Now()
	u.ID = uuid.New().String()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.mu.Lock()
	if _, exists := s.data.usersByEmail[u.Email]; exists {
		s.mu.Unlock()
		return nil, common.ErrAlreadyExists
	}
	s.data.users[u.ID] = u
	s.data.usersByEmail[u.Email] = u.ID
	s.data.usersByUsername[u.Username] = u.ID
	s.data.userTasks[u.ID] = []string{}
	s.mu.Unlock()

	s.autoSaveIfEnabled(ctx)
	return u.Clone(), nil
}

// GetUser returns a copy of the user, or found=false.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, bool) {
	s.mu.RLock()
	u, ok := s.data.users[id]
	if ok {
		u = u.Clone()
	}
	s.mu.RUnlock()
	return u, ok
}

// GetUserByEmail resolves a user through the email index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.data.usersByEmail[email]
	if !ok {
		return nil, false
	}
	u, ok := s.data.users[id]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// GetUserByUsername resolves a user through the username index.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.data.usersByUsername[username]
	if !ok {
		return nil, false
	}
	u, ok := s.data.users[id]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// UpdateUser replaces whatever is stored under user.ID; missing users are
// inserted (upsert, no NotFound). Secondary indexes follow the new email and
// username values in the same critical section.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return common.ErrInvalidArgument
	}

	u := user.Clone()

	s.mu.Lock()
	if old, ok := s.data.users[u.ID]; ok {
		if old.Email != u.Email {
			delete(s.data.usersByEmail, old.Email)
		}
		if old.Username != u.Username {
			delete(s.data.usersByUsername, old.Username)
		}
	}
	s.data.users[u.ID] = u
	s.data.usersByEmail[u.Email] = u.ID
	s.data.usersByUsername[u.Username] = u.ID
	if _, ok := s.data.userTasks[u.ID]; !ok {
		s.data.userTasks[u.ID] = []string{}
	}
	s.mu.Unlock()

	s.autoSaveIfEnabled(ctx)
	return nil
}

// DeleteUser removes the user from the primary map, both secondary indexes
// and its user_tasks entry in one critical section. Tasks still assigned to
// the deleted user keep their dangling AssignedTo reference on purpose.
// Deleting an unknown id is a no-op reporting found=false.
func (s *Store) DeleteUser(ctx context.Context, id string) bool {
	s.mu.Lock()
	u, ok := s.data.users[id]
	if ok {
		delete(s.data.users, id)
		delete(s.data.usersByEmail, u.Email)
		delete(s.data.usersByUsername, u.Username)
		delete(s.data.userTasks, id)
	}
	s.mu.Unlock()

	if ok {
		s.autoSaveIfEnabled(ctx)
	}
	return ok
}

// ListUsers returns one page of users in the store's deterministic id order.
func (s *Store) ListUsers(ctx context.Context, pageSize int, pageToken string) []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedUserIDs()
	start, end := pageBounds(ParsePageToken(pageToken), pageSize, len(ids))

	users := make([]*models.User, 0, end-start)
	for _, id := range ids[start:end] {
		users = append(users, s.data.users[id].Clone())
	}
	return users
}

// SearchUsers returns one page of users whose username, email or full name
// contains query, case-insensitively.
func (s *Store) SearchUsers(ctx context.Context, query string, pageSize int, pageToken string) []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)

	matched := make([]*models.User, 0)
	for _, id := range s.sortedUserIDs() {
		u := s.data.users[id]
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.FullName), q) {
			matched = append(matched, u)
		}
	}

	start, end := pageBounds(ParsePageToken(pageToken), pageSize, len(matched))
	page := make([]*models.User, 0, end-start)
	for _, u := range matched[start:end] {
		page = append(page, u.Clone())
	}
	return page
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.users)
}

// CountUserTasks returns the number of tasks currently assigned to the user.
func (s *Store) CountUserTasks(ctx context.Context, userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.userTasks[userID])
}
