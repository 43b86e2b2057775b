package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/logging"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testLogger())
}

func newPersistentStore(t *testing.T, autoSave bool) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	return NewWithPersistence(path, autoSave, testLogger()), path
}

func testUser(username, email string) *models.User {
	return &models.User{
		Username: username,
		Email:    email,
		FullName: username + " Example",
		Role:     models.UserRoleMember,
		IsActive: true,
		Status:   models.UserStatusActive,
		Preferences: &models.UserPreferences{
			Theme: "light", Language: "en", Timezone: "UTC",
			NotificationsEnabled: true, EmailNotifications: true,
		},
		Profile: &models.UserProfile{},
	}
}

func testTask(title string) *models.Task {
	return &models.Task{
		Title:       title,
		Description: "description of " + title,
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityMedium,
		Tags:        []string{"test"},
		Metrics:     &models.TaskMetrics{},
	}
}

func mustCreateUser(t *testing.T, s *Store, u *models.User) *models.User {
	t.Helper()
	created, err := s.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", u.Email, err)
	}
	return created
}

func mustCreateTask(t *testing.T, s *Store, task *models.Task) *models.Task {
	t.Helper()
	created, err := s.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", task.Title, err)
	}
	return created
}

func timePtr(t time.Time) *time.Time { return &t }
