package tasks

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/logging"
	"github.com/dmitrijs2005/taskhub/internal/server/blob"
	"github.com/dmitrijs2005/taskhub/internal/server/config"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/dmitrijs2005/taskhub/internal/server/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	blobs, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EventStreamInterval = 20 * time.Millisecond
	return NewService(storage.New(logger), blobs, cfg, logger)
}

func mustCreate(t *testing.T, s *Service, title string) *models.Task {
	t.Helper()
	task, err := s.Create(context.Background(), CreateRequest{Title: title, Priority: models.TaskPriorityMedium})
	require.NoError(t, err)
	return task
}

func TestCreate_AssignsDefaults(t *testing.T) {
	s := newTestService(t)

	due := time.Now().Add(48 * time.Hour)
	created, err := s.Create(context.Background(), CreateRequest{
		Title:    "write report",
		Priority: models.TaskPriorityHigh,
		Tags:     []string{"q3"},
		DueDate:  &due,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.TaskStatusTodo, created.Status)
	assert.Equal(t, models.TaskPriorityHigh, created.Priority)
	require.NotNil(t, created.Metrics)
	assert.Zero(t, created.Metrics.EstimatedHours)
	assert.Zero(t, created.Metrics.CompletionPercentage)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestUpdate_NilPatchRejected(t *testing.T) {
	s := newTestService(t)
	created := mustCreate(t, s, "target")

	_, err := s.Update(context.Background(), created.ID, nil, []string{"title"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = s.Update(context.Background(), "missing", &models.Task{}, []string{"title"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_AppliesMask(t *testing.T) {
	s := newTestService(t)
	created := mustCreate(t, s, "original")

	got, err := s.Update(context.Background(), created.ID, &models.Task{
		Title:  "renamed",
		Status: models.TaskStatusInProgress,
	}, []string{"status"})
	require.NoError(t, err)

	assert.Equal(t, "original", got.Title)
	assert.Equal(t, models.TaskStatusInProgress, got.Status)
}

func TestList_TokenAndTotal(t *testing.T) {
	s := newTestService(t)
	for i := 0; i < 5; i++ {
		mustCreate(t, s, "task")
	}

	page := s.List(context.Background(), 2, "")
	assert.Len(t, page.Tasks, 2)
	assert.Equal(t, "page_1", page.NextPageToken)
	assert.Equal(t, 5, page.TotalCount)

	last := s.List(context.Background(), 2, "page_2")
	assert.Len(t, last.Tasks, 1)
	assert.Empty(t, last.NextPageToken)
}

func TestBulkUpdate(t *testing.T) {
	s := newTestService(t)

	a, err := s.Create(context.Background(), CreateRequest{Title: "a", Tags: []string{"old", "keep"}})
	require.NoError(t, err)
	b := mustCreate(t, s, "b")

	res := s.BulkUpdate(context.Background(), []string{a.ID, b.ID, "missing"},
		models.TaskStatusInProgress, "worker-1", []string{"sprint"}, []string{"old"})

	assert.Equal(t, 2, res.UpdatedCount)
	assert.Equal(t, []string{"missing"}, res.FailedIDs)

	gotA, _ := s.Get(context.Background(), a.ID)
	assert.Equal(t, models.TaskStatusInProgress, gotA.Status)
	assert.Equal(t, "worker-1", gotA.AssignedTo)
	assert.ElementsMatch(t, []string{"keep", "sprint"}, gotA.Tags)
}

func TestBulkUpdate_UnspecifiedFieldsUntouched(t *testing.T) {
	s := newTestService(t)
	created, err := s.Create(context.Background(), CreateRequest{Title: "a", AssignedTo: "worker-0"})
	require.NoError(t, err)

	res := s.BulkUpdate(context.Background(), []string{created.ID},
		models.TaskStatusUnspecified, "", nil, nil)
	assert.Equal(t, 1, res.UpdatedCount)

	got, _ := s.Get(context.Background(), created.ID)
	assert.Equal(t, models.TaskStatusTodo, got.Status)
	assert.Equal(t, "worker-0", got.AssignedTo)
}

func TestGetAnalytics(t *testing.T) {
	s := newTestService(t)

	done := mustCreate(t, s, "done")
	_, err := s.Update(context.Background(), done.ID, &models.Task{Status: models.TaskStatusDone}, []string{"status"})
	require.NoError(t, err)

	inProgress := mustCreate(t, s, "wip")
	_, err = s.Update(context.Background(), inProgress.ID, &models.Task{Status: models.TaskStatusInProgress}, []string{"status"})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	_, err = s.Create(context.Background(), CreateRequest{Title: "late", DueDate: &past})
	require.NoError(t, err)
	mustCreate(t, s, "todo")

	a := s.GetAnalytics(context.Background())
	assert.Equal(t, 4, a.TotalTasks)
	assert.Equal(t, 1, a.CompletedTasks)
	assert.Equal(t, 1, a.InProgressTasks)
	assert.Equal(t, 2, a.TodoTasks)
	assert.Equal(t, 1, a.OverdueTasks)
	assert.InDelta(t, 25.0, a.CompletionRate, 0.01)

	// Placeholder figures are fixed.
	assert.Equal(t, float32(24.5), a.AverageCompletionTimeHours)
	assert.Equal(t, 12, a.TasksCreatedThisWeek)
	assert.Equal(t, 8, a.TasksCompletedThisWeek)
}

func TestGetAnalytics_EmptyStore(t *testing.T) {
	s := newTestService(t)
	a := s.GetAnalytics(context.Background())
	assert.Zero(t, a.TotalTasks)
	assert.Zero(t, a.CompletionRate)
}
