// Package tasks implements the task-facing service layer: CRUD and masked
// updates, bulk operations, analytics, the event stream, and the streamed
// import/upload/collaboration pipelines on top of the entity store.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/logging"
	"github.com/dmitrijs2005/taskhub/internal/server/blob"
	"github.com/dmitrijs2005/taskhub/internal/server/config"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/dmitrijs2005/taskhub/internal/server/storage"
)

// CreateRequest carries the caller-controlled fields of a new task. Status,
// metrics and timestamps are service-assigned.
type CreateRequest struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	Tags        []string
	AssignedTo  string
	DueDate     *time.Time
}

// ListResult is one page of tasks plus the continuation token and the total
// number of tasks in the store.
type ListResult struct {
	Tasks         []*models.Task
	NextPageToken string
	TotalCount    int
}

// BulkUpdateResult reports how many tasks a bulk update touched and which ids
// it could not find.
type BulkUpdateResult struct {
	UpdatedCount int
	FailedIDs    []string
}

// Analytics is a point-in-time summary of the task population. The counts
// and the completion rate are real; the remaining figures are demo
// placeholders.
type Analytics struct {
	TotalTasks                 int
	CompletedTasks             int
	InProgressTasks            int
	TodoTasks                  int
	CompletionRate             float32
	AverageCompletionTimeHours float32
	OverdueTasks               int
	TasksByPriority            map[models.TaskPriority]int
	TasksCreatedThisWeek       int
	TasksCompletedThisWeek     int
	GeneratedAt                time.Time
}

type Service struct {
	store         *storage.Store
	blobs         blob.Store
	logger        logging.Logger
	eventInterval time.Duration
}

func NewService(store *storage.Store, blobs blob.Store, cfg *config.Config, logger logging.Logger) *Service {
	interval := cfg.EventStreamInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Service{
		store:         store,
		blobs:         blobs,
		logger:        logger.With("module", "tasks"),
		eventInterval: interval,
	}
}

func (s *Service) newTask(req CreateRequest) *models.Task {
	return &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		Priority:    req.Priority,
		Tags:        req.Tags,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Metrics:     &models.TaskMetrics{},
	}
}

// Create registers a new task. Every task starts in Todo with zeroed metrics;
// the store assigns the id and timestamps.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Task, error) {
	created, err := s.store.CreateTask(ctx, s.newTask(req))
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info(ctx, "task created", "id", created.ID, "title", created.Title)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Task, bool) {
	return s.store.GetTask(ctx, id)
}

// Update applies a field-mask patch to the task stored under id. A nil patch
// body is rejected with ErrInvalidArgument; an unknown id surfaces as
// ErrNotFound.
func (s *Service) Update(ctx context.Context, id string, patch *models.Task, mask []string) (*models.Task, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: task data is required", common.ErrInvalidArgument)
	}
	return s.store.PatchTask(ctx, id, patch, mask)
}

// Delete removes a task. Returns whether the task existed.
func (s *Service) Delete(ctx context.Context, id string) bool {
	return s.store.DeleteTask(ctx, id)
}

func (s *Service) List(ctx context.Context, pageSize int, pageToken string) *ListResult {
	batch := s.store.ListTasks(ctx, pageSize, pageToken)
	return &ListResult{
		Tasks:         batch,
		NextPageToken: storage.NextPageToken(pageToken, len(batch), pageSize),
		TotalCount:    s.store.CountTasks(ctx),
	}
}

func (s *Service) Search(ctx context.Context, query string, pageSize int, pageToken string) *ListResult {
	batch := s.store.SearchTasks(ctx, query, pageSize, pageToken)
	return &ListResult{
		Tasks:         batch,
		NextPageToken: storage.NextPageToken(pageToken, len(batch), pageSize),
		TotalCount:    s.store.CountTasks(ctx),
	}
}

func (s *Service) ListByStatus(ctx context.Context, status models.TaskStatus, pageSize int, pageToken string) *ListResult {
	batch := s.store.GetTasksByStatus(ctx, status, pageSize, pageToken)
	return &ListResult{
		Tasks:         batch,
		NextPageToken: storage.NextPageToken(pageToken, len(batch), pageSize),
		TotalCount:    s.store.CountTasksByStatus(ctx, status),
	}
}

func (s *Service) ListByPriority(ctx context.Context, priority models.TaskPriority, pageSize int, pageToken string) *ListResult {
	batch := s.store.GetTasksByPriority(ctx, priority, pageSize, pageToken)
	return &ListResult{
		Tasks:         batch,
		NextPageToken: storage.NextPageToken(pageToken, len(batch), pageSize),
		TotalCount:    s.store.CountTasksByPriority(ctx, priority),
	}
}

// BulkUpdate applies the same partial update to every id: a non-Unspecified
// status replaces the current one, a non-empty assignee reassigns, tags are
// appended and removed in that order. Ids without a task are collected, not
// fatal.
func (s *Service) BulkUpdate(ctx context.Context, ids []string, status models.TaskStatus, assignedTo string, tagsToAdd, tagsToRemove []string) *BulkUpdateResult {
	result := &BulkUpdateResult{}

	remove := make(map[string]struct{}, len(tagsToRemove))
	for _, tag := range tagsToRemove {
		remove[tag] = struct{}{}
	}

	for _, id := range ids {
		task, ok := s.store.GetTask(ctx, id)
		if !ok {
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}

		if status != models.TaskStatusUnspecified {
			task.Status = status
		}
		if assignedTo != "" {
			task.AssignedTo = assignedTo
		}
		task.Tags = append(task.Tags, tagsToAdd...)
		kept := task.Tags[:0]
		for _, tag := range task.Tags {
			if _, drop := remove[tag]; !drop {
				kept = append(kept, tag)
			}
		}
		task.Tags = kept
		task.UpdatedAt = time.Now()

		if err := s.store.UpdateTask(ctx, task); err != nil {
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.UpdatedCount++
	}

	return result
}

// GetAnalytics summarizes the task population. Average completion time,
// per-priority figures and the weekly counters are fixed demo values; only
// the totals, the completion rate and the overdue count are computed.
func (s *Service) GetAnalytics(ctx context.Context) *Analytics {
	total := s.store.CountTasks(ctx)
	completed := s.store.CountTasksByStatus(ctx, models.TaskStatusDone)

	var completionRate float32
	if total > 0 {
		completionRate = float32(completed) / float32(total) * 100.0
	}

	return &Analytics{
		TotalTasks:                 total,
		CompletedTasks:             completed,
		InProgressTasks:            s.store.CountTasksByStatus(ctx, models.TaskStatusInProgress),
		TodoTasks:                  s.store.CountTasksByStatus(ctx, models.TaskStatusTodo),
		CompletionRate:             completionRate,
		AverageCompletionTimeHours: 24.5,
		OverdueTasks:               s.store.CountOverdueTasks(ctx),
		TasksByPriority: map[models.TaskPriority]int{
			models.TaskPriorityHigh:   15,
			models.TaskPriorityMedium: 25,
			models.TaskPriorityLow:    10,
		},
		TasksCreatedThisWeek:   12,
		TasksCompletedThisWeek: 8,
		GeneratedAt:            time.Now(),
	}
}
