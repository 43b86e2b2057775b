package storage

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/google/uuid"
)

// assignTaskLocked appends taskID to the assignee's ordered task list.
// Caller holds the write lock.
func (s *Store) assignTaskLocked(assignee, taskID string) {
	if assignee == "" {
		return
	}
	s.data.userTasks[assignee] = append(s.data.userTasks[assignee], taskID)
}

// unassignTaskLocked removes taskID from the assignee's task list, keeping
// the remaining order. Caller holds the write lock.
func (s *Store) unassignTaskLocked(assignee, taskID string) {
	if assignee == "" {
		return
	}
	ids := s.data.userTasks[assignee]
	for i, id := range ids {
		if id == taskID {
			s.data.userTasks[assignee] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// CreateTask inserts a new task, assigning a fresh id and timestamps. A
// non-empty AssignedTo also records the task in the user_tasks index within
// the same critical section; the assignee is not required to exist.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task == nil {
		return nil, common.ErrInvalidArgument
	}

	t := task.Clone()
	now := time.Now()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	s.mu.Lock()
	s.data.tasks[t.ID] = t
	s.assignTaskLocked(t.AssignedTo, t.ID)
	s.mu.Unlock()

	s.autoSaveIfEnabled(ctx)
	return t.Clone(), nil
}

// BatchCreateTasks inserts all tasks in a single critical section and
// triggers at most one auto-save. Used by the streamed import path.
func (s *Store) BatchCreateTasks(ctx context.Context, tasks []*models.Task) ([]*models.Task, error) {
	created := make([]*models.Task, 0, len(tasks))
	now := time.Now()

	s.mu.Lock()
	for _, task := range tasks {
		if task == nil {
			continue
		}
		t := task.Clone()
		t.ID = uuid.New().String()
		t.CreatedAt = now
		t.UpdatedAt = now
		s.data.tasks[t.ID] = t
		s.assignTaskLocked(t.AssignedTo, t.ID)
		created = append(created, t.Clone())
	}
	s.mu.Unlock()

	if len(created) > 0 {
		s.autoSaveIfEnabled(ctx)
	}
	return created, nil
}

// GetTask returns a copy of the task, or found=false.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, bool) {
	s.mu.RLock()
	t, ok := s.data.tasks[id]
	if ok {
		t = t.Clone()
	}
	s.mu.RUnlock()
	return t, ok
}

// UpdateTask replaces whatever is stored under task.ID (upsert, no NotFound).
// When the replacement changes AssignedTo, the user_tasks index is moved in
// the same critical section.
func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return common.ErrInvalidArgument
	}

	t := task.Clone()

	s.mu.Lock()
	if old, ok := s.data.tasks[t.ID]; ok {
		if old.AssignedTo != t.AssignedTo {
			s.unassignTaskLocked(old.AssignedTo, t.ID)
			s.assignTaskLocked(t.AssignedTo, t.ID)
		}
	} else {
		s.assignTaskLocked(t.AssignedTo, t.ID)
	}
	s.data.tasks[t.ID] = t
	s.mu.Unlock()

	s.autoSaveIfEnabled(ctx)
	return nil
}

// AppendTaskAttachment adds one attachment record to the task and stamps
// UpdatedAt in the same critical section. Unlike a read-modify-write through
// PatchTask, concurrent appends to the same task cannot lose each other's
// record. Returns ErrNotFound for an unknown id.
func (s *Store) AppendTaskAttachment(ctx context.Context, id string, attachment models.TaskAttachment) (*models.Task, error) {
	s.mu.Lock()
	t, ok := s.data.tasks[id]
	if !ok {
		s.mu.Unlock()
		return nil, common.ErrNotFound
	}
	t.Attachments = append(t.Attachments, attachment)
	t.UpdatedAt = time.Now()
	result := t.Clone()
	s.mu.Unlock()

	s.autoSaveIfEnabled(ctx)
	return result, nil
}

// DeleteTask removes the task and its user_tasks entry. Idempotent; reports
// whether something was removed.
func (s *Store) DeleteTask(ctx context.Context, id string) bool {
	s.mu.Lock()
	t, ok := s.data.tasks[id]
	if ok {
		delete(s.data.tasks, id)
		s.unassignTaskLocked(t.AssignedTo, id)
	}
	s.mu.Unlock()

	if ok {
		s.autoSaveIfEnabled(ctx)
	}
	return ok
}

// ListTasks returns one page of tasks in the store's deterministic id order.
func (s *Store) ListTasks(ctx context.Context, pageSize int, pageToken string) []*models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedTaskIDs()
	start, end := pageBounds(ParsePageToken(pageToken), pageSize, len(ids))

	tasks := make([]*models.Task, 0, end-start)
	for _, id := range ids[start:end] {
		tasks = append(tasks, s.data.tasks[id].Clone())
	}
	return tasks
}

// GetTasksByUser returns one page of the user's tasks in assignment order
// (the order the user_tasks index was built in). Tasks missing from the
// primary map are skipped.
func (s *Store) GetTasksByUser(ctx context.Context, userID string, pageSize int, pageToken string) []*models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.data.userTasks[userID]
	start, end := pageBounds(ParsePageToken(pageToken), pageSize, len(ids))

	tasks := make([]*models.Task, 0, end-start)
	for _, id := range ids[start:end] {
		if t, ok := s.data.tasks[id]; ok {
			tasks = append(tasks, t.Clone())
		}
	}
	return tasks
}

func (s *Store) filterTasks(pageSize int, pageToken string, keep func(*models.Task) bool) []*models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Task, 0)
	for _, id := range s.sortedTaskIDs() {
		if t := s.data.tasks[id]; keep(t) {
			matched = append(matched, t)
		}
	}

	start, end := pageBounds(ParsePageToken(pageToken), pageSize, len(matched))
	page := make([]*models.Task, 0, end-start)
	for _, t := range matched[start:end] {
		page = append(page, t.Clone())
	}
	return page
}

// GetTasksByStatus returns one page of tasks with the given status.
func (s *Store) GetTasksByStatus(ctx context.Context, status models.TaskStatus, pageSize int, pageToken string) []*models.Task {
	return s.filterTasks(pageSize, pageToken, func(t *models.Task) bool {
		return t.Status == status
	})
}

// GetTasksByPriority returns one page of tasks with the given priority.
func (s *Store) GetTasksByPriority(ctx context.Context, priority models.TaskPriority, pageSize int, pageToken string) []*models.Task {
	return s.filterTasks(pageSize, pageToken, func(t *models.Task) bool {
		return t.Priority == priority
	})
}

// SearchTasks returns one page of tasks whose title or description contains
// query, case-insensitively.
func (s *Store) SearchTasks(ctx context.Context, query string, pageSize int, pageToken string) []*models.Task {
	q := strings.ToLower(query)
	return s.filterTasks(pageSize, pageToken, func(t *models.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	})
}

// CountTasks returns the total number of tasks.
func (s *Store) CountTasks(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.tasks)
}

// CountTasksByStatus returns the number of tasks with the given status.
func (s *Store) CountTasksByStatus(ctx context.Context, status models.TaskStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.data.tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}

// CountTasksByPriority returns the number of tasks with the given priority.
func (s *Store) CountTasksByPriority(ctx context.Context, priority models.TaskPriority) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.data.tasks {
		if t.Priority == priority {
			n++
		}
	}
	return n
}

// CountOverdueTasks returns the number of tasks whose due date has passed and
// that are not Done. Done is the only status treated as terminal; a Cancelled
// task with a past due date still counts.
func (s *Store) CountOverdueTasks(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	n := 0
	for _, t := range s.data.tasks {
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != models.TaskStatusDone {
			n++
		}
	}
	return n
}
