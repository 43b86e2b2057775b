package models

import "time"

type TaskStatus int32

const (
	TaskStatusUnspecified TaskStatus = iota
	TaskStatusTodo
	TaskStatusInProgress
	TaskStatusReview
	TaskStatusDone
	TaskStatusCancelled
)

type TaskPriority int32

const (
	TaskPriorityUnspecified TaskPriority = iota
	TaskPriorityLow
	TaskPriorityMedium
	TaskPriorityHigh
	TaskPriorityCritical
)

type TaskMetrics struct {
	EstimatedHours       int32   `json:"estimated_hours"`
	ActualHours          int32   `json:"actual_hours"`
	CompletionPercentage float32 `json:"completion_percentage"`
}

type TaskComment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskAttachment struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	FileSize    uint64    `json:"file_size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploadedBy  string    `json:"uploaded_by"`
	URL         string    `json:"url"`
}

type Task struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      TaskStatus       `json:"status"`
	Priority    TaskPriority     `json:"priority"`
	Tags        []string         `json:"tags"`
	AssignedTo  string           `json:"assigned_to"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Metrics     *TaskMetrics     `json:"metrics,omitempty"`
	Comments    []TaskComment    `json:"comments"`
	Attachments []TaskAttachment `json:"attachments"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Metrics != nil {
		m := *t.Metrics
		c.Metrics = &m
	}
	if t.Comments != nil {
		c.Comments = append([]TaskComment(nil), t.Comments...)
	}
	if t.Attachments != nil {
		c.Attachments = append([]TaskAttachment(nil), t.Attachments...)
	}
	return &c
}
