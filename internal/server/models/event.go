package models

import "time"

type TaskEventType int32

const (
	TaskEventTypeUnspecified TaskEventType = iota
	TaskEventTypeCreated
	TaskEventTypeUpdated
	TaskEventTypeDeleted
	TaskEventTypeCommented
)

// TaskEvent describes one change notification carried on an event stream.
type TaskEvent struct {
	EventID   string            `json:"event_id"`
	Type      TaskEventType     `json:"event_type"`
	Task      *Task             `json:"task,omitempty"`
	UserID    string            `json:"user_id"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the event, including its task payload.
func (e *TaskEvent) Clone() *TaskEvent {
	if e == nil {
		return nil
	}
	c := *e
	c.Task = e.Task.Clone()
	if e.Metadata != nil {
		c.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
