package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
)

// taskFieldSetters maps every patchable field name to a typed setter. Names
// absent from this table are silently ignored when they appear in a mask;
// partial updates are deliberately lenient about unknown fields.
var taskFieldSetters = map[string]func(dst, src *models.Task){
	"title":       func(dst, src *models.Task) { dst.Title = src.Title },
	"description": func(dst, src *models.Task) { dst.Description = src.Description },
	"status":      func(dst, src *models.Task) { dst.Status = src.Status },
	"priority":    func(dst, src *models.Task) { dst.Priority = src.Priority },
	"tags":        func(dst, src *models.Task) { dst.Tags = src.Tags },
	"assignedTo":  func(dst, src *models.Task) { dst.AssignedTo = src.AssignedTo },
	"assigned_to": func(dst, src *models.Task) { dst.AssignedTo = src.AssignedTo },
	"due_date":    func(dst, src *models.Task) { dst.DueDate = src.DueDate },
	"metrics":     func(dst, src *models.Task) { dst.Metrics = src.Metrics },
	"comments":    func(dst, src *models.Task) { dst.Comments = src.Comments },
	"attachments": func(dst, src *models.Task) { dst.Attachments = src.Attachments },
}

// PatchTask copies the fields named in mask from patch onto the stored task.
// Unnamed fields are untouched; UpdatedAt is stamped whether or not it is in
// the mask. The whole patch, including user_tasks maintenance when the mask
// reassigns the task, happens in one exclusive critical section, so no reader
// ever observes a partially applied patch. Returns ErrNotFound for an unknown
// id and ErrInvalidArgument for a nil patch.
func (s *Store) PatchTask(ctx context.Context, id string, patch *models.Task, mask []string) (*models.Task, error) {
	if patch == nil {
		return nil, common.ErrInvalidArgument
	}

	// Detach from caller memory once; setters may then alias freely.
	src := patch.Clone()

	s.mu.Lock()
	existing, ok := s.data.tasks[id]
	if !ok {
		s.mu.Unlock()
		return nil, common.ErrNotFound
	}

	oldAssignee := existing.AssignedTo
	for _, field := range mask {
		if set, ok := taskFieldSetters[field]; ok {
			set(existing, src)
		}
	}
	existing.UpdatedAt = time.Now()

	if existing.AssignedTo != oldAssignee {
		s.unassignTaskLocked(oldAssignee, id)
		s.assignTaskLocked(existing.AssignedTo, id)
	}

	result := existing.Clone()
	s.mu.Unlock()

	s.autoSaveIfEnabled(ctx)
	return result, nil
}
