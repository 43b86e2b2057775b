package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/common"
	"github.com/dmitrijs2005/taskhub/internal/server/blob"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/google/uuid"
)

// AttachmentChunk is one element of a streamed attachment upload. Metadata
// fields may be set on any chunk; the first non-empty occurrence of each
// wins. Chunk carries the next slice of payload bytes, possibly empty.
type AttachmentChunk struct {
	TaskID      string
	Filename    string
	ContentType string
	Chunk       []byte
}

// UploadResult describes the stored attachment.
type UploadResult struct {
	AttachmentID string
	Filename     string
	FileSize     uint64
	URL          string
}

// UploadAttachment consumes chunks until in closes, then finalizes: the
// payload goes to the blob store, an attachment record with a fresh uuid is
// appended to the owning task, and the task's UpdatedAt is touched. Nothing
// is stored before the input is fully drained. An unknown task id fails with
// ErrNotFound; a cancelled ctx aborts with its error.
func (s *Service) UploadAttachment(ctx context.Context, in <-chan AttachmentChunk) (*UploadResult, error) {
	var fileData []byte
	var taskID, filename, contentType string

	for {
		var chunk AttachmentChunk
		var ok bool
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk, ok = <-in:
		}
		if !ok {
			break
		}

		if taskID == "" && chunk.TaskID != "" {
			taskID = chunk.TaskID
		}
		if filename == "" && chunk.Filename != "" {
			filename = chunk.Filename
		}
		if contentType == "" && chunk.ContentType != "" {
			contentType = chunk.ContentType
		}
		fileData = append(fileData, chunk.Chunk...)
	}

	// Existence is checked before the payload is stored so an unknown task
	// fails without leaving an orphaned blob behind.
	if _, ok := s.store.GetTask(ctx, taskID); !ok {
		return nil, fmt.Errorf("%w: task %s", common.ErrNotFound, taskID)
	}

	key := blob.RandomStorageKey()
	url, err := s.blobs.Put(ctx, key, fileData, contentType)
	if err != nil {
		return nil, fmt.Errorf("storing attachment payload: %w", err)
	}

	attachment := models.TaskAttachment{
		ID:          uuid.New().String(),
		Filename:    filename,
		ContentType: contentType,
		FileSize:    uint64(len(fileData)),
		UploadedAt:  time.Now(),
		UploadedBy:  "user",
		URL:         url,
	}

	if _, err := s.store.AppendTaskAttachment(ctx, taskID, attachment); err != nil {
		return nil, fmt.Errorf("recording attachment: %w", err)
	}

	s.logger.Info(ctx, "attachment uploaded",
		"task", taskID, "attachment", attachment.ID, "size", attachment.FileSize)

	return &UploadResult{
		AttachmentID: attachment.ID,
		Filename:     filename,
		FileSize:     attachment.FileSize,
		URL:          url,
	}, nil
}
