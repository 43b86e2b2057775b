package tasks

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskhub/internal/server/models"
)

// ImportItem is one element of a streamed import. A non-nil Err marks an
// element that failed upstream of the service (for example a request that
// could not be decoded); such elements still produce a result.
type ImportItem struct {
	Req CreateRequest
	Err error
}

// ImportResult reports the outcome of one imported element, in arrival
// order.
type ImportResult struct {
	Task    *models.Task
	Success bool
	Message string
}

// Import consumes items until in closes or ctx is cancelled and emits one
// result per item. A broken element never aborts the stream; it yields a
// failure result and the import moves on. The output channel is bounded and
// closed when the producer stops.
func (s *Service) Import(ctx context.Context, in <-chan ImportItem) <-chan ImportResult {
	out := make(chan ImportResult, eventStreamBuffer)

	go func() {
		defer close(out)

		imported := 0
		defer func() {
			s.logger.Info(ctx, "import finished", "imported", imported)
		}()

		for {
			var item ImportItem
			var ok bool
			select {
			case <-ctx.Done():
				return
			case item, ok = <-in:
				if !ok {
					return
				}
			}

			var result ImportResult
			switch {
			case item.Err != nil:
				result = ImportResult{Success: false, Message: fmt.Sprintf("Import failed: %v", item.Err)}
			default:
				created, err := s.store.CreateTask(ctx, s.newTask(item.Req))
				if err != nil {
					result = ImportResult{Success: false, Message: fmt.Sprintf("Import failed: %v", err)}
				} else {
					imported++
					result = ImportResult{Task: created, Success: true, Message: "Task imported successfully"}
				}
			}

			select {
			case <-ctx.Done():
				return
			case out <- result:
			}
		}
	}()

	return out
}

// ImportBatch creates a whole slice of tasks in a single store critical
// section. Unlike Import it is all-or-nothing per call and returns the
// created tasks directly; it exists for callers that already hold the full
// batch in memory.
func (s *Service) ImportBatch(ctx context.Context, reqs []CreateRequest) ([]*models.Task, error) {
	batch := make([]*models.Task, 0, len(reqs))
	for _, req := range reqs {
		batch = append(batch, s.newTask(req))
	}

	created, err := s.store.BatchCreateTasks(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("importing batch: %w", err)
	}

	s.logger.Info(ctx, "batch imported", "count", len(created))
	return created, nil
}
