package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/google/uuid"
)

// eventStreamBuffer bounds every streaming channel in this package. A slow
// consumer blocks the producer rather than growing an unbounded queue.
const eventStreamBuffer = 10

// StreamEvents returns a channel of synthetic task events, one per tick of
// the configured interval. Each call gets its own producer goroutine; the
// producer stops and closes the channel when ctx is cancelled. A consumer
// that stops reading exerts backpressure through the bounded channel instead
// of losing events.
func (s *Service) StreamEvents(ctx context.Context) <-chan *models.TaskEvent {
	out := make(chan *models.TaskEvent, eventStreamBuffer)

	go func() {
		defer close(out)

		ticker := time.NewTicker(s.eventInterval)
		defer ticker.Stop()

		counter := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			counter++
			event := s.sampleEvent(counter)

			select {
			case <-ctx.Done():
				return
			case out <- event:
			}
		}
	}()

	return out
}

// sampleEvent fabricates the periodic Updated event the stream emits in lieu
// of real mutation tracking.
func (s *Service) sampleEvent(counter int) *models.TaskEvent {
	now := time.Now()
	return &models.TaskEvent{
		EventID: uuid.New().String(),
		Type:    models.TaskEventTypeUpdated,
		Task: &models.Task{
			ID:          fmt.Sprintf("task_%d", counter),
			Title:       fmt.Sprintf("Sample Task %d", counter),
			Description: "Auto-generated task event",
			Status:      models.TaskStatusInProgress,
			Priority:    models.TaskPriorityMedium,
			Tags:        []string{"auto"},
			AssignedTo:  "system",
			CreatedAt:   now,
			UpdatedAt:   now,
			Metrics: &models.TaskMetrics{
				EstimatedHours:       2,
				ActualHours:          1,
				CompletionPercentage: 50.0,
			},
		},
		UserID:    "system",
		Timestamp: now,
		Metadata:  map[string]string{},
	}
}

// Collaborate echoes every incoming event back to the caller through a
// bounded channel. There is no fan-out to other participants. The output is
// closed when the input closes or ctx is cancelled.
func (s *Service) Collaborate(ctx context.Context, in <-chan *models.TaskEvent) <-chan *models.TaskEvent {
	out := make(chan *models.TaskEvent, eventStreamBuffer)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-in:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- event:
				}
			}
		}
	}()

	return out
}
