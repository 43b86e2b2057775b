package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskhub/internal/server/models"
)

func TestImport_PerElementOutcomesInOrder(t *testing.T) {
	s := newTestService(t)

	in := make(chan ImportItem)
	out := s.Import(context.Background(), in)

	go func() {
		in <- ImportItem{Req: CreateRequest{Title: "first"}}
		in <- ImportItem{Err: errors.New("malformed payload")}
		in <- ImportItem{Req: CreateRequest{Title: "third"}}
		close(in)
	}()

	var results []ImportResult
	for res := range out {
		results = append(results, res)
	}
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	require.NotNil(t, results[0].Task)
	assert.Equal(t, "first", results[0].Task.Title)
	assert.Equal(t, models.TaskStatusTodo, results[0].Task.Status)

	assert.False(t, results[1].Success)
	assert.Nil(t, results[1].Task)
	assert.Contains(t, results[1].Message, "malformed payload")

	assert.True(t, results[2].Success)
	assert.Equal(t, "third", results[2].Task.Title)

	// The failed element was not stored.
	assert.Equal(t, 2, s.List(context.Background(), 10, "").TotalCount)
}

func TestImport_CancelStopsPipeline(t *testing.T) {
	s := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan ImportItem)
	out := s.Import(ctx, in)

	in <- ImportItem{Req: CreateRequest{Title: "one"}}
	res := <-out
	assert.True(t, res.Success)

	cancel()

	for range out {
	}
}

func TestImportBatch_SingleCriticalSection(t *testing.T) {
	s := newTestService(t)

	created, err := s.ImportBatch(context.Background(), []CreateRequest{
		{Title: "a"}, {Title: "b"}, {Title: "c"},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	for _, task := range created {
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, models.TaskStatusTodo, task.Status)
	}
	assert.Equal(t, 3, s.List(context.Background(), 10, "").TotalCount)
}
