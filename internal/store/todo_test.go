package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTodoLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.AddTodo(ctx, 7, "revise chapter 3", 0)
	require.NoError(t, err)
	_, err = s.AddTodo(ctx, 7, "mock test", 5000)
	require.NoError(t, err)
	_, err = s.AddTodo(ctx, 9, "someone else's task", 0)
	require.NoError(t, err)

	todos, err := s.UserTodos(ctx, 7)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	require.Equal(t, "revise chapter 3", todos[0].Task)

	require.NoError(t, s.CompleteTodo(ctx, id1))

	todos, err = s.UserTodos(ctx, 7)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	require.Equal(t, "mock test", todos[0].Task)
	require.Equal(t, int64(5000), todos[0].DueTS)
}

func TestArchiveEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ArchiveEvent(ctx, 500, "session", `{"minutes":30}`))
	require.NoError(t, s.ArchiveEvent(ctx, 500, "session", `{"minutes":45}`))
	require.NoError(t, s.ArchiveEvent(ctx, 500, "join", ""))

	events, err := s.RecentEvents(ctx, "session", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, `{"minutes":45}`, events[0].Payload)

	joins, err := s.RecentEvents(ctx, "join", 10)
	require.NoError(t, err)
	require.Len(t, joins, 1)
	require.Equal(t, "{}", joins[0].Payload)
}
