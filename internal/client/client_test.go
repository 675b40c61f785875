package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/bridge/internal/config"
	"github.com/dyluth/bridge/internal/server"
	"github.com/dyluth/bridge/pkg/bridge"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := server.New(config.Default(), bridge.NewState())
	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestNew_AddressNormalisation(t *testing.T) {
	assert.Equal(t, "http://localhost:8377", New("").baseURL)
	assert.Equal(t, "http://localhost:9000", New("localhost:9000").baseURL)
	assert.Equal(t, "https://bridge.internal", New("https://bridge.internal/").baseURL)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.Health(context.Background()))

	unreachable := New("localhost:1")
	assert.Error(t, unreachable.Health(context.Background()))
}

func TestSendAndGetMessages(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sent, err := c.SendMessage(ctx, bridge.SendMessageRequest{From: "cascade", To: "codex", Content: "hello"})
	require.NoError(t, err)
	assert.True(t, sent.Success)

	inbox, err := c.GetMessages(ctx, bridge.GetMessagesRequest{Agent: "codex", UnreadOnly: true})
	require.NoError(t, err)
	require.Equal(t, 1, inbox.Count)
	assert.Equal(t, sent.MessageID, inbox.Messages[0].ID)

	marked, err := c.MarkMessagesRead(ctx, bridge.MarkMessagesReadRequest{MessageIDs: []string{sent.MessageID}})
	require.NoError(t, err)
	assert.Equal(t, 1, marked.MarkedRead)
}

func TestTaskLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, bridge.CreateTaskRequest{
		Title:       "Fix header alignment",
		Description: "2px drift",
		AssignedTo:  "cascade",
		CreatedBy:   "codex",
	})
	require.NoError(t, err)

	tasks, err := c.GetTasks(ctx, bridge.GetTasksRequest{Agent: "cascade"})
	require.NoError(t, err)
	require.Equal(t, 1, tasks.Count)

	updated, err := c.UpdateTask(ctx, bridge.UpdateTaskRequest{
		TaskID: created.TaskID,
		Status: bridge.TaskStatusCompleted,
		Notes:  "done",
	})
	require.NoError(t, err)
	assert.Equal(t, bridge.TaskStatusCompleted, updated.Task.Status)
}

func TestOperationErrorsSurfaceAsErrors(t *testing.T) {
	c := newTestClient(t)

	_, err := c.UpdateTask(context.Background(), bridge.UpdateTaskRequest{TaskID: "missing"})
	require.Error(t, err)

	opErr, ok := err.(*OperationError)
	require.True(t, ok)
	assert.Contains(t, opErr.Message, "task not found")
}

func TestContextRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	branch := "feature/x"
	res, err := c.UpdateContext(ctx, bridge.UpdateContextRequest{CurrentBranch: &branch})
	require.NoError(t, err)
	assert.Equal(t, "feature/x", res.Context.CurrentBranch)

	shared, err := c.GetContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feature/x", shared.CurrentBranch)
}

func TestSnapshots(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.SendMessage(ctx, bridge.SendMessageRequest{From: "a", To: "b", Content: "c"})
	require.NoError(t, err)

	messages, err := c.MessagesSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	tasks, err := c.TasksSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestEvents(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := c.Events(ctx)
	require.NoError(t, err)
	defer stream.Close()

	_, err = c.AnnouncePresence(ctx, bridge.AnnouncePresenceRequest{Agent: "cascade", Status: "online"})
	require.NoError(t, err)

	select {
	case event := <-stream.Events():
		assert.Equal(t, bridge.EventMessageSent, event.Type)
		require.NotNil(t, event.Message)
		assert.Equal(t, bridge.RecipientAll, event.Message.To)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for streamed event")
	}
}
