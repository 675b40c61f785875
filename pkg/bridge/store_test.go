package bridge

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageStore_AppendAndQuery(t *testing.T) {
	state := NewState()

	first := state.Messages.Append("cascade", "codex", "first")
	second := state.Messages.Append("cascade", "codex", "second")
	state.Messages.Append("cascade", "windsurf", "not for codex")

	assert.True(t, isValidUUID(first.ID))
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Read)
	assert.False(t, first.Timestamp.IsZero())

	msgs := state.Messages.Query("codex", false)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
}

func TestMessageStore_QueryIncludesBroadcasts(t *testing.T) {
	state := NewState()

	state.Messages.Append("cascade", "codex", "direct")
	state.Messages.Append("windsurf", RecipientAll, "broadcast")

	msgs := state.Messages.Query("codex", false)
	require.Len(t, msgs, 2)

	// The sender sees its own broadcast too
	msgs = state.Messages.Query("windsurf", false)
	require.Len(t, msgs, 1)
	assert.Equal(t, "broadcast", msgs[0].Content)
}

func TestMessageStore_QueryUnreadOnly(t *testing.T) {
	state := NewState()

	read := state.Messages.Append("cascade", "codex", "already seen")
	state.Messages.Append("cascade", "codex", "fresh")
	state.Messages.MarkRead([]string{read.ID})

	msgs := state.Messages.Query("codex", true)
	require.Len(t, msgs, 1)
	assert.Equal(t, "fresh", msgs[0].Content)

	// Reading never deletes: the full query still returns both
	assert.Len(t, state.Messages.Query("codex", false), 2)
}

func TestMessageStore_QueryNoMatches(t *testing.T) {
	state := NewState()
	state.Messages.Append("cascade", "codex", "hello")

	msgs := state.Messages.Query("windsurf", false)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestMessageStore_MarkRead(t *testing.T) {
	state := NewState()

	a := state.Messages.Append("cascade", "codex", "one")
	b := state.Messages.Append("cascade", "codex", "two")

	marked := state.Messages.MarkRead([]string{a.ID, "no-such-id", b.ID})
	assert.Equal(t, 2, marked)

	for _, msg := range state.Messages.Snapshot() {
		assert.True(t, msg.Read)
	}
}

func TestMessageStore_MarkReadIsIdempotent(t *testing.T) {
	state := NewState()

	a := state.Messages.Append("cascade", "codex", "one")
	b := state.Messages.Append("cascade", "codex", "two")
	ids := []string{a.ID, b.ID}

	// Only false-to-true transitions count, so a repeat returns 0
	assert.Equal(t, 2, state.Messages.MarkRead(ids))
	assert.Equal(t, 0, state.Messages.MarkRead(ids))

	// A mixed batch counts just the messages still unread
	c := state.Messages.Append("cascade", "codex", "three")
	assert.Equal(t, 1, state.Messages.MarkRead([]string{a.ID, c.ID}))
}

func TestMessageStore_MarkReadEmpty(t *testing.T) {
	state := NewState()
	assert.Equal(t, 0, state.Messages.MarkRead([]string{}))
}

func TestTaskStore_CreateNotifiesAssignee(t *testing.T) {
	state := NewState()

	task := state.Tasks.Create("Fix header alignment", "2px drift on scroll", "cascade", "codex", TaskPriorityHigh, nil)

	assert.True(t, isValidUUID(task.ID))
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, TaskPriorityHigh, task.Priority)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	msgs := state.Messages.Query("cascade", false)
	require.Len(t, msgs, 1)
	assert.Equal(t, "codex", msgs[0].From)
	assert.Equal(t, "cascade", msgs[0].To)
	assert.Equal(t, `📋 New task: "Fix header alignment" (high)`, msgs[0].Content)
}

func TestTaskStore_QueryFilters(t *testing.T) {
	state := NewState()

	state.Tasks.Create("A", "first", "cascade", "codex", TaskPriorityMedium, nil)
	state.Tasks.Create("B", "second", "codex", "cascade", TaskPriorityMedium, nil)
	state.Tasks.Create("C", "third", "cascade", "windsurf", TaskPriorityMedium, nil)

	assigned := state.Tasks.Query("cascade", TaskFilterAssigned, StatusAll)
	require.Len(t, assigned, 2)
	assert.Equal(t, "A", assigned[0].Title)
	assert.Equal(t, "C", assigned[1].Title)

	created := state.Tasks.Query("cascade", TaskFilterCreated, StatusAll)
	require.Len(t, created, 1)
	assert.Equal(t, "B", created[0].Title)

	all := state.Tasks.Query("anyone", TaskFilterAll, StatusAll)
	assert.Len(t, all, 3)
}

func TestTaskStore_QueryStatusFilter(t *testing.T) {
	state := NewState()

	task := state.Tasks.Create("A", "first", "cascade", "codex", TaskPriorityMedium, nil)
	state.Tasks.Create("B", "second", "cascade", "codex", TaskPriorityMedium, nil)

	_, err := state.Tasks.Update(task.ID, TaskStatusInProgress, "")
	require.NoError(t, err)

	pending := state.Tasks.Query("cascade", TaskFilterAssigned, string(TaskStatusPending))
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].Title)

	inProgress := state.Tasks.Query("cascade", TaskFilterAssigned, string(TaskStatusInProgress))
	require.Len(t, inProgress, 1)
	assert.Equal(t, "A", inProgress[0].Title)
}

func TestTaskStore_UpdateNotFound(t *testing.T) {
	state := NewState()

	_, err := state.Tasks.Update("no-such-task", TaskStatusCompleted, "")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "no-such-task")
}

func TestTaskStore_UpdateCompletionNotifiesCreator(t *testing.T) {
	state := NewState()

	task := state.Tasks.Create("Fix header alignment", "2px drift", "cascade", "codex", TaskPriorityHigh, nil)

	updated, err := state.Tasks.Update(task.ID, TaskStatusCompleted, "used position:sticky")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusCompleted, updated.Status)
	assert.True(t, updated.UpdatedAt.After(task.CreatedAt) || updated.UpdatedAt.Equal(task.CreatedAt))

	// Creator gets the completion message from the assignee
	msgs := state.Messages.Query("codex", false)
	require.Len(t, msgs, 1)
	assert.Equal(t, "cascade", msgs[0].From)
	assert.Equal(t, `✅ Completed: "Fix header alignment" - used position:sticky`, msgs[0].Content)
}

func TestTaskStore_UpdateCompletionWithoutNotes(t *testing.T) {
	state := NewState()

	task := state.Tasks.Create("Fix header alignment", "2px drift", "cascade", "codex", TaskPriorityHigh, nil)

	_, err := state.Tasks.Update(task.ID, TaskStatusCompleted, "")
	require.NoError(t, err)

	msgs := state.Messages.Query("codex", false)
	require.Len(t, msgs, 1)
	assert.Equal(t, `✅ Completed: "Fix header alignment"`, msgs[0].Content)
}

func TestTaskStore_UpdateNonCompletionDoesNotNotify(t *testing.T) {
	state := NewState()

	task := state.Tasks.Create("A", "first", "cascade", "codex", TaskPriorityMedium, nil)

	_, err := state.Tasks.Update(task.ID, TaskStatusBlocked, "waiting on design")
	require.NoError(t, err)

	// Only the creation notification to the assignee exists
	assert.Empty(t, state.Messages.Query("codex", false))
	assert.Len(t, state.Messages.Query("cascade", false), 1)
}

func TestTaskStore_UpdateEmptyStatusTouchesTimestamp(t *testing.T) {
	state := NewState()

	task := state.Tasks.Create("A", "first", "cascade", "codex", TaskPriorityMedium, nil)

	updated, err := state.Tasks.Update(task.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))
}

func TestContextStore_Defaults(t *testing.T) {
	state := NewState()

	ctx := state.Context.Get()
	assert.Empty(t, ctx.CurrentBranch)
	assert.NotNil(t, ctx.ActiveFiles)
	assert.NotNil(t, ctx.RecentChanges)
	assert.Empty(t, ctx.Notes)
	assert.False(t, ctx.LastUpdated.IsZero())
}

func TestContextStore_PartialUpdate(t *testing.T) {
	state := NewState()

	branch := "feature/header-fix"
	notes := "merging after review"
	state.Context.Update(ContextUpdate{CurrentBranch: &branch, Notes: &notes})

	files := []string{"header.css", "layout.tsx"}
	ctx := state.Context.Update(ContextUpdate{ActiveFiles: files})

	// Earlier fields survive an update that omits them
	assert.Equal(t, "feature/header-fix", ctx.CurrentBranch)
	assert.Equal(t, "merging after review", ctx.Notes)
	assert.Equal(t, files, ctx.ActiveFiles)
}

func TestContextStore_ExplicitEmptyIsApplied(t *testing.T) {
	state := NewState()

	branch := "main"
	state.Context.Update(ContextUpdate{
		CurrentBranch: &branch,
		ActiveFiles:   []string{"a.go"},
	})

	// A non-nil empty value overwrites; a nil value does not
	empty := ""
	ctx := state.Context.Update(ContextUpdate{
		CurrentBranch: &empty,
		ActiveFiles:   []string{},
	})
	assert.Empty(t, ctx.CurrentBranch)
	assert.NotNil(t, ctx.ActiveFiles)
	assert.Empty(t, ctx.ActiveFiles)
}

func TestContextStore_EmptyUpdateAdvancesTimestamp(t *testing.T) {
	state := NewState()

	before := state.Context.Get().LastUpdated
	after := state.Context.Update(ContextUpdate{}).LastUpdated

	assert.False(t, after.Before(before))
}

func TestStores_ConcurrentAccess(t *testing.T) {
	state := NewState()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			agent := fmt.Sprintf("agent-%d", n)
			for j := 0; j < 20; j++ {
				state.Messages.Append(agent, "codex", "ping")
				state.Messages.Query("codex", true)
				state.Tasks.Create("T", "work", "codex", agent, TaskPriorityLow, nil)
				state.Tasks.Query(agent, TaskFilterCreated, StatusAll)
				state.Context.Update(ContextUpdate{Notes: &agent})
				state.Context.Get()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, state.Tasks.Snapshot(), 200)
	// 200 direct sends plus 200 task notifications
	assert.Len(t, state.Messages.Snapshot(), 400)
}
