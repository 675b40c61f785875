package bridge

import (
	"context"
	"sync"
	"time"
)

// State owns all bridge data for one process. Construct it once with
// NewState and hand it to a Dispatcher; independent State values do not
// share anything, so tests can each build their own.
type State struct {
	Messages *MessageStore
	Tasks    *TaskStore
	Context  *ContextStore

	bus *eventBus
}

// NewState creates an empty State with all three stores initialised.
func NewState() *State {
	bus := newEventBus()

	messages := &MessageStore{bus: bus}

	return &State{
		Messages: messages,
		Tasks:    &TaskStore{bus: bus, messages: messages},
		Context: &ContextStore{
			bus: bus,
			ctx: SharedContext{
				ActiveFiles:   []string{},
				RecentChanges: []string{},
				LastUpdated:   time.Now().UTC(),
			},
		},
		bus: bus,
	}
}

// Subscribe registers for store mutation events. The subscription is
// closed when ctx is cancelled or Close is called, whichever comes
// first. Delivery is best-effort; slow consumers miss events.
func (s *State) Subscribe(ctx context.Context) *Subscription {
	return s.bus.subscribe(ctx)
}

// MessageStore holds every message ever sent, in insertion order.
// Messages are never deleted.
type MessageStore struct {
	mu       sync.RWMutex
	messages []Message
	bus      *eventBus
}

// Append stores a new message and returns it. The ID and timestamp are
// assigned here; the read flag starts false.
func (s *MessageStore) Append(from, to, content string) Message {
	msg := Message{
		ID:        newID(),
		From:      from,
		To:        to,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Read:      false,
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.bus.publish(Event{
		Type:      EventMessageSent,
		Timestamp: msg.Timestamp,
		Message:   &msg,
	})

	return msg
}

// Query returns the messages visible to agent: those addressed to it
// directly plus broadcasts to "all", in insertion order. With
// unreadOnly set, already-read messages are skipped.
func (s *MessageStore) Query(agent string, unreadOnly bool) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Message{}
	for _, msg := range s.messages {
		if msg.To != agent && msg.To != RecipientAll {
			continue
		}
		if unreadOnly && msg.Read {
			continue
		}
		result = append(result, msg)
	}
	return result
}

// MarkRead flips the read flag on each listed message and returns how
// many actually transitioned from unread to read. Unknown IDs and
// already-read messages are ignored, so repeating a call with the same
// IDs returns 0.
func (s *MessageStore) MarkRead(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	marked := 0
	for _, id := range ids {
		for i := range s.messages {
			if s.messages[i].ID == id {
				if !s.messages[i].Read {
					s.messages[i].Read = true
					marked++
				}
				break
			}
		}
	}
	return marked
}

// Snapshot returns a copy of every stored message in insertion order.
func (s *MessageStore) Snapshot() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Message, len(s.messages))
	copy(result, s.messages)
	return result
}

// TaskStore holds every task ever created, in insertion order. Creating
// or completing a task also appends a notification message, so the
// store carries a reference to the MessageStore.
type TaskStore struct {
	mu       sync.RWMutex
	tasks    []Task
	bus      *eventBus
	messages *MessageStore
}

// Create stores a new task in status pending and notifies the assignee
// with a message from the creator. The context map is attached as given
// and never touched again.
func (s *TaskStore) Create(title, description, assignedTo, createdBy string, priority TaskPriority, taskContext map[string]any) Task {
	now := time.Now().UTC()
	task := Task{
		ID:          newID(),
		Title:       title,
		Description: description,
		AssignedTo:  assignedTo,
		CreatedBy:   createdBy,
		Status:      TaskStatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		Context:     taskContext,
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	s.bus.publish(Event{
		Type:      EventTaskCreated,
		Timestamp: now,
		Task:      &task,
	})

	s.messages.Append(createdBy, assignedTo, newTaskNotification(task))

	return task
}

// Query returns tasks for agent according to filter (assigned, created
// or all) and status ("all" matches every status), in insertion order.
func (s *TaskStore) Query(agent string, filter TaskFilter, status string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Task{}
	for _, task := range s.tasks {
		switch filter {
		case TaskFilterAssigned:
			if task.AssignedTo != agent {
				continue
			}
		case TaskFilterCreated:
			if task.CreatedBy != agent {
				continue
			}
		case TaskFilterAll:
		}
		if status != StatusAll && string(task.Status) != status {
			continue
		}
		result = append(result, task)
	}
	return result
}

// Update applies a status change to the task with the given ID and
// refreshes updatedAt. An empty status leaves the status untouched but
// still counts as an update. When the status transitions to completed,
// the creator is notified with a message from the assignee; notes are
// included in that message but not stored on the task.
//
// Returns NotFoundError if no task has the given ID.
func (s *TaskStore) Update(taskID string, status TaskStatus, notes string) (Task, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return Task{}, &NotFoundError{TaskID: taskID}
	}

	if status != "" {
		s.tasks[idx].Status = status
	}
	s.tasks[idx].UpdatedAt = time.Now().UTC()
	task := s.tasks[idx]

	s.mu.Unlock()

	s.bus.publish(Event{
		Type:      EventTaskUpdated,
		Timestamp: task.UpdatedAt,
		Task:      &task,
	})

	if status == TaskStatusCompleted {
		s.messages.Append(task.AssignedTo, task.CreatedBy, taskCompletedNotification(task, notes))
	}

	return task, nil
}

// Snapshot returns a copy of every stored task in insertion order.
func (s *TaskStore) Snapshot() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Task, len(s.tasks))
	copy(result, s.tasks)
	return result
}

// ContextUpdate carries a partial update to the shared context. Nil
// fields are omitted and leave the current value untouched; a non-nil
// empty string or slice is an explicit value and is applied.
type ContextUpdate struct {
	CurrentBranch *string
	ActiveFiles   []string
	RecentChanges []string
	Notes         *string
}

// ContextStore holds the singleton shared context record.
type ContextStore struct {
	mu  sync.RWMutex
	ctx SharedContext
	bus *eventBus
}

// Get returns the current shared context.
func (s *ContextStore) Get() SharedContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// Update applies the non-nil fields of u and advances lastUpdated.
// An entirely empty update still advances lastUpdated. Returns the
// context as it stands after the update.
func (s *ContextStore) Update(u ContextUpdate) SharedContext {
	s.mu.Lock()

	if u.CurrentBranch != nil {
		s.ctx.CurrentBranch = *u.CurrentBranch
	}
	if u.ActiveFiles != nil {
		s.ctx.ActiveFiles = u.ActiveFiles
	}
	if u.RecentChanges != nil {
		s.ctx.RecentChanges = u.RecentChanges
	}
	if u.Notes != nil {
		s.ctx.Notes = *u.Notes
	}
	s.ctx.LastUpdated = time.Now().UTC()
	result := s.ctx

	s.mu.Unlock()

	s.bus.publish(Event{
		Type:      EventContextUpdated,
		Timestamp: result.LastUpdated,
		Context:   &result,
	})

	return result
}
