package bridge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecipientAll is the broadcast recipient. A message addressed to it is
// visible to every agent.
const RecipientAll = "all"

// Message represents an addressed note from one agent to another.
// Messages are immutable after creation except for the read flag, which
// can only ever flip from false to true.
type Message struct {
	ID        string    `json:"id"`        // UUID - unique for the process lifetime
	From      string    `json:"from"`      // Sending agent name
	To        string    `json:"to"`        // Receiving agent name, or "all" for broadcast
	Content   string    `json:"content"`   // Text body
	Timestamp time.Time `json:"timestamp"` // Creation time, immutable
	Read      bool      `json:"read"`      // False until marked read
}

// Task represents a unit of work handed from one agent to another.
// Only the status and updatedAt fields change after creation.
type Task struct {
	ID          string         `json:"id"`                // UUID - unique for the process lifetime
	Title       string         `json:"title"`
	Description string         `json:"description"`
	AssignedTo  string         `json:"assignedTo"`        // Agent expected to do the work
	CreatedBy   string         `json:"createdBy"`         // Agent that handed it off
	Status      TaskStatus     `json:"status"`            // Always pending at creation
	Priority    TaskPriority   `json:"priority"`          // Defaults to medium
	CreatedAt   time.Time      `json:"createdAt"`         // Set once at creation
	UpdatedAt   time.Time      `json:"updatedAt"`         // Refreshed on every update
	Context     map[string]any `json:"context,omitempty"` // Free-form data attached at creation only
}

// TaskStatus is the bounded lifecycle state of a task.
type TaskStatus string

const (
	// TaskStatusPending is the initial status of every task regardless of input
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusInProgress indicates the assignee has picked the task up
	TaskStatusInProgress TaskStatus = "in_progress"

	// TaskStatusCompleted indicates the work is done; reaching it notifies the creator
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusBlocked indicates the assignee cannot make progress
	TaskStatusBlocked TaskStatus = "blocked"
)

// TaskPriority is the urgency attached to a task at creation.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// TaskFilter selects the base population for a task query.
type TaskFilter string

const (
	// TaskFilterAssigned selects tasks where the agent is the assignee (default)
	TaskFilterAssigned TaskFilter = "assigned"

	// TaskFilterCreated selects tasks the agent created
	TaskFilterCreated TaskFilter = "created"

	// TaskFilterAll selects every task regardless of agent
	TaskFilterAll TaskFilter = "all"
)

// StatusAll is the status filter value that matches every task status.
const StatusAll = "all"

// SharedContext is the singleton record of shared working state. Exactly
// one instance exists per process; fields absent from an update are left
// unchanged, and lastUpdated advances on every mutating call.
type SharedContext struct {
	CurrentBranch string    `json:"currentBranch"` // Branch the agents are working on
	ActiveFiles   []string  `json:"activeFiles"`   // Caller-supplied order, replaced wholesale on update
	RecentChanges []string  `json:"recentChanges"` // Replaced wholesale on update
	Notes         string    `json:"notes"`         // Free-form coordination notes
	LastUpdated   time.Time `json:"lastUpdated"`   // Advances on every mutating call
}

// Validate checks if the Message has valid field values.
func (m *Message) Validate() error {
	if !isValidUUID(m.ID) {
		return fmt.Errorf("invalid message ID: not a valid UUID")
	}

	if m.From == "" {
		return fmt.Errorf("message from cannot be empty")
	}

	if m.To == "" {
		return fmt.Errorf("message to cannot be empty")
	}

	if m.Content == "" {
		return fmt.Errorf("message content cannot be empty")
	}

	return nil
}

// Validate checks if the Task has valid field values.
func (t *Task) Validate() error {
	if !isValidUUID(t.ID) {
		return fmt.Errorf("invalid task ID: not a valid UUID")
	}

	if t.Title == "" {
		return fmt.Errorf("task title cannot be empty")
	}

	if t.Description == "" {
		return fmt.Errorf("task description cannot be empty")
	}

	if t.AssignedTo == "" {
		return fmt.Errorf("assigned_to cannot be empty")
	}

	if t.CreatedBy == "" {
		return fmt.Errorf("created_by cannot be empty")
	}

	if err := t.Status.Validate(); err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}

	if err := t.Priority.Validate(); err != nil {
		return fmt.Errorf("invalid priority: %w", err)
	}

	return nil
}

// Validate checks if the TaskStatus is a valid enum value.
func (ts TaskStatus) Validate() error {
	switch ts {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return nil
	default:
		return fmt.Errorf("unknown task status: %q", ts)
	}
}

// Validate checks if the TaskPriority is a valid enum value.
func (tp TaskPriority) Validate() error {
	switch tp {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return nil
	default:
		return fmt.Errorf("unknown task priority: %q", tp)
	}
}

// Validate checks if the TaskFilter is a valid enum value.
func (tf TaskFilter) Validate() error {
	switch tf {
	case TaskFilterAssigned, TaskFilterCreated, TaskFilterAll:
		return nil
	default:
		return fmt.Errorf("unknown task filter: %q", tf)
	}
}

// newID generates a message or task identifier. UUIDv4 keeps IDs unique
// within the process even under concurrent calls.
func newID() string {
	return uuid.New().String()
}

// isValidUUID checks if a string is a valid UUID format.
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
