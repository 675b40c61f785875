package bridge

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestMessageValidate_Valid tests that a fully populated message passes validation
func TestMessageValidate_Valid(t *testing.T) {
	msg := &Message{
		ID:        uuid.New().String(),
		From:      "cascade",
		To:        "codex",
		Content:   "header fix is ready for review",
		Timestamp: time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		t.Errorf("valid message failed validation: %v", err)
	}
}

// TestMessageValidate_BroadcastRecipient tests that "all" is a valid recipient
func TestMessageValidate_BroadcastRecipient(t *testing.T) {
	msg := &Message{
		ID:        uuid.New().String(),
		From:      "cascade",
		To:        RecipientAll,
		Content:   "going offline for a bit",
		Timestamp: time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		t.Errorf("broadcast message failed validation: %v", err)
	}
}

// TestMessageValidate_InvalidID tests that a non-UUID ID fails validation
func TestMessageValidate_InvalidID(t *testing.T) {
	msg := &Message{
		ID:      "not-a-uuid",
		From:    "cascade",
		To:      "codex",
		Content: "hello",
	}

	if err := msg.Validate(); err == nil {
		t.Error("expected validation to fail for invalid ID, but it passed")
	}
}

// TestMessageValidate_EmptyFields tests that each required field is enforced
func TestMessageValidate_EmptyFields(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"empty from", Message{ID: uuid.New().String(), To: "codex", Content: "hi"}},
		{"empty to", Message{ID: uuid.New().String(), From: "cascade", Content: "hi"}},
		{"empty content", Message{ID: uuid.New().String(), From: "cascade", To: "codex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.msg.Validate(); err == nil {
				t.Error("expected validation to fail, but it passed")
			}
		})
	}
}

// TestTaskValidate_Valid tests that a fully populated task passes validation
func TestTaskValidate_Valid(t *testing.T) {
	task := &Task{
		ID:          uuid.New().String(),
		Title:       "Fix header alignment",
		Description: "The sticky header drifts 2px on scroll",
		AssignedTo:  "cascade",
		CreatedBy:   "codex",
		Status:      TaskStatusPending,
		Priority:    TaskPriorityHigh,
	}

	if err := task.Validate(); err != nil {
		t.Errorf("valid task failed validation: %v", err)
	}
}

// TestTaskValidate_InvalidStatus tests that an unknown status fails validation
func TestTaskValidate_InvalidStatus(t *testing.T) {
	task := &Task{
		ID:          uuid.New().String(),
		Title:       "Fix header alignment",
		Description: "The sticky header drifts 2px on scroll",
		AssignedTo:  "cascade",
		CreatedBy:   "codex",
		Status:      TaskStatus("done"),
		Priority:    TaskPriorityMedium,
	}

	if err := task.Validate(); err == nil {
		t.Error("expected validation to fail for unknown status, but it passed")
	}
}

// TestTaskStatusValidate tests the full status enum
func TestTaskStatusValidate(t *testing.T) {
	valid := []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked}
	for _, status := range valid {
		if err := status.Validate(); err != nil {
			t.Errorf("status %q failed validation: %v", status, err)
		}
	}

	invalid := []TaskStatus{"", "done", "PENDING", "cancelled"}
	for _, status := range invalid {
		if err := status.Validate(); err == nil {
			t.Errorf("expected status %q to fail validation, but it passed", status)
		}
	}
}

// TestTaskPriorityValidate tests the full priority enum
func TestTaskPriorityValidate(t *testing.T) {
	valid := []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}
	for _, priority := range valid {
		if err := priority.Validate(); err != nil {
			t.Errorf("priority %q failed validation: %v", priority, err)
		}
	}

	invalid := []TaskPriority{"", "critical", "HIGH"}
	for _, priority := range invalid {
		if err := priority.Validate(); err == nil {
			t.Errorf("expected priority %q to fail validation, but it passed", priority)
		}
	}
}

// TestTaskFilterValidate tests the full filter enum
func TestTaskFilterValidate(t *testing.T) {
	valid := []TaskFilter{TaskFilterAssigned, TaskFilterCreated, TaskFilterAll}
	for _, filter := range valid {
		if err := filter.Validate(); err != nil {
			t.Errorf("filter %q failed validation: %v", filter, err)
		}
	}

	if err := TaskFilter("mine").Validate(); err == nil {
		t.Error("expected filter \"mine\" to fail validation, but it passed")
	}
}

// TestNewID tests that generated IDs are valid, distinct UUIDs
func TestNewID(t *testing.T) {
	a := newID()
	b := newID()

	if !isValidUUID(a) {
		t.Errorf("newID returned invalid UUID: %q", a)
	}
	if a == b {
		t.Error("consecutive IDs should differ")
	}
}
