package bridge

import (
	"encoding/json"
	"fmt"
)

// Operation names. These nine strings are the complete surface the
// protocol layer can invoke.
const (
	OpSendMessage      = "send_message"
	OpGetMessages      = "get_messages"
	OpMarkMessagesRead = "mark_messages_read"
	OpCreateTask       = "create_task"
	OpGetTasks         = "get_tasks"
	OpUpdateTask       = "update_task"
	OpUpdateContext    = "update_context"
	OpGetContext       = "get_context"
	OpAnnouncePresence = "announce_presence"
)

// OperationNames lists every operation in catalog order.
func OperationNames() []string {
	return []string{
		OpSendMessage,
		OpGetMessages,
		OpMarkMessagesRead,
		OpCreateTask,
		OpGetTasks,
		OpUpdateTask,
		OpUpdateContext,
		OpGetContext,
		OpAnnouncePresence,
	}
}

// SendMessageRequest carries the arguments for send_message.
type SendMessageRequest struct {
	From    string `json:"from"`    // Sending agent name
	To      string `json:"to"`      // Receiving agent name, or "all"
	Content string `json:"content"` // Text body
}

// SendMessageResult reports the stored message's identifier.
type SendMessageResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

// GetMessagesRequest carries the arguments for get_messages.
type GetMessagesRequest struct {
	Agent      string `json:"agent"`                // Agent whose inbox to read
	UnreadOnly bool   `json:"unreadOnly,omitempty"` // Skip already-read messages
}

// GetMessagesResult carries the matching messages in insertion order.
type GetMessagesResult struct {
	Count    int       `json:"count"`
	Messages []Message `json:"messages"`
}

// MarkMessagesReadRequest carries the arguments for mark_messages_read.
type MarkMessagesReadRequest struct {
	MessageIDs []string `json:"messageIds"`
}

// MarkMessagesReadResult reports how many of the given IDs moved a
// message from unread to read.
type MarkMessagesReadResult struct {
	Success    bool `json:"success"`
	MarkedRead int  `json:"markedRead"`
}

// CreateTaskRequest carries the arguments for create_task. Priority
// defaults to medium when empty; Context is attached as given.
type CreateTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	AssignedTo  string         `json:"assignedTo"`
	CreatedBy   string         `json:"createdBy"`
	Priority    TaskPriority   `json:"priority,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

// CreateTaskResult reports the stored task's identifier.
type CreateTaskResult struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId"`
}

// GetTasksRequest carries the arguments for get_tasks. Filter defaults
// to assigned and Status to "all" when empty.
type GetTasksRequest struct {
	Agent  string     `json:"agent"`
	Filter TaskFilter `json:"filter,omitempty"`
	Status string     `json:"status,omitempty"`
}

// GetTasksResult carries the matching tasks in insertion order.
type GetTasksResult struct {
	Count int    `json:"count"`
	Tasks []Task `json:"tasks"`
}

// UpdateTaskRequest carries the arguments for update_task. An empty
// Status leaves the status untouched; Notes only appear in the
// completion notification and are never stored.
type UpdateTaskRequest struct {
	TaskID string     `json:"taskId"`
	Status TaskStatus `json:"status,omitempty"`
	Notes  string     `json:"notes,omitempty"`
}

// UpdateTaskResult carries the task as it stands after the update.
type UpdateTaskResult struct {
	Success bool `json:"success"`
	Task    Task `json:"task"`
}

// UpdateContextRequest carries the arguments for update_context. Nil
// fields are treated as omitted; explicit empty values are applied.
type UpdateContextRequest struct {
	CurrentBranch *string  `json:"currentBranch,omitempty"`
	ActiveFiles   []string `json:"activeFiles,omitempty"`
	RecentChanges []string `json:"recentChanges,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// UpdateContextResult carries the context as it stands after the update.
type UpdateContextResult struct {
	Success bool          `json:"success"`
	Context SharedContext `json:"context"`
}

// GetContextRequest carries the (empty) arguments for get_context.
type GetContextRequest struct{}

// AnnouncePresenceRequest carries the arguments for announce_presence.
type AnnouncePresenceRequest struct {
	Agent     string   `json:"agent"`
	Status    string   `json:"status"`
	WorkingOn []string `json:"workingOn,omitempty"`
}

// AnnouncePresenceResult acknowledges the broadcast.
type AnnouncePresenceResult struct {
	Success bool `json:"success"`
}

// ErrorResult is the data-carrying error envelope. Operation failures
// are results, not transport faults, so callers always receive a
// well-formed body.
type ErrorResult struct {
	Error string `json:"error"`
}

// Dispatcher routes the nine bridge operations against a State. Typed
// methods serve in-process callers; Call and Dispatch serve the
// protocol layer's name-plus-JSON surface.
type Dispatcher struct {
	state *State
}

// NewDispatcher creates a Dispatcher over the given State.
func NewDispatcher(state *State) *Dispatcher {
	return &Dispatcher{state: state}
}

// SendMessage stores an addressed message.
func (d *Dispatcher) SendMessage(req SendMessageRequest) (SendMessageResult, error) {
	if req.From == "" {
		return SendMessageResult{}, &ValidationError{Field: "from"}
	}
	if req.To == "" {
		return SendMessageResult{}, &ValidationError{Field: "to"}
	}
	if req.Content == "" {
		return SendMessageResult{}, &ValidationError{Field: "content"}
	}

	msg := d.state.Messages.Append(req.From, req.To, req.Content)
	return SendMessageResult{Success: true, MessageID: msg.ID}, nil
}

// GetMessages returns the messages visible to an agent.
func (d *Dispatcher) GetMessages(req GetMessagesRequest) (GetMessagesResult, error) {
	if req.Agent == "" {
		return GetMessagesResult{}, &ValidationError{Field: "agent"}
	}

	msgs := d.state.Messages.Query(req.Agent, req.UnreadOnly)
	return GetMessagesResult{Count: len(msgs), Messages: msgs}, nil
}

// MarkMessagesRead flips the read flag on the listed messages.
func (d *Dispatcher) MarkMessagesRead(req MarkMessagesReadRequest) (MarkMessagesReadResult, error) {
	if req.MessageIDs == nil {
		return MarkMessagesReadResult{}, &ValidationError{Field: "messageIds"}
	}

	marked := d.state.Messages.MarkRead(req.MessageIDs)
	return MarkMessagesReadResult{Success: true, MarkedRead: marked}, nil
}

// CreateTask stores a new pending task and notifies the assignee.
func (d *Dispatcher) CreateTask(req CreateTaskRequest) (CreateTaskResult, error) {
	if req.Title == "" {
		return CreateTaskResult{}, &ValidationError{Field: "title"}
	}
	if req.Description == "" {
		return CreateTaskResult{}, &ValidationError{Field: "description"}
	}
	if req.AssignedTo == "" {
		return CreateTaskResult{}, &ValidationError{Field: "assignedTo"}
	}
	if req.CreatedBy == "" {
		return CreateTaskResult{}, &ValidationError{Field: "createdBy"}
	}

	priority := req.Priority
	if priority == "" {
		priority = TaskPriorityMedium
	}

	task := d.state.Tasks.Create(req.Title, req.Description, req.AssignedTo, req.CreatedBy, priority, req.Context)
	return CreateTaskResult{Success: true, TaskID: task.ID}, nil
}

// GetTasks returns the tasks matching an agent, filter and status.
func (d *Dispatcher) GetTasks(req GetTasksRequest) (GetTasksResult, error) {
	if req.Agent == "" {
		return GetTasksResult{}, &ValidationError{Field: "agent"}
	}

	filter := req.Filter
	if filter == "" {
		filter = TaskFilterAssigned
	}
	if err := filter.Validate(); err != nil {
		return GetTasksResult{}, &ValidationError{Field: "filter"}
	}

	status := req.Status
	if status == "" {
		status = StatusAll
	}

	tasks := d.state.Tasks.Query(req.Agent, filter, status)
	return GetTasksResult{Count: len(tasks), Tasks: tasks}, nil
}

// UpdateTask applies a status change to an existing task.
func (d *Dispatcher) UpdateTask(req UpdateTaskRequest) (UpdateTaskResult, error) {
	if req.TaskID == "" {
		return UpdateTaskResult{}, &ValidationError{Field: "taskId"}
	}

	task, err := d.state.Tasks.Update(req.TaskID, req.Status, req.Notes)
	if err != nil {
		return UpdateTaskResult{}, err
	}
	return UpdateTaskResult{Success: true, Task: task}, nil
}

// UpdateContext applies a partial update to the shared context.
func (d *Dispatcher) UpdateContext(req UpdateContextRequest) (UpdateContextResult, error) {
	ctx := d.state.Context.Update(ContextUpdate{
		CurrentBranch: req.CurrentBranch,
		ActiveFiles:   req.ActiveFiles,
		RecentChanges: req.RecentChanges,
		Notes:         req.Notes,
	})
	return UpdateContextResult{Success: true, Context: ctx}, nil
}

// GetContext returns the shared context as it currently stands.
func (d *Dispatcher) GetContext(GetContextRequest) (SharedContext, error) {
	return d.state.Context.Get(), nil
}

// AnnouncePresence broadcasts an agent's availability to everyone.
func (d *Dispatcher) AnnouncePresence(req AnnouncePresenceRequest) (AnnouncePresenceResult, error) {
	if req.Agent == "" {
		return AnnouncePresenceResult{}, &ValidationError{Field: "agent"}
	}
	if req.Status == "" {
		return AnnouncePresenceResult{}, &ValidationError{Field: "status"}
	}

	d.state.Messages.Append(req.Agent, RecipientAll, presenceNotification(req.Agent, req.Status, req.WorkingOn))
	return AnnouncePresenceResult{Success: true}, nil
}

// Call invokes an operation by name with a raw JSON argument payload,
// unmarshalling into the operation's typed request. Unknown names
// return UnknownOperationError; malformed payloads return an error
// describing the operation they were meant for.
func (d *Dispatcher) Call(name string, args json.RawMessage) (any, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch name {
	case OpSendMessage:
		var req SendMessageRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.SendMessage(req)
	case OpGetMessages:
		var req GetMessagesRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.GetMessages(req)
	case OpMarkMessagesRead:
		var req MarkMessagesReadRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.MarkMessagesRead(req)
	case OpCreateTask:
		var req CreateTaskRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.CreateTask(req)
	case OpGetTasks:
		var req GetTasksRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.GetTasks(req)
	case OpUpdateTask:
		var req UpdateTaskRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.UpdateTask(req)
	case OpUpdateContext:
		var req UpdateContextRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.UpdateContext(req)
	case OpGetContext:
		return d.GetContext(GetContextRequest{})
	case OpAnnouncePresence:
		var req AnnouncePresenceRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", name, err)
		}
		return d.AnnouncePresence(req)
	default:
		return nil, &UnknownOperationError{Name: name}
	}
}

// Dispatch is Call with the error surface flattened for the protocol
// layer: any failure becomes an ErrorResult so the caller always gets a
// serialisable body.
func (d *Dispatcher) Dispatch(name string, args json.RawMessage) any {
	result, err := d.Call(name, args)
	if err != nil {
		return ErrorResult{Error: err.Error()}
	}
	return result
}
