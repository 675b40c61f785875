package server

import (
	"github.com/invopop/jsonschema"

	"github.com/dyluth/bridge/pkg/bridge"
)

// Tool describes one callable operation for the catalog endpoint.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// generateSchema reflects a JSON Schema from an operation's request
// struct. Schemas are inlined and closed so clients see exactly the
// accepted argument shape.
func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Catalog returns the nine operations with their argument schemas, in
// the same order OperationNames reports them.
func Catalog() []Tool {
	return []Tool{
		{
			Name:        bridge.OpSendMessage,
			Description: "Send a message to another AI agent",
			InputSchema: generateSchema[bridge.SendMessageRequest](),
		},
		{
			Name:        bridge.OpGetMessages,
			Description: "Get messages sent to you",
			InputSchema: generateSchema[bridge.GetMessagesRequest](),
		},
		{
			Name:        bridge.OpMarkMessagesRead,
			Description: "Mark messages as read",
			InputSchema: generateSchema[bridge.MarkMessagesReadRequest](),
		},
		{
			Name:        bridge.OpCreateTask,
			Description: "Create a task for another agent",
			InputSchema: generateSchema[bridge.CreateTaskRequest](),
		},
		{
			Name:        bridge.OpGetTasks,
			Description: "Get tasks assigned to or created by you",
			InputSchema: generateSchema[bridge.GetTasksRequest](),
		},
		{
			Name:        bridge.OpUpdateTask,
			Description: "Update a task status",
			InputSchema: generateSchema[bridge.UpdateTaskRequest](),
		},
		{
			Name:        bridge.OpUpdateContext,
			Description: "Update shared context",
			InputSchema: generateSchema[bridge.UpdateContextRequest](),
		},
		{
			Name:        bridge.OpGetContext,
			Description: "Get shared context",
			InputSchema: generateSchema[bridge.GetContextRequest](),
		},
		{
			Name:        bridge.OpAnnouncePresence,
			Description: "Announce you are online",
			InputSchema: generateSchema[bridge.AnnouncePresenceRequest](),
		},
	}
}
