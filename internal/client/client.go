// Package client is the HTTP client the CLI commands use to talk to a
// running bridge server.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dyluth/bridge/pkg/bridge"
)

// DefaultAddr is used when neither --addr nor BRIDGE_ADDR is set.
const DefaultAddr = "http://localhost:8377"

// OperationError is an error the server reported as data: the request
// reached the bridge, but the operation itself failed.
type OperationError struct {
	Message string
}

func (e *OperationError) Error() string {
	return e.Message
}

// Client talks to one bridge server.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for the given address. A bare host:port is
// treated as http.
func New(addr string) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimSuffix(addr, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Health checks that a bridge server is reachable at the address.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("bridge server unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge server unhealthy: %s", resp.Status)
	}
	return nil
}

// callTool posts arguments to an operation and decodes the result into
// out. A data-carrying error body becomes an OperationError.
func (c *Client) callTool(ctx context.Context, name string, args any, out any) error {
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}

	url := fmt.Sprintf("%s/v1/tools/%s", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response for %s: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s: %s", name, resp.Status, strings.TrimSpace(string(body)))
	}

	// The server reports operation failures as data, not status codes
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != nil {
		return &OperationError{Message: *probe.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", name, err)
	}
	return nil
}

// SendMessage stores a message on the server.
func (c *Client) SendMessage(ctx context.Context, req bridge.SendMessageRequest) (bridge.SendMessageResult, error) {
	var res bridge.SendMessageResult
	err := c.callTool(ctx, bridge.OpSendMessage, req, &res)
	return res, err
}

// GetMessages fetches the messages visible to an agent.
func (c *Client) GetMessages(ctx context.Context, req bridge.GetMessagesRequest) (bridge.GetMessagesResult, error) {
	var res bridge.GetMessagesResult
	err := c.callTool(ctx, bridge.OpGetMessages, req, &res)
	return res, err
}

// MarkMessagesRead flips the read flag on the listed messages.
func (c *Client) MarkMessagesRead(ctx context.Context, req bridge.MarkMessagesReadRequest) (bridge.MarkMessagesReadResult, error) {
	var res bridge.MarkMessagesReadResult
	err := c.callTool(ctx, bridge.OpMarkMessagesRead, req, &res)
	return res, err
}

// CreateTask creates a task on the server.
func (c *Client) CreateTask(ctx context.Context, req bridge.CreateTaskRequest) (bridge.CreateTaskResult, error) {
	var res bridge.CreateTaskResult
	err := c.callTool(ctx, bridge.OpCreateTask, req, &res)
	return res, err
}

// GetTasks fetches the tasks matching an agent, filter and status.
func (c *Client) GetTasks(ctx context.Context, req bridge.GetTasksRequest) (bridge.GetTasksResult, error) {
	var res bridge.GetTasksResult
	err := c.callTool(ctx, bridge.OpGetTasks, req, &res)
	return res, err
}

// UpdateTask applies a status change to a task.
func (c *Client) UpdateTask(ctx context.Context, req bridge.UpdateTaskRequest) (bridge.UpdateTaskResult, error) {
	var res bridge.UpdateTaskResult
	err := c.callTool(ctx, bridge.OpUpdateTask, req, &res)
	return res, err
}

// UpdateContext applies a partial update to the shared context.
func (c *Client) UpdateContext(ctx context.Context, req bridge.UpdateContextRequest) (bridge.UpdateContextResult, error) {
	var res bridge.UpdateContextResult
	err := c.callTool(ctx, bridge.OpUpdateContext, req, &res)
	return res, err
}

// GetContext fetches the shared context.
func (c *Client) GetContext(ctx context.Context) (bridge.SharedContext, error) {
	var res bridge.SharedContext
	err := c.callTool(ctx, bridge.OpGetContext, bridge.GetContextRequest{}, &res)
	return res, err
}

// AnnouncePresence broadcasts an agent's availability.
func (c *Client) AnnouncePresence(ctx context.Context, req bridge.AnnouncePresenceRequest) (bridge.AnnouncePresenceResult, error) {
	var res bridge.AnnouncePresenceResult
	err := c.callTool(ctx, bridge.OpAnnouncePresence, req, &res)
	return res, err
}

// MessagesSnapshot fetches every stored message, used for short-ID
// resolution.
func (c *Client) MessagesSnapshot(ctx context.Context) ([]bridge.Message, error) {
	var res struct {
		Messages []bridge.Message `json:"messages"`
	}
	if err := c.readResource(ctx, "messages", &res); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

// TasksSnapshot fetches every stored task, used for short-ID
// resolution.
func (c *Client) TasksSnapshot(ctx context.Context) ([]bridge.Task, error) {
	var res struct {
		Tasks []bridge.Task `json:"tasks"`
	}
	if err := c.readResource(ctx, "tasks", &res); err != nil {
		return nil, err
	}
	return res.Tasks, nil
}

func (c *Client) readResource(ctx context.Context, name string, out any) error {
	url := fmt.Sprintf("%s/v1/resources/%s", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to read resource %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("resource %s returned %s", name, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// EventStream is an open connection to the server's event feed.
type EventStream struct {
	events chan bridge.Event
	errs   chan error
	close  func()
}

// Events returns the channel events are delivered on. It is closed
// when the stream ends.
func (s *EventStream) Events() <-chan bridge.Event {
	return s.events
}

// Errs reports the terminal error of the stream, if any.
func (s *EventStream) Errs() <-chan error {
	return s.errs
}

// Close tears the connection down.
func (s *EventStream) Close() {
	s.close()
}

// Events opens the server's SSE feed and decodes mutation events until
// ctx is cancelled or the connection drops. Ping events are consumed
// internally.
func (c *Client) Events(ctx context.Context) (*EventStream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/events", nil)
	if err != nil {
		return nil, err
	}

	// Streaming must not be bounded by the request timeout
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("event stream returned %s", resp.Status)
	}

	stream := &EventStream{
		events: make(chan bridge.Event, 10),
		errs:   make(chan error, 1),
		close:  func() { resp.Body.Close() },
	}

	go func() {
		defer close(stream.events)

		scanner := bufio.NewScanner(resp.Body)
		var eventName, data string
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				eventName = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data += strings.TrimPrefix(line, "data: ")
			case line == "":
				if eventName != "" && eventName != "ping" {
					var event bridge.Event
					if err := json.Unmarshal([]byte(data), &event); err == nil {
						select {
						case stream.events <- event:
						case <-ctx.Done():
							return
						}
					}
				}
				eventName, data = "", ""
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			stream.errs <- err
		}
	}()

	return stream, nil
}
