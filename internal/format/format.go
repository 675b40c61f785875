// Package format renders messages and tasks for CLI output, as compact
// fixed-width tables or as line-delimited JSON for piping into jq.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dyluth/bridge/pkg/bridge"
)

// MessagesTable writes messages as a formatted table to the provided writer.
// Columns: ID (truncated), FROM, TO, AGE, READ, and CONTENT (truncated).
// Returns the number of messages formatted.
func MessagesTable(w io.Writer, messages []bridge.Message, agent string) int {
	if len(messages) == 0 {
		fmt.Fprintf(w, "No messages for '%s'\n", agent)
		return 0
	}

	fmt.Fprintf(w, "Messages for '%s':\n\n", agent)

	fmt.Fprintf(w, "%-10s %-12s %-12s %-8s %-6s %s\n",
		"ID", "FROM", "TO", "AGE", "READ", "CONTENT")
	fmt.Fprintf(w, "%-10s %-12s %-12s %-8s %-6s %s\n",
		"----------", "------------", "------------", "--------", "------", "----------------------------------------")

	for _, m := range messages {
		fmt.Fprintf(w, "%-10s %-12s %-12s %-8s %-6s %s\n",
			shortID(m.ID),
			truncate(m.From, 12),
			truncate(m.To, 12),
			age(m.Timestamp),
			formatRead(m.Read),
			firstLine(m.Content, 40),
		)
	}

	countMsg := "message"
	if len(messages) != 1 {
		countMsg = "messages"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(messages), countMsg)

	return len(messages)
}

// TasksTable writes tasks as a formatted table to the provided writer.
// Columns: ID (truncated), TITLE, STATUS, PRIO, ASSIGNEE, and AGE.
// Returns the number of tasks formatted.
func TasksTable(w io.Writer, tasks []bridge.Task, agent string) int {
	if len(tasks) == 0 {
		fmt.Fprintf(w, "No tasks for '%s'\n", agent)
		return 0
	}

	fmt.Fprintf(w, "Tasks for '%s':\n\n", agent)

	fmt.Fprintf(w, "%-10s %-30s %-12s %-7s %-12s %s\n",
		"ID", "TITLE", "STATUS", "PRIO", "ASSIGNEE", "AGE")
	fmt.Fprintf(w, "%-10s %-30s %-12s %-7s %-12s %s\n",
		"----------", "------------------------------", "------------", "-------", "------------", "--------")

	for _, task := range tasks {
		fmt.Fprintf(w, "%-10s %-30s %-12s %-7s %-12s %s\n",
			shortID(task.ID),
			truncate(task.Title, 30),
			string(task.Status),
			string(task.Priority),
			truncate(task.AssignedTo, 12),
			age(task.CreatedAt),
		)
	}

	countMsg := "task"
	if len(tasks) != 1 {
		countMsg = "tasks"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(tasks), countMsg)

	return len(tasks)
}

// JSONL writes items as line-delimited JSON (JSONL) to the provided writer.
// Each item is written as a single compact JSON object on its own line.
// This format is ideal for streaming and processing with tools like jq.
func JSONL[T any](w io.Writer, items []T) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n", string(data)); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}

	return nil
}

// SingleJSON writes one value as pretty-printed JSON to the provided
// writer. Used for showing the shared context and single tasks.
func SingleJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	fmt.Fprintln(w)
	return nil
}

// shortID truncates an ID to its first 8 characters for compact display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens a string to max characters, marking the cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// firstLine truncates content to its first non-empty line with a max
// length for table display. Empty content returns "-".
func firstLine(content string, max int) string {
	if content == "" {
		return "-"
	}

	var line string
	for _, l := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(l)
		if trimmed != "" {
			line = trimmed
			break
		}
	}

	if line == "" {
		return "-"
	}
	return truncate(line, max)
}

func formatRead(read bool) string {
	if read {
		return "yes"
	}
	return "no"
}

// age formats a timestamp as relative time like "2m ago" or "1h ago".
func age(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := time.Since(t)

	if diff < time.Minute {
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
}
