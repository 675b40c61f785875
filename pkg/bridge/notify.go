package bridge

import (
	"fmt"
	"strings"
)

// Notification message contents. These are stored messages like any
// other, so the exact wording is part of the observable data model.

func newTaskNotification(task Task) string {
	return fmt.Sprintf("📋 New task: %q (%s)", task.Title, task.Priority)
}

func taskCompletedNotification(task Task, notes string) string {
	content := fmt.Sprintf("✅ Completed: %q", task.Title)
	if notes != "" {
		content += " - " + notes
	}
	return content
}

func presenceNotification(agent, status string, workingOn []string) string {
	content := fmt.Sprintf("🟢 %s online: %s", agent, status)
	if len(workingOn) > 0 {
		content += fmt.Sprintf(" (working on: %s)", strings.Join(workingOn, ", "))
	}
	return content
}
