package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/bridge/internal/format"
	"github.com/dyluth/bridge/internal/printer"
	"github.com/dyluth/bridge/internal/resolver"
	"github.com/dyluth/bridge/pkg/bridge"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create, list and update tasks",
}

var (
	taskCreateTitle       string
	taskCreateDescription string
	taskCreateAssignedTo  string
	taskCreateCreatedBy   string
	taskCreatePriority    string
)

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task for another agent",
	Long: `Creates a task and notifies the assignee with a message.

Example:
  bridge task create --title "Fix header alignment" \
    --description "The sticky header drifts 2px on scroll" \
    --assigned-to cascade --created-by codex --priority high`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if taskCreatePriority != "" {
			if err := bridge.TaskPriority(taskCreatePriority).Validate(); err != nil {
				return printer.Error("Invalid priority",
					err.Error(),
					[]string{"Use one of: low, medium, high, urgent"})
			}
		}

		res, err := newClient().CreateTask(cmd.Context(), bridge.CreateTaskRequest{
			Title:       taskCreateTitle,
			Description: taskCreateDescription,
			AssignedTo:  taskCreateAssignedTo,
			CreatedBy:   taskCreateCreatedBy,
			Priority:    bridge.TaskPriority(taskCreatePriority),
		})
		if err != nil {
			return printer.Error("Failed to create task",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}

		printer.Success("Task created (%s)\n", res.TaskID[:8])
		return nil
	},
}

var (
	taskListFilter string
	taskListStatus string
	taskListJSONL  bool
)

var taskListCmd = &cobra.Command{
	Use:   "list <agent>",
	Short: "List tasks for an agent",
	Long: `Lists tasks for an agent. By default shows tasks assigned to the
agent; use --filter created for tasks it handed off, or --filter all
for everything. --status narrows to one lifecycle state.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent := args[0]

		res, err := newClient().GetTasks(cmd.Context(), bridge.GetTasksRequest{
			Agent:  agent,
			Filter: bridge.TaskFilter(taskListFilter),
			Status: taskListStatus,
		})
		if err != nil {
			return printer.Error("Failed to fetch tasks",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}

		if taskListJSONL {
			return format.JSONL(os.Stdout, res.Tasks)
		}
		format.TasksTable(os.Stdout, res.Tasks, agent)
		return nil
	},
}

var (
	taskUpdateStatus string
	taskUpdateNotes  string
)

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update a task's status",
	Long: `Updates a task's status. The task ID can be a unique prefix of at
least 6 characters. Completing a task notifies its creator; --notes are
included in that notification.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if taskUpdateStatus != "" {
			if err := bridge.TaskStatus(taskUpdateStatus).Validate(); err != nil {
				return printer.Error("Invalid status",
					err.Error(),
					[]string{"Use one of: pending, in_progress, completed, blocked"})
			}
		}

		c := newClient()

		tasks, err := c.TasksSnapshot(cmd.Context())
		if err != nil {
			return printer.Error("Failed to fetch tasks",
				err.Error(),
				[]string{"Check that the bridge server is running (bridge serve)"})
		}
		candidates := make([]string, len(tasks))
		for i, task := range tasks {
			candidates[i] = task.ID
		}

		taskID, err := resolver.Resolve(args[0], candidates)
		if err != nil {
			if ambiguous, ok := err.(*resolver.AmbiguousError); ok {
				printer.Println(resolver.FormatAmbiguousError(ambiguous))
			}
			return printer.Error("Could not resolve task ID", err.Error(), nil)
		}

		res, err := c.UpdateTask(cmd.Context(), bridge.UpdateTaskRequest{
			TaskID: taskID,
			Status: bridge.TaskStatus(taskUpdateStatus),
			Notes:  taskUpdateNotes,
		})
		if err != nil {
			return printer.Error("Failed to update task", err.Error(), nil)
		}

		printer.Success("Task %s is now %s\n", res.Task.ID[:8], res.Task.Status)
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().StringVar(&taskCreateTitle, "title", "", "task title (required)")
	taskCreateCmd.Flags().StringVar(&taskCreateDescription, "description", "", "task description (required)")
	taskCreateCmd.Flags().StringVar(&taskCreateAssignedTo, "assigned-to", "", "agent to do the work (required)")
	taskCreateCmd.Flags().StringVar(&taskCreateCreatedBy, "created-by", "", "agent handing the task off (required)")
	taskCreateCmd.Flags().StringVar(&taskCreatePriority, "priority", "", "low, medium, high or urgent (default medium)")
	_ = taskCreateCmd.MarkFlagRequired("title")
	_ = taskCreateCmd.MarkFlagRequired("description")
	_ = taskCreateCmd.MarkFlagRequired("assigned-to")
	_ = taskCreateCmd.MarkFlagRequired("created-by")

	taskListCmd.Flags().StringVar(&taskListFilter, "filter", "", "assigned, created or all (default assigned)")
	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "pending, in_progress, completed or blocked (default all)")
	taskListCmd.Flags().BoolVar(&taskListJSONL, "jsonl", false, "output as line-delimited JSON")

	taskUpdateCmd.Flags().StringVar(&taskUpdateStatus, "status", "", "new status: pending, in_progress, completed or blocked")
	taskUpdateCmd.Flags().StringVar(&taskUpdateNotes, "notes", "", "notes for the completion notification")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	rootCmd.AddCommand(taskCmd)
}
