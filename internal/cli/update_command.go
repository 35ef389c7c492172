package cli

import (
	"context"
	"fmt"

	"task-tracker/internal/errors"
)

// UpdateCommand handles the update command
type UpdateCommand struct {
	app *App
}

// NewUpdateCommand creates a new update command handler
func NewUpdateCommand(app *App) *UpdateCommand {
	return &UpdateCommand{app: app}
}

// Execute runs the update command: update <id> <status>
func (c *UpdateCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "update", "usage: tasks update <id> <Pending|Completed>")
	}

	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	task, err := c.app.api.UpdateTaskStatus(ctx, id, args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Task updated successfully! (%s: %s)\n", task.Title, task.Status)
	return nil
}
