package cli

import (
	"context"
	"fmt"

	"task-tracker/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute runs the delete command: delete <id>
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete", "usage: tasks delete <id>")
	}

	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	task, err := c.app.api.DeleteTask(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Deleted Task: %s\n", task.Title)
	return nil
}
