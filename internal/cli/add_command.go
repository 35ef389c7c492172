package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/errors"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute runs the add command. The first argument is the title; any
// remaining arguments form the description.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "add", `usage: tasks add "title" ["description"]`)
	}

	title := args[0]
	description := strings.TrimSpace(strings.Join(args[1:], " "))

	task, err := c.app.api.AddTask(ctx, title, description)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.app.out, "Task added successfully! (ID: %d)\n", task.ID)
	return nil
}
