package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// tableRowFormat lays out one task per line
const tableRowFormat = "%-5s %-20s %-10s %-30s\n"

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errors.NewInvalidInputError("command", "list", "usage: tasks list")
	}

	tasks, err := c.app.api.ViewTasks(ctx)
	if err != nil {
		if c.app.errorHandler.IsEmptyStoreError(err) {
			fmt.Fprintln(c.app.out, "No tasks available.")
			return nil
		}
		return err
	}

	printTaskTable(c.app.out, "All Tasks:", tasks, c.app.ruleWidth())
	return nil
}

// printTaskTable prints a heading, a column header and one row per task
// between two horizontal rules.
func printTaskTable(w io.Writer, heading string, tasks []*domain.Task, ruleWidth int) {
	rule := strings.Repeat("-", ruleWidth)

	if heading != "" {
		fmt.Fprintf(w, "\n%s\n", heading)
	}
	fmt.Fprintf(w, tableRowFormat, "ID", "Title", "Status", "Description")
	fmt.Fprintln(w, rule)
	for _, t := range tasks {
		fmt.Fprintf(w, tableRowFormat, strconv.FormatInt(t.ID, 10), t.Title, t.Status.String(), t.Description)
	}
	fmt.Fprintln(w, rule)
}
