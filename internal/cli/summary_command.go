package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/errors"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app *App
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app}
}

// Execute runs the summary command
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errors.NewInvalidInputError("command", "summary", "usage: tasks summary")
	}

	summary, err := c.app.api.Summary(ctx)
	if err != nil {
		return err
	}

	rule := strings.Repeat("-", c.app.ruleWidth())
	fmt.Fprintln(c.app.out, "Task Summary")
	fmt.Fprintln(c.app.out, rule)
	fmt.Fprintf(c.app.out, "%-12s %d\n", "Total:", summary.Total)
	fmt.Fprintf(c.app.out, "%-12s %d\n", "Pending:", summary.Pending)
	fmt.Fprintf(c.app.out, "%-12s %d\n", "Completed:", summary.Completed)
	fmt.Fprintln(c.app.out, rule)
	return nil
}
