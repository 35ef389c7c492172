package cli

import (
	"context"
	"fmt"
	"strings"

	"task-tracker/internal/errors"
)

// SearchCommand handles the search command
type SearchCommand struct {
	app *App
}

// NewSearchCommand creates a new search command handler
func NewSearchCommand(app *App) *SearchCommand {
	return &SearchCommand{app: app}
}

// Execute runs the search command. All arguments are joined into one keyword.
func (c *SearchCommand) Execute(ctx context.Context, args []string) error {
	keyword := strings.TrimSpace(strings.Join(args, " "))
	if keyword == "" {
		return errors.NewInvalidInputError("command", "search", "usage: tasks search <keyword>")
	}

	results, err := c.app.api.SearchTasks(ctx, keyword)
	if err != nil {
		if c.app.errorHandler.IsEmptyStoreError(err) {
			fmt.Fprintln(c.app.out, "No tasks available to search.")
			return nil
		}
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found with the given keyword.")
		return nil
	}

	printTaskTable(c.app.out, "Search Results:", results, c.app.ruleWidth())
	return nil
}
