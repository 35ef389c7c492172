package cli

import (
	"context"
	"sort"

	"task-tracker/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	// Register all commands
	registry.Register("add", NewAddCommand(app))
	registry.Register("list", NewListCommand(app))
	registry.Register("update", NewUpdateCommand(app))
	registry.Register("delete", NewDeleteCommand(app))
	registry.Register("search", NewSearchCommand(app))
	registry.Register("export", NewExportCommand(app))
	registry.Register("summary", NewSummaryCommand(app))
	registry.Register("menu", NewMenuCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Get returns the named command
func (r *CommandRegistry) Get(name string) (Command, bool) {
	command, ok := r.commands[name]
	return command, ok
}

// Names returns the registered command names in sorted order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	return `usage: tasks add "title" ["description"] or tasks list or tasks update <id> <status> or tasks delete <id> or tasks search <keyword> or tasks export format=<json|csv|yaml|pdf> [output=<file>] or tasks summary or tasks menu`
}
