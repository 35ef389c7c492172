package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"task-tracker/internal/errors"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app *App
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute runs the export command. Arguments are key=value options:
// format=<json|csv|yaml|pdf> (required) and output=<file> (default stdout).
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	format, output, err := parseExportOptions(args)
	if err != nil {
		return err
	}

	if output == "" {
		return c.app.api.Export(ctx, format, c.app.out)
	}

	file, err := os.Create(output)
	if err != nil {
		if os.IsPermission(err) {
			return errors.NewPermissionError("create", output, err)
		}
		return errors.NewStorageError("create "+output, err)
	}

	if err := c.app.api.Export(ctx, format, file); err != nil {
		file.Close()
		os.Remove(output)
		return err
	}
	if err := file.Close(); err != nil {
		return errors.NewStorageError("close "+output, err)
	}

	fmt.Fprintf(c.app.out, "Exported tasks to %s\n", output)
	return nil
}

func parseExportOptions(args []string) (format, output string, err error) {
	if len(args) == 0 {
		return "", "", errors.NewInvalidInputError("command", "export", "usage: tasks export format=<json|csv|yaml|pdf> [output=<file>]")
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return "", "", errors.NewInvalidInputError("option", arg, "invalid export option, expected key=value")
		}
		switch key {
		case "format":
			format = value
		case "output":
			output = value
		default:
			return "", "", errors.NewInvalidInputError("option", key, "unknown export option")
		}
	}

	if format == "" {
		return "", "", errors.NewInvalidInputError("format", "", "format is required")
	}
	return format, output, nil
}
