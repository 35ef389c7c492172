package cli

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
)

// App represents the main CLI application
type App struct {
	api          api.API
	config       *config.Config
	in           io.Reader
	out          io.Writer
	log          *log.Logger
	errorHandler *ErrorHandler
	registry     *CommandRegistry
}

// NewApp creates a new CLI application instance with default configuration
func NewApp(api api.API) *App {
	return NewAppWithConfig(api, config.NewConfig())
}

// NewAppWithConfig creates a new CLI application instance with dependency injection
func NewAppWithConfig(api api.API, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		api:          api,
		config:       cfg,
		in:           os.Stdin,
		out:          os.Stdout,
		log:          logging.Discard(),
		errorHandler: NewErrorHandler(),
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// WithIO replaces the streams used for prompts and output
func (a *App) WithIO(in io.Reader, out io.Writer) *App {
	a.in = in
	a.out = out
	return a
}

// WithLogger sets the logger used for system errors
func (a *App) WithLogger(logger *log.Logger) *App {
	if logger != nil {
		a.log = logger
		a.errorHandler = NewErrorHandlerWithLogger(logger)
	}
	return a
}

// Run executes the CLI application with the given arguments. With no
// arguments the interactive menu is started.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.registry.Execute(ctx, "menu", nil)
	}
	return a.registry.Execute(ctx, args[0], args[1:])
}

// ruleWidth returns the width of the separator printed around task tables
func (a *App) ruleWidth() int {
	if a.config.Display.RuleWidth > 0 {
		return a.config.Display.RuleWidth
	}
	return 70
}

// timeout returns the configured per-operation timeout
func (a *App) timeout() time.Duration {
	if d := a.config.GetTimeout(); d > 0 {
		return d
	}
	return 60 * time.Second
}

// parseTaskID parses a task ID typed by the user
func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("task_id", s, "must be a whole number")
	}
	return id, nil
}
