package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
)

// APIFactory builds the API once the final configuration is known.
type APIFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (api.API, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory APIFactory
	config  *config.Config
	api     api.API
	app     *App
	logger  *log.Logger
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(factory APIFactory, cfg *config.Config) *RootCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	root := &RootCommand{
		factory: factory,
		config:  cfg,
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}

	root.cmd = &cobra.Command{
		Use:   "tasks",
		Short: "A command-line task tracker",
		Long: `Tasks is a single-user task tracker that keeps its tasks in a flat file.

Run without a command to start the interactive menu.

EXAMPLES:
  tasks                                    # Interactive menu
  tasks add "Write report" "Q3 numbers"    # Add a pending task
  tasks list                               # Show all tasks
  tasks update 1 completed                 # Mark task 1 as completed
  tasks delete 1                           # Delete task 1
  tasks search report                      # Find tasks by title
  tasks export --format csv -o tasks.csv   # Export for other tools

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults

  Config file:
    TASKS_CONFIG                           TOML config file (default: ./tasks.toml if present)

  Storage Configuration:
    TASKS_DIR                              Storage directory (default: .)
    TASKS_FILENAME                         Backing file name (default: tasks.txt)
    TASKS_BACKEND                          flatfile or sqlite (default: flatfile)
    TASKS_FORMAT                           delimited, csv or yaml (default: delimited)
    TASKS_ID_POLICY                        monotonic or sequential (default: monotonic)
    TASKS_SKIP_MALFORMED                   Skip malformed records on load (default: false)
    TASKS_FILE_PERMISSIONS                 Backing file mode, octal (default: 644)
    TASKS_DIR_PERMISSIONS                  Storage directory mode, octal (default: 755)

  Validation and Display:
    TASKS_TITLE_MAX                        Max title length (default: 255)
    TASKS_RULE_WIDTH                       Width of table rules (default: 70)

  Application and Logging:
    TASKS_APP_TIMEOUT                      Per-operation timeout (default: 60s)
    TASKS_LOG_LEVEL                        debug, info, warn or error (default: warn)
    TASKS_LOG_FORMAT                       text, json or logfmt (default: text)
    TASKS_DEBUG                            Print debug traces to stderr`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Apply configuration overrides from flags before any command runs
			return root.getConfigFromFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, "menu", "run menu", nil, false)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetIO replaces the standard streams, mainly for tests
func (r *RootCommand) SetIO(in io.Reader, out, errOut io.Writer) {
	r.in = in
	r.out = out
	r.errOut = errOut
	r.cmd.SetIn(in)
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
}

// SetArgs sets the arguments used instead of os.Args
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Config returns the configuration in effect
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// Execute runs the root command and releases the API afterwards
func (r *RootCommand) Execute() error {
	defer r.close()
	return r.cmd.Execute()
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "TOML config file (overrides TASKS_CONFIG)")

	// Storage configuration
	flags.String("dir", "", "Storage directory (overrides TASKS_DIR)")
	flags.String("filename", "", "Backing file name (overrides TASKS_FILENAME)")
	flags.String("backend", "", "Storage backend: flatfile or sqlite (overrides TASKS_BACKEND)")
	flags.String("storage-format", "", "Flat file format: delimited, csv or yaml (overrides TASKS_FORMAT)")
	flags.String("id-policy", "", "ID policy: monotonic or sequential (overrides TASKS_ID_POLICY)")
	flags.Bool("skip-malformed", false, "Skip malformed records when loading (overrides TASKS_SKIP_MALFORMED)")

	// Validation and display configuration
	flags.Int("title-max-length", 0, "Maximum title length (overrides TASKS_TITLE_MAX)")
	flags.Int("rule-width", 0, "Width of table rules (overrides TASKS_RULE_WIDTH)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Per-operation timeout (overrides TASKS_APP_TIMEOUT)")
	flags.String("log-level", "", "Log level (overrides TASKS_LOG_LEVEL)")
	flags.String("log-format", "", "Log format (overrides TASKS_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	addCmd := &cobra.Command{
		Use:   `add "title" ["description"]`,
		Short: "Add a new pending task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "add", "add task", args, true)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "list", "list tasks", args, true)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id> <status>",
		Short: "Set the status of a task",
		Long: `Set the status of a task to Pending or Completed.

The status is matched case-insensitively.

Examples:
  tasks update 3 completed
  tasks update 3 Pending`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "update", "update task", args, true)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long:  "Delete a task. Remaining tasks keep their IDs. This operation cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "delete", "delete task", args, true)
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search tasks by title",
		Long:  "List the tasks whose title contains the keyword, ignoring case.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "search", "search tasks", args, true)
		},
	}

	var exportFormat, exportOutput string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks in another format",
		Long: `Export all tasks as json, csv, yaml or pdf.

Examples:
  tasks export --format json
  tasks export --format pdf --output tasks.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []string{"format=" + exportFormat}
			if exportOutput != "" {
				opts = append(opts, "output="+exportOutput)
			}
			return r.run(cmd, "export", "export tasks", opts, true)
		},
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format: json, csv, yaml or pdf")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Count tasks by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "summary", "summarise tasks", args, true)
		},
	}

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, "menu", "run menu", args, false)
		},
	}

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		updateCmd,
		deleteCmd,
		searchCmd,
		exportCmd,
		summaryCmd,
		menuCmd,
	)
}

// run executes a registered command. Non-interactive commands run under
// the application timeout; the menu applies it per action instead.
func (r *RootCommand) run(cmd *cobra.Command, name, operation string, args []string, withTimeout bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if withTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.GetTimeout())
		defer cancel()
	}

	app, err := r.getApp(ctx)
	if err != nil {
		return err
	}

	if err := app.registry.Execute(ctx, name, args); err != nil {
		return app.errorHandler.Handle(operation, err)
	}
	return nil
}

// getApp builds the API and App on first use so help output never touches storage
func (r *RootCommand) getApp(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}

	r.logger = logging.New(logging.Options{
		Level:  r.config.Logging.Level,
		Format: r.config.Logging.Format,
		Prefix: "tasks",
		Writer: r.errOut,
	})

	handler := NewErrorHandlerWithLogger(r.logger)
	apiInstance, err := r.factory(ctx, r.config, r.logger)
	if err != nil {
		if handler.IsParseError(err) {
			return nil, fmt.Errorf("task file is corrupt: %s (fix or remove the record, or rerun with --skip-malformed)",
				errors.GetUserMessage(err))
		}
		return nil, handler.Handle("open task store", err)
	}
	r.api = apiInstance
	r.app = NewAppWithConfig(apiInstance, r.config).WithIO(r.in, r.out).WithLogger(r.logger)
	return r.app, nil
}

func (r *RootCommand) close() {
	if r.api == nil {
		return
	}
	if err := r.api.Close(); err != nil && r.logger != nil {
		r.logger.Error("failed to close task store", "err", err)
	}
}

// getConfigFromFlags updates the configuration with values from command-line flags
func (r *RootCommand) getConfigFromFlags(cmd *cobra.Command) error {
	if r.config == nil {
		return fmt.Errorf("configuration not initialized")
	}

	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		cfg, err := config.NewLoader().WithConfigFile(path).Load()
		if err != nil {
			return err
		}
		*r.config = *cfg
	}

	overrides := &config.ConfigOverrides{}
	if flags.Changed("dir") {
		v, _ := flags.GetString("dir")
		overrides.Dir = &v
	}
	if flags.Changed("filename") {
		v, _ := flags.GetString("filename")
		overrides.Filename = &v
	}
	if flags.Changed("backend") {
		v, _ := flags.GetString("backend")
		overrides.Backend = &v
	}
	if flags.Changed("storage-format") {
		v, _ := flags.GetString("storage-format")
		overrides.Format = &v
	}
	if flags.Changed("id-policy") {
		v, _ := flags.GetString("id-policy")
		overrides.IDPolicy = &v
	}
	if flags.Changed("skip-malformed") {
		v, _ := flags.GetBool("skip-malformed")
		overrides.SkipMalformed = &v
	}
	if flags.Changed("title-max-length") {
		v, _ := flags.GetInt("title-max-length")
		overrides.TitleMaxLength = &v
	}
	if flags.Changed("rule-width") {
		v, _ := flags.GetInt("rule-width")
		overrides.RuleWidth = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	if flags.Changed("log-format") {
		v, _ := flags.GetString("log-format")
		overrides.LogFormat = &v
	}

	return overrides.Apply(r.config)
}
