package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"task-tracker/internal/errors"
)

// errEndOfInput ends the menu the same way as choosing Exit.
var errEndOfInput = stderrors.New("end of input")

const menuText = `
Task Management System
[1] Add Task
[2] View Tasks
[3] Update Task
[4] Delete Task
[5] Search Tasks
[6] Exit
`

// MenuCommand runs the interactive numbered menu
type MenuCommand struct {
	app *App
}

// NewMenuCommand creates a new menu command handler
func NewMenuCommand(app *App) *MenuCommand {
	return &MenuCommand{app: app}
}

// Execute runs the menu until the user exits or input ends. Each menu
// action gets its own timeout derived from ctx.
func (c *MenuCommand) Execute(ctx context.Context, args []string) error {
	s := &menuSession{
		app:     c.app,
		ctx:     ctx,
		scanner: bufio.NewScanner(c.app.in),
		out:     c.app.out,
	}
	return s.run()
}

type menuSession struct {
	app     *App
	ctx     context.Context
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *menuSession) run() error {
	for {
		fmt.Fprint(s.out, menuText)
		choice, err := s.prompt("Choose an option: ")
		if err == nil {
			switch choice {
			case "1":
				err = s.add()
			case "2":
				err = s.view()
			case "3":
				err = s.update()
			case "4":
				err = s.delete()
			case "5":
				err = s.search()
			case "6":
				fmt.Fprintln(s.out, "Goodbye!")
				return nil
			default:
				fmt.Fprintln(s.out, "Invalid choice. Please select from the menu.")
			}
		}

		if err == errEndOfInput {
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// prompt prints label and returns the next trimmed input line.
func (s *menuSession) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", errors.NewStorageError("read input", err)
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

func (s *menuSession) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.app.timeout())
}

// report prints an error that the menu recovers from.
func (s *menuSession) report(err error) {
	fmt.Fprintf(s.out, "Error: %s\n", s.app.errorHandler.HandleSimple(err))
}

func (s *menuSession) add() error {
	title, err := s.prompt("Enter task title: ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter task description: ")
	if err != nil {
		return err
	}

	ctx, cancel := s.opContext()
	defer cancel()

	if _, err := s.app.api.AddTask(ctx, title, description); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintln(s.out, "Task added successfully!")
	return nil
}

func (s *menuSession) view() error {
	ctx, cancel := s.opContext()
	defer cancel()

	tasks, err := s.app.api.ViewTasks(ctx)
	if err != nil {
		if s.app.errorHandler.IsEmptyStoreError(err) {
			fmt.Fprintln(s.out, "No tasks available.")
			return nil
		}
		s.report(err)
		return nil
	}
	printTaskTable(s.out, "All Tasks:", tasks, s.app.ruleWidth())
	return nil
}

// listBefore shows the task table ahead of an update or delete. It
// returns false when there is nothing to act on.
func (s *menuSession) listBefore(action string) bool {
	ctx, cancel := s.opContext()
	defer cancel()

	tasks, err := s.app.api.ViewTasks(ctx)
	if err != nil {
		if s.app.errorHandler.IsEmptyStoreError(err) {
			fmt.Fprintf(s.out, "No tasks available to %s.\n", action)
		} else {
			s.report(err)
		}
		return false
	}
	printTaskTable(s.out, "All Tasks:", tasks, s.app.ruleWidth())
	return true
}

// readTaskID prompts for an ID. ok is false when the input was rejected.
func (s *menuSession) readTaskID(label string) (id int64, ok bool, err error) {
	input, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, parseErr := parseTaskID(input)
	if parseErr != nil {
		fmt.Fprintln(s.out, "Invalid input. Please enter a valid task ID.")
		return 0, false, nil
	}
	if id <= 0 {
		fmt.Fprintln(s.out, "Task ID not found.")
		return 0, false, nil
	}
	return id, true, nil
}

func (s *menuSession) update() error {
	if !s.listBefore("update") {
		return nil
	}

	id, ok, err := s.readTaskID("Enter task ID to update: ")
	if err != nil || !ok {
		return err
	}

	lookupCtx, cancel := s.opContext()
	task, err := s.app.api.GetTask(lookupCtx, id)
	cancel()
	if err != nil {
		if s.app.errorHandler.IsNotFoundError(err) {
			fmt.Fprintln(s.out, "Task ID not found.")
		} else {
			s.report(err)
		}
		return nil
	}

	fmt.Fprintf(s.out, "Selected Task: %s (Status: %s)\n", task.Title, task.Status)
	status, err := s.prompt("Enter new status (Pending/Completed): ")
	if err != nil {
		return err
	}

	ctx, cancel := s.opContext()
	defer cancel()

	if _, err := s.app.api.UpdateTaskStatus(ctx, id, status); err != nil {
		switch {
		case s.app.errorHandler.IsValidationError(err):
			fmt.Fprintln(s.out, "Invalid status. Please enter 'Pending' or 'Completed'.")
		case s.app.errorHandler.IsNotFoundError(err):
			fmt.Fprintln(s.out, "Task ID not found.")
		default:
			s.report(err)
		}
		return nil
	}
	fmt.Fprintln(s.out, "Task updated successfully!")
	return nil
}

func (s *menuSession) delete() error {
	if !s.listBefore("delete") {
		return nil
	}

	id, ok, err := s.readTaskID("Enter task ID to delete: ")
	if err != nil || !ok {
		return err
	}

	ctx, cancel := s.opContext()
	defer cancel()

	task, err := s.app.api.DeleteTask(ctx, id)
	if err != nil {
		if s.app.errorHandler.IsNotFoundError(err) {
			fmt.Fprintln(s.out, "Task ID not found.")
		} else {
			s.report(err)
		}
		return nil
	}
	fmt.Fprintf(s.out, "Deleted Task: %s\n", task.Title)
	return nil
}

func (s *menuSession) search() error {
	viewCtx, cancel := s.opContext()
	_, err := s.app.api.ViewTasks(viewCtx)
	cancel()
	if err != nil {
		if s.app.errorHandler.IsEmptyStoreError(err) {
			fmt.Fprintln(s.out, "No tasks available to search.")
		} else {
			s.report(err)
		}
		return nil
	}

	keyword, err := s.prompt("Enter keyword to search for: ")
	if err != nil {
		return err
	}

	ctx, cancel := s.opContext()
	defer cancel()

	results, err := s.app.api.SearchTasks(ctx, keyword)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(results) == 0 {
		fmt.Fprintln(s.out, "No tasks found with the given keyword.")
		return nil
	}
	printTaskTable(s.out, "Search Results:", results, s.app.ruleWidth())
	return nil
}
