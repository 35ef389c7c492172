package flatfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// Delimiter separates fields in the delimited format.
const Delimiter = "||"

// maxLineSize bounds a single record in the delimited format.
const maxLineSize = 1 << 20

// DelimitedCodec is the line format id||title||status||description.
// It has no escaping: fields must not contain the delimiter or line breaks,
// and the title must not end with a pipe, since "a|" followed by "||" reads
// back as "a" and "|Pending".
type DelimitedCodec struct{}

// Name implements Codec.
func (DelimitedCodec) Name() string { return "delimited" }

// ForbiddenSequences implements Codec.
func (DelimitedCodec) ForbiddenSequences() []string {
	return []string{Delimiter, "\n", "\r"}
}

// ForbiddenTitleSuffixes implements Codec.
func (DelimitedCodec) ForbiddenTitleSuffixes() []string {
	return []string{"|"}
}

// Encode implements Codec. A task whose line would not decode back to the
// same task is refused, so a save never writes a file Load rejects.
func (DelimitedCodec) Encode(w io.Writer, tasks []domain.Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		line := strings.Join(recordFields(t), Delimiter)
		if err := checkLine(line, t); err != nil {
			return err
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func checkLine(line string, t domain.Task) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("task %d: line break cannot be stored in delimited format", t.ID)
	}
	decoded, reason := taskFromFields(strings.Split(line, Delimiter))
	if reason != "" {
		return fmt.Errorf("task %d: would not read back: %s", t.ID, reason)
	}
	if decoded != t {
		return fmt.Errorf("task %d: would read back as %q / %q", t.ID, decoded.Title, decoded.Description)
	}
	return nil
}

// Decode implements Codec.
func (DelimitedCodec) Decode(r io.Reader, source string, onMalformed func(*errors.AppError) error) ([]domain.Task, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var tasks []domain.Task
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		task, reason := taskFromFields(strings.Split(line, Delimiter))
		if reason != "" {
			if err := onMalformed(errors.NewParseError(source, lineNo, reason)); err != nil {
				return nil, err
			}
			continue
		}
		tasks = append(tasks, task)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewStorageError("read "+source, err)
	}
	return tasks, nil
}
