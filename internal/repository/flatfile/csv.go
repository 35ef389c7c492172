package flatfile

import (
	"encoding/csv"
	"io"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// CSVCodec stores one RFC 4180 record per task. Quoting lets titles and
// descriptions carry commas, quotes, the legacy delimiter and newlines.
type CSVCodec struct{}

// Name implements Codec.
func (CSVCodec) Name() string { return "csv" }

// ForbiddenSequences implements Codec.
func (CSVCodec) ForbiddenSequences() []string { return nil }

// ForbiddenTitleSuffixes implements Codec.
func (CSVCodec) ForbiddenTitleSuffixes() []string { return nil }

// Encode implements Codec.
func (CSVCodec) Encode(w io.Writer, tasks []domain.Task) error {
	writer := csv.NewWriter(w)
	for _, t := range tasks {
		if err := writer.Write(recordFields(t)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Decode implements Codec.
func (CSVCodec) Decode(r io.Reader, source string, onMalformed func(*errors.AppError) error) ([]domain.Task, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var tasks []domain.Task
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Quoting errors leave the reader in an unknown position; stop here.
			parseErr := errors.NewParseError(source, lineOf(err), err.Error())
			if cbErr := onMalformed(parseErr); cbErr != nil {
				return nil, cbErr
			}
			break
		}
		line, _ := reader.FieldPos(0)
		task, reason := taskFromFields(record)
		if reason != "" {
			if err := onMalformed(errors.NewParseError(source, line, reason)); err != nil {
				return nil, err
			}
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func lineOf(err error) int {
	if pe, ok := err.(*csv.ParseError); ok {
		return pe.StartLine
	}
	return 0
}
