package flatfile

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// YAMLCodec stores the task sequence as a YAML list of mappings.
type YAMLCodec struct{}

// yamlTask is the on-disk shape of a task in the YAML format.
type yamlTask struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Status      string `yaml:"status"`
	Description string `yaml:"description"`
}

// Name implements Codec.
func (YAMLCodec) Name() string { return "yaml" }

// ForbiddenSequences implements Codec.
func (YAMLCodec) ForbiddenSequences() []string { return nil }

// ForbiddenTitleSuffixes implements Codec.
func (YAMLCodec) ForbiddenTitleSuffixes() []string { return nil }

// Encode implements Codec. An empty sequence produces an empty file.
func (YAMLCodec) Encode(w io.Writer, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	records := make([]yamlTask, len(tasks))
	for i, t := range tasks {
		records[i] = yamlTask{
			ID:          t.ID,
			Title:       t.Title,
			Status:      t.Status.String(),
			Description: t.Description,
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

// Decode implements Codec.
func (YAMLCodec) Decode(r io.Reader, source string, onMalformed func(*errors.AppError) error) ([]domain.Task, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.NewParseError(source, 0, err.Error())
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	list := doc.Content[0]
	if list.Kind != yaml.SequenceNode {
		return nil, errors.NewParseError(source, list.Line, "expected a list of tasks")
	}

	var tasks []domain.Task
	for _, item := range list.Content {
		var record yamlTask
		reason := ""
		if err := item.Decode(&record); err != nil {
			reason = err.Error()
		}
		var task domain.Task
		if reason == "" {
			task, reason = taskFromFields([]string{
				fmt.Sprint(record.ID), record.Title, record.Status, record.Description,
			})
		}
		if reason != "" {
			if err := onMalformed(errors.NewParseError(source, item.Line, reason)); err != nil {
				return nil, err
			}
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
