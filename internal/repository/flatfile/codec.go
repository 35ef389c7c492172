package flatfile

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// Codec serializes the task sequence to and from the backing file.
type Codec interface {
	// Name identifies the codec in configuration.
	Name() string
	// Encode writes tasks in sequence order.
	Encode(w io.Writer, tasks []domain.Task) error
	// Decode reads tasks in file order. Malformed records are reported to
	// onMalformed; if it returns nil the record is skipped, otherwise
	// decoding stops with that error.
	Decode(r io.Reader, source string, onMalformed func(*errors.AppError) error) ([]domain.Task, error)
	// ForbiddenSequences lists substrings the codec cannot represent.
	ForbiddenSequences() []string
	// ForbiddenTitleSuffixes lists title endings the codec cannot represent.
	ForbiddenTitleSuffixes() []string
}

var codecs = map[string]Codec{}

func register(c Codec) {
	codecs[c.Name()] = c
}

func init() {
	register(DelimitedCodec{})
	register(CSVCodec{})
	register(YAMLCodec{})
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	codec, ok := codecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.NewInvalidInputError("format", name, "unknown storage format, expected one of "+strings.Join(CodecNames(), ", "))
	}
	return codec, nil
}

// CodecNames lists the registered codec names in sorted order.
func CodecNames() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// recordFields converts a task into its four positional fields.
func recordFields(t domain.Task) []string {
	return []string{strconv.FormatInt(t.ID, 10), t.Title, t.Status.String(), t.Description}
}

// taskFromFields builds a task from positional fields, returning a reason on failure.
func taskFromFields(fields []string) (domain.Task, string) {
	if len(fields) != fieldCount {
		return domain.Task{}, fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return domain.Task{}, fmt.Sprintf("invalid id %q", fields[0])
	}
	if id <= 0 {
		return domain.Task{}, fmt.Sprintf("id must be positive, got %d", id)
	}
	status, err := domain.ParseStatus(fields[2])
	if err != nil {
		return domain.Task{}, fmt.Sprintf("invalid status %q", fields[2])
	}
	return domain.Task{
		ID:          id,
		Title:       fields[1],
		Status:      status,
		Description: fields[3],
	}, ""
}

const fieldCount = 4
