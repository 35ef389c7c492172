// Package export renders the task list in formats meant for other tools.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatPDF  = "pdf"
)

// CSVHeader is the first row of a csv export.
var CSVHeader = []string{"ID", "Title", "Status", "Description"}

// TaskSource supplies the tasks to export.
type TaskSource interface {
	Tasks() []domain.Task
}

type record struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Status      string `json:"status" yaml:"status"`
	Description string `json:"description" yaml:"description"`
}

// Exporter writes the tasks of a TaskSource in one of the supported formats.
type Exporter struct {
	source TaskSource
	title  string
}

// NewExporter creates an exporter reading from source.
func NewExporter(source TaskSource) *Exporter {
	return &Exporter{source: source, title: "Task Report"}
}

// Formats lists the supported format names.
func Formats() []string {
	formats := []string{FormatJSON, FormatCSV, FormatYAML, FormatPDF}
	sort.Strings(formats)
	return formats
}

// Export writes every task to w in the named format.
func (e *Exporter) Export(ctx context.Context, format string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("export tasks", err)
	}

	tasks := e.source.Tasks()
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{ID: t.ID, Title: t.Title, Status: t.Status.String(), Description: t.Description}
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		err = writeJSON(w, records)
	case FormatCSV:
		err = writeCSV(w, records)
	case FormatYAML:
		err = writeYAML(w, records)
	case FormatPDF:
		err = e.writePDF(w, records)
	default:
		return errors.NewInvalidInputError("format", format, "must be one of "+strings.Join(Formats(), ", "))
	}
	if err != nil {
		return errors.NewStorageError("export "+format, err)
	}
	return nil
}

func writeJSON(w io.Writer, records []record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeCSV(w io.Writer, records []record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{strconv.FormatInt(r.ID, 10), r.Title, r.Status, r.Description}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeYAML(w io.Writer, records []record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

func (e *Exporter) writePDF(w io.Writer, records []record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(e.title, true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, e.title)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(records) == 0 {
		pdf.MultiCell(0, 6, "No tasks available.", "0", "L", false)
	}
	for _, r := range records {
		line := fmt.Sprintf("#%d [%s] %s", r.ID, r.Status, r.Title)
		if r.Description != "" {
			line += " - " + r.Description
		}
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	return pdf.Output(w)
}
