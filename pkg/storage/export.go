package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"docketlabeler/pkg/models"
)

// ExportHeader is the header row of an unlabeled export
var ExportHeader = []string{"Docket Entry ID", "Document ID", "Description"}

// ExportWriter writes unlabeled records, one per row
type ExportWriter struct {
	file   *os.File
	writer *csv.Writer
	count  int
	closed bool
}

// CreateExport truncates path and writes the export header
func CreateExport(path string) (*ExportWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}

	w := &ExportWriter{file: file, writer: csv.NewWriter(file)}
	if err := w.writer.Write(ExportHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	return w, nil
}

// Write adds one record
func (w *ExportWriter) Write(record models.Record) error {
	docID := ""
	if record.ChildID != nil {
		docID = strconv.FormatInt(*record.ChildID, 10)
	}
	if err := w.writer.Write([]string{strconv.FormatInt(record.EntryID, 10), docID, record.Text}); err != nil {
		return fmt.Errorf("failed to write export row: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records written
func (w *ExportWriter) Count() int {
	return w.count
}

// Close flushes and closes the export. Calls after the first are no-ops.
func (w *ExportWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
