package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/models"
)

// OutputHeader is the header row of the labeled output file
var OutputHeader = []string{"Description", "Label", "Docket Entry ID", "Document ID"}

// ErrMalformedRow is returned when an existing output file cannot be replayed
var ErrMalformedRow = errors.New("malformed output row")

// OutputStore is the append-only CSV of labeling decisions
type OutputStore struct {
	path     string
	file     *os.File
	writer   *csv.Writer
	existing []models.Record
	logger   logger.Logger
}

// OpenOutputStore reads every row already in path and opens it for appending.
// A missing or empty file is created with the header row.
func OpenOutputStore(path string, log logger.Logger) (*OutputStore, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	existing, err := ReadOutput(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	store := &OutputStore{
		path:     path,
		file:     file,
		writer:   csv.NewWriter(file),
		existing: existing,
		logger:   log.WithField("component", "output"),
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat output file: %w", err)
	}
	if info.Size() == 0 {
		if err := store.writeRow(OutputHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write output header: %w", err)
		}
	}

	store.logger.InfoWithFields("Output store opened", map[string]interface{}{
		"path": path,
		"rows": len(existing),
	})

	return store, nil
}

// Existing returns the rows that were present when the store was opened
func (s *OutputStore) Existing() []models.Record {
	return s.existing
}

// Path returns the file backing the store
func (s *OutputStore) Path() string {
	return s.path
}

// Append writes one labeled record and syncs it to disk before returning
func (s *OutputStore) Append(record models.Record) error {
	if record.Label == nil {
		return fmt.Errorf("record %d has no label", record.EntryID)
	}

	if err := s.writeRow(formatRow(record)); err != nil {
		return fmt.Errorf("failed to append output row: %w", err)
	}

	s.logger.DebugWithFields("Row appended", map[string]interface{}{
		"entry_id": record.EntryID,
		"child_id": record.ChildID,
		"label":    *record.Label,
	})
	return nil
}

func (s *OutputStore) writeRow(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close flushes and closes the underlying file
func (s *OutputStore) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.file.Sync(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// ReadOutput parses a labeled output file. A missing or empty file yields no
// rows. Any row that cannot be parsed is reported as ErrMalformedRow.
func ReadOutput(path string) ([]models.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(OutputHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s header: %v", ErrMalformedRow, path, err)
	}
	if !equalRow(header, OutputHeader) {
		return nil, fmt.Errorf("%w: %s has header %q, want %q", ErrMalformedRow, path, header, OutputHeader)
	}

	var records []models.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRow, path, err)
		}
		line, _ := reader.FieldPos(0)

		record, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRow, path, line, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRow(row []string) (models.Record, error) {
	description, label, entryField, docField := row[0], row[1], row[2], row[3]

	entryID, err := strconv.ParseInt(strings.TrimSpace(entryField), 10, 64)
	if err != nil {
		return models.Record{}, fmt.Errorf("docket entry id %q is not an integer", entryField)
	}

	var childID *int64
	if strings.TrimSpace(docField) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(docField), 10, 64)
		if err != nil {
			return models.Record{}, fmt.Errorf("document id %q is not an integer", docField)
		}
		childID = &id
	}

	if label == "" {
		return models.Record{}, fmt.Errorf("entry %d has an empty label", entryID)
	}

	return models.Record{
		EntryID: entryID,
		ChildID: childID,
		Text:    description,
	}.WithLabel(label), nil
}

func formatRow(record models.Record) []string {
	docID := ""
	if record.ChildID != nil {
		docID = strconv.FormatInt(*record.ChildID, 10)
	}
	return []string{
		record.Text,
		record.LabelValue(),
		strconv.FormatInt(record.EntryID, 10),
		docID,
	}
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		// tolerate a UTF-8 BOM written by spreadsheet tools
		if strings.TrimPrefix(a[i], "\ufeff") != b[i] {
			return false
		}
	}
	return true
}
