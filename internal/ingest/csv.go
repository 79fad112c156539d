package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	COLUMN_REVIEW_TEXT = "Review Text"
	COLUMN_RATING      = "Rating"
	COLUMN_DEPARTMENT  = "Department Name"
)

// ReviewRow is one data row of an uploaded CSV. Number is 1-based and does
// not count the header.
type ReviewRow struct {
	Number     int
	ReviewText string
	Rating     string
	Department string
}

// RowReader reads CSV rows by header name. Missing columns and short rows
// produce empty values rather than errors.
type RowReader struct {
	reader  *csv.Reader
	columns map[string]int
	header  []string
	row     int
}

func NewRowReader(r io.Reader) (*RowReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &RowReader{reader: reader, columns: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		header[i] = name
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	return &RowReader{reader: reader, columns: columns, header: header}, nil
}

func (r *RowReader) Header() []string {
	return r.header
}

// Next returns io.EOF after the last row. A *csv.ParseError only affects the
// returned row; reading can continue afterwards.
func (r *RowReader) Next() (ReviewRow, error) {
	record, err := r.reader.Read()
	if errors.Is(err, io.EOF) {
		return ReviewRow{}, err
	}
	r.row++
	if err != nil {
		return ReviewRow{Number: r.row}, err
	}

	return ReviewRow{
		Number:     r.row,
		ReviewText: r.cell(record, COLUMN_REVIEW_TEXT),
		Rating:     r.cell(record, COLUMN_RATING),
		Department: r.cell(record, COLUMN_DEPARTMENT),
	}, nil
}

func (r *RowReader) cell(record []string, column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
