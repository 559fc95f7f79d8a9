// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format (use .csv or .xlsx)")
	ErrNoHeader          = errors.New("file has no header row")
)

// Accepted header names per column, compared case-insensitively
var (
	HouseholdCodeColumns = []string{"戶號", "household", "household_code", "code"}
	ShareColumns         = []string{"區分比例", "share", "ownership_share"}
	TopicTextColumns     = []string{"議題", "topic", "text"}
)

// Table is an uploaded sheet: a header row and the data rows below it.
// Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column finds the first header matching any alias
func (t Table) Column(aliases ...string) (int, bool) {
	for i, h := range t.Header {
		name := strings.TrimSpace(h)
		for _, a := range aliases {
			if strings.EqualFold(name, a) {
				return i, true
			}
		}
	}
	return -1, false
}

// Cell returns the trimmed value at col, or "" past the end of a short row
func (t Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Parse picks the reader by file extension
func Parse(filename string, r io.Reader) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return Table{}, ErrUnsupportedFormat
	}
}

func ParseCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return newTable(records)
}

// ParseXLSX reads the first worksheet
func ParseXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrNoHeader
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return newTable(records)
}

func newTable(records [][]string) (Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return Table{}, ErrNoHeader
	}

	header := records[0]
	// Excel-exported CSVs start with a UTF-8 BOM
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	return Table{Header: header, Rows: records[1:]}, nil
}

// ParseShare accepts a fraction ("0.0125") or a percentage ("1.25%")
func ParseShare(s string) (float64, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid share %q", s)
	}
	if percent {
		v /= 100
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("share must be a finite number, got %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("share must not be negative, got %v", v)
	}
	return v, nil
}
