package gtfs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// csvTable streams one GTFS table. Columns are resolved by header name so
// tables may carry extra fields in any order.
type csvTable struct {
	name string
	file *os.File
	r    *csv.Reader
	cols map[string]int
}

// openTable opens dir/name and consumes its header row. The caller must
// Close the table.
func openTable(dir, name string) (*csvTable, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	head, err := r.Read()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: reading header: %w", name, err)
	}
	cols := make(map[string]int, len(head))
	for i, h := range head {
		// Exports written on Windows often carry a BOM on the first header.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		cols[h] = i
	}
	return &csvTable{name: name, file: f, r: r, cols: cols}, nil
}

func (t *csvTable) Close() error {
	return t.file.Close()
}

// field returns the named column of row, or "" when the table lacks it.
func (t *csvTable) field(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// each invokes fn for every data row. Rows the CSV reader cannot parse
// (ragged field counts, stray quotes) are skipped rather than aborting the
// whole table; the count of skipped rows is returned.
func (t *csvTable) each(fn func(row []string)) (skipped int, err error) {
	for {
		row, err := t.r.Read()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return skipped, fmt.Errorf("%s: %w", t.name, err)
		}
		fn(row)
	}
}
