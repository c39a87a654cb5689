// Package tabular parses columnar CSV measurement exports into numeric
// arrays keyed by header name.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingColumn reports a requested header that was not found.
var ErrMissingColumn = errors.New("tabular: missing column")

// ReadColumns reads a CSV stream with a header row and returns the numeric
// values of the requested columns, in request order. Header matching is
// case-insensitive and ignores surrounding whitespace. Extra columns are
// skipped; a missing requested column is an error.
func ReadColumns(r io.Reader, names ...string) ([][]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("tabular: reading header: %w", err)
	}

	indices := make([]int, len(names))
	for i, name := range names {
		indices[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				indices[i] = j
				break
			}
		}

		if indices[i] < 0 {
			return nil, fmt.Errorf("%w: %q (header: %v)", ErrMissingColumn, name, header)
		}
	}

	cols := make([][]float64, len(names))

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("tabular: line %d: %w", line, err)
		}

		for i, idx := range indices {
			if idx >= len(record) {
				return nil, fmt.Errorf("tabular: line %d: too few fields", line)
			}

			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("tabular: line %d, column %q: %w", line, names[i], err)
			}

			cols[i] = append(cols[i], v)
		}
	}

	return cols, nil
}
