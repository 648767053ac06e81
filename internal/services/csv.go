package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var ErrMalformedCSV = errors.New("malformed CSV")

// ReadFeatureCSV reads a CSV whose first row is a header and every other row
// holds exactly want finite numeric feature columns.
func ReadFeatureCSV(r io.Reader, want int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(header) != want {
		return nil, fmt.Errorf("%w: expected %d columns, header has %d", ErrMalformedCSV, want, len(header))
	}

	var rows [][]float64
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if len(record) != want {
			return nil, fmt.Errorf("%w: line %d has %d columns, expected %d", ErrMalformedCSV, line, len(record), want)
		}

		row := make([]float64, want)
		for i, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d column %q is not a number", ErrMalformedCSV, line, header[i])
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
