// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrLoad wraps every failure that happens while decoding a CSV source.
	ErrLoad = errors.New("dataset load")
	// ErrWrite wraps every failure that happens while persisting a dataset.
	ErrWrite = errors.New("dataset write")
	// ErrInvalidHeader is returned when the header row has an empty or a duplicated column name.
	ErrInvalidHeader = errors.New("invalid header")
)

// Dataset is an in memory table of rows and named columns.
type Dataset struct {
	frame dataframe.DataFrame
}

// Load reads a CSV document with a header row from r. Column names must be non empty and
// unique, so that the header is written back exactly as it was read.
func Load(r io.Reader) (*Dataset, error) {
	raw := dataframe.ReadCSV(r,
		dataframe.HasHeader(false),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if raw.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, raw.Err)
	}

	// the first record holds the generated names, the second one the header row
	records := raw.Records()[1:]
	if err := validateHeader(records[0]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	frame := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if frame.Err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, frame.Err)
	}

	return &Dataset{frame: frame}, nil
}

func validateHeader(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for index, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty name for column %d", ErrInvalidHeader, index+1)
		}

		if _, found := seen[name]; found {
			return fmt.Errorf("%w: duplicated column %q", ErrInvalidHeader, name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// LoadFile reads the CSV file found at path.
func LoadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer file.Close()

	return Load(file)
}

// Rows returns the number of data rows, the header excluded.
func (d *Dataset) Rows() int {
	return d.frame.Nrow()
}

// Columns returns the number of columns.
func (d *Dataset) Columns() int {
	return d.frame.Ncol()
}

// Names returns the column names in their original order.
func (d *Dataset) Names() []string {
	return d.frame.Names()
}

// Records returns the data rows as text, the header excluded.
func (d *Dataset) Records() [][]string {
	records := d.frame.Records()
	if len(records) == 0 {
		return nil
	}
	return records[1:]
}

// Subset returns a new Dataset containing the rows at indexes, in the given order.
func (d *Dataset) Subset(indexes []int) (*Dataset, error) {
	frame := d.frame.Subset(indexes)
	if frame.Err != nil {
		return nil, frame.Err
	}

	return &Dataset{frame: frame}, nil
}

// Write encodes the dataset as CSV with a header row and without any row index column.
func (d *Dataset) Write(w io.Writer) error {
	if err := d.frame.WriteCSV(w, dataframe.WriteHeader(true)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

// WriteFile writes the dataset to path, replacing any existing file.
func (d *Dataset) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if err := d.Write(file); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}
