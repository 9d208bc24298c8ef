package transform

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var rowsCounter metric.Int64Counter

func init() {
	var err error
	rowsCounter, err = newRowsCounter(otel.Meter("bgg.transform"))
	if err != nil {
		panic(err)
	}
}

func newRowsCounter(meter metric.Meter) (metric.Int64Counter, error) {
	return meter.Int64Counter(
		"bgg.transform.rows",
		metric.WithDescription("rows written per output table"),
	)
}

// WriteTable writes a table to `<dir>/<name>.csv`, creating dir if it does not exist.
func WriteTable(ctx context.Context, dir string, table *Table) error {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}

	path := filepath.Join(dir, table.ID.Spec().FileName())
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	err = EncodeTable(f, table)
	closeErr := f.Close()
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if closeErr != nil {
		return &IOError{Op: "close", Path: path, Err: closeErr}
	}

	rowsCounter.Add(ctx, int64(len(table.Rows)), metric.WithAttributes(
		attribute.String("table", table.ID.String()),
	))
	return nil
}

// WriteTables writes every table, stopping at the first failure.
func WriteTables(ctx context.Context, dir string, tables []*Table) error {
	for _, t := range tables {
		err := WriteTable(ctx, dir, t)
		if err != nil {
			return err
		}
	}
	return nil
}

// EncodeTable writes the header and rows of a table as csv.
func EncodeTable(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	err := cw.Write(table.ID.Spec().Columns)
	if err != nil {
		return err
	}
	for _, row := range table.Rows {
		err = cw.Write(row)
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeTable reads csv written by EncodeTable, the header has to match the table's columns.
func DecodeTable(r io.Reader, id TableID) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(id.Spec().Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", id, err)
	}
	if !slices.Equal(header, id.Spec().Columns) {
		return nil, fmt.Errorf("table %s: unexpected header %v", id, header)
	}

	table := NewTable(id)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", id, err)
		}
		table.Append(Row(record))
	}
}

// ReadTableFile decodes `<dir>/<name>.csv` for the given table.
func ReadTableFile(dir string, id TableID) (*Table, error) {
	path := filepath.Join(dir, id.Spec().FileName())
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return DecodeTable(f, id)
}
