// Package transform turns batch files from the xml api into one csv file per table.
package transform

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bgg-pipeline/internal/components/assert"
	"bgg-pipeline/internal/components/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_transformer_run  = "transformer.run"
	report_transformer_item = "transformer.item"
)

var tracer = otel.Tracer("bgg.transform")

// ItemErrorPolicy decides what happens when a single item cannot be extracted.
type ItemErrorPolicy int

const (
	// ItemErrorAbort fails the whole run on the first bad item.
	ItemErrorAbort ItemErrorPolicy = iota
	// ItemErrorSkip drops the bad item (none of its rows are kept) and carries on.
	ItemErrorSkip
)

type Options struct {
	OnItemError ItemErrorPolicy
}

// Transformer runs the xml -> csv stage. Each call to Run has its own accumulators, but two runs
// writing to the same destination must not overlap.
type Transformer struct {
	tel  telemetry.API
	opts Options
}

func NewTransformer(tel telemetry.API, opts Options) Transformer {
	assert.NotNil(tel)
	return Transformer{
		tel:  telemetry.NewScopedAPI("transform", tel),
		opts: opts,
	}
}

type TableSummary struct {
	Table TableID
	Rows  int
}

type Result struct {
	Files   int
	Items   int
	Skipped int
	Tables  []TableSummary
}

func isItemError(err error) bool {
	var missing *MissingFieldError
	var coercion *TypeCoercionError
	return errors.As(err, &missing) || errors.As(err, &coercion)
}

// Run reads every batch file in srcDir and writes the deduplicated tables into destDir.
// Output files of a failed run must not be trusted.
func (t Transformer) Run(ctx context.Context, srcDir, destDir string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("src", srcDir),
		attribute.String("dest", destDir),
	)

	result, err := t.run(ctx, srcDir, destDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transform failed")
		t.tel.ReportBroken(report_transformer_run, err, srcDir, destDir)
		return result, err
	}
	return result, nil
}

func (t Transformer) run(ctx context.Context, srcDir, destDir string) (Result, error) {
	reader, err := OpenDir(srcDir)
	if err != nil {
		return Result{}, err
	}
	defer reader.Close()

	result := Result{Files: len(reader.Files())}
	t.tel.ReportDebug("reading batch files", srcDir, result.Files)

	asm := NewAssembler()
	for {
		item, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, err
		}

		rows, err := ExtractItem(item)
		if err != nil {
			if t.opts.OnItemError == ItemErrorSkip && isItemError(err) {
				result.Skipped++
				t.tel.ReportWarning(report_transformer_item, err, reader.CurrentFile())
				continue
			}
			return result, fmt.Errorf("%s: %w", reader.CurrentFile(), err)
		}
		asm.AddItem(rows)
		result.Items++
	}

	asm.Dedup()
	tables := asm.Tables()
	for _, table := range tables {
		result.Tables = append(result.Tables, TableSummary{Table: table.ID, Rows: len(table.Rows)})
	}

	err = WriteTables(ctx, destDir, tables)
	if err != nil {
		return result, err
	}

	t.tel.ReportCount("items", int64(result.Items))
	if result.Skipped > 0 {
		t.tel.ReportCount("skipped-items", int64(result.Skipped))
	}
	return result, nil
}
