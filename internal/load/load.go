// Package load appends the csv tables written by the transform stage into a sql database.
package load

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bgg-pipeline/internal/components/assert"
	"bgg-pipeline/internal/components/telemetry"
	"bgg-pipeline/internal/transform"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_loader_load_table     = "loader.load-table"
	report_loader_validate_games = "loader.validate-games"
)

var tracer = otel.Tracer("bgg.load")

// ErrNoGames is returned by ValidateGames when the game table is empty.
var ErrNoGames = errors.New("game table is empty")

type Loader struct {
	db  *sql.DB
	tel telemetry.API
}

func NewLoader(db *sql.DB, tel telemetry.API) Loader {
	assert.NotNil(db)
	assert.NotNil(tel)
	return Loader{
		db:  db,
		tel: telemetry.NewScopedAPI("load", tel),
	}
}

type Options struct {
	// Skip lists the names of tables that are not loaded.
	Skip []string
}

type TableResult struct {
	Table   transform.TableID
	Rows    int
	Skipped bool
}

func skipSet(names []string) (map[transform.TableID]bool, error) {
	out := map[transform.TableID]bool{}
	for _, name := range names {
		id, ok := transform.TableByName(name)
		if !ok {
			return nil, fmt.Errorf("cannot skip unknown table %q", name)
		}
		out[id] = true
	}
	return out, nil
}

// LoadDir appends `<csvDir>/<table>.csv` to each table, entity tables first and map tables last.
// Every table is loaded in its own transaction, a failure leaves the tables before it loaded.
func (l Loader) LoadDir(ctx context.Context, csvDir string, opts Options) ([]TableResult, error) {
	ctx, span := tracer.Start(ctx, "LoadDir")
	defer span.End()
	span.SetAttributes(attribute.String("dir", csvDir))

	skip, err := skipSet(opts.Skip)
	if err != nil {
		return nil, err
	}

	var results []TableResult
	for _, id := range transform.Tables() {
		if skip[id] {
			results = append(results, TableResult{Table: id, Skipped: true})
			continue
		}

		table, err := transform.ReadTableFile(csvDir, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "read table")
			return results, err
		}
		err = l.insertTable(ctx, table)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert table")
			l.tel.ReportBroken(report_loader_load_table, err, id.String())
			return results, fmt.Errorf("load %s: %w", id, err)
		}

		results = append(results, TableResult{Table: id, Rows: len(table.Rows)})
		l.tel.ReportCount(id.String(), int64(len(table.Rows)))
	}
	return results, nil
}

func insertStatement(spec transform.TableSpec) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(spec.Columns)), ", ")
	return fmt.Sprintf(
		"insert into %s (%s) values (%s)",
		spec.Name,
		strings.Join(spec.Columns, ", "),
		placeholders,
	)
}

func (l Loader) insertTable(ctx context.Context, table *transform.Table) (err error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertStatement(table.ID.Spec()))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(table.ID.Spec().Columns))
	for i, row := range table.Rows {
		for c, value := range row {
			args[c] = value
		}
		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// CountRows returns the number of rows in one of the pipeline's tables.
func (l Loader) CountRows(ctx context.Context, id transform.TableID) (int64, error) {
	var count int64
	row := l.db.QueryRowContext(ctx, fmt.Sprintf("select count(*) from %s", id.Spec().Name))
	err := row.Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", id, err)
	}
	return count, nil
}

// ValidateGames checks that the game table was loaded with at least one row.
func (l Loader) ValidateGames(ctx context.Context) (int64, error) {
	count, err := l.CountRows(ctx, transform.TableGame)
	if err != nil {
		l.tel.ReportBroken(report_loader_validate_games, err)
		return 0, err
	}
	if count == 0 {
		l.tel.ReportWarning(report_loader_validate_games, ErrNoGames)
		return 0, ErrNoGames
	}
	return count, nil
}
