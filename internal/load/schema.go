package load

import (
	"context"
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"bgg-pipeline/internal/transform"
)

//go:embed schema.sql
var Schema string

// statements splits Schema into single statements, some drivers only accept one per Exec.
func statements() []string {
	var out []string
	for _, stmt := range strings.Split(Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// EnsureSchema creates the tables that do not exist yet.
func (l Loader) EnsureSchema(ctx context.Context) error {
	for _, stmt := range statements() {
		_, err := l.db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// ResetSchema drops every table and recreates it empty.
func (l Loader) ResetSchema(ctx context.Context) error {
	tables := transform.Tables()
	slices.Reverse(tables)
	for _, id := range tables {
		_, err := l.db.ExecContext(ctx, fmt.Sprintf("drop table if exists %s", id.Spec().Name))
		if err != nil {
			return fmt.Errorf("reset schema: drop %s: %w", id, err)
		}
	}
	l.tel.ReportDebug("dropped tables", len(tables))
	return l.EnsureSchema(ctx)
}
