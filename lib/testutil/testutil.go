package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	devenv "bgg-pipeline/dev/env"
	configlibsql "bgg-pipeline/lib/configutil/libsql"
	"bgg-pipeline/lib/telemetry"

	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, no schema is applied
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService sets up telemetry and a sqlite database for a test, both are torn down
// when the test finishes.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	t.Helper()

	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	t.Cleanup(cleanup)

	dbpath := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.DbPath)
		if err != nil {
			t.Fatal(err)
		}
	}

	db, err := sql.Open("sqlite", configlibsql.SqliteDSN(dbpath))
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if params.DbSchema != "" {
		_, err = db.Exec(params.DbSchema)
		if err != nil {
			t.Fatal(err)
		}
	}

	return ServiceResult{DB: db}
}
