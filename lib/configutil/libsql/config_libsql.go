package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	devenv "bgg-pipeline/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct picks the database to load into. A remote `url` (libsql://, https://) takes precedence
// over a local sqlite `file`.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// Driver returns the database/sql driver name OpenDB will use.
func (config Struct) Driver() string {
	if config.Url != "" {
		return "libsql"
	}
	return "sqlite"
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return config.openRemote()
	}
	if config.File == "" {
		return nil, fmt.Errorf("neither a database url nor file was specified")
	}

	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}
	return OpenSqlite(dbpath)
}

func (config Struct) openRemote() (*sql.DB, error) {
	dbUrl, err := url.Parse(config.Url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if config.AuthToken != "" {
		values := dbUrl.Query()
		values.Set("authToken", config.AuthToken)
		dbUrl.RawQuery = values.Encode()
	}
	return sql.Open("libsql", dbUrl.String())
}

// SqliteDSN adds the pragmas every connection needs. foreign_keys is a per connection setting
// that sqlite leaves off.
func SqliteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)"
}

// OpenSqlite opens (creating if needed) a local sqlite database.
func OpenSqlite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
	}

	db, err := sql.Open("sqlite", SqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// a single writer avoids SQLITE_BUSY, see
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("open db: %w", err)
		}
	}
	return db, nil
}
