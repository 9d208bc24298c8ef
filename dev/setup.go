package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	devenv "bgg-pipeline/dev/env"
	"bgg-pipeline/internal/components/telemetry"
	"bgg-pipeline/internal/load"
	configlibsql "bgg-pipeline/lib/configutil/libsql"
)

func createDb(filename string) error {
	path, err := devenv.ResolvePath(filepath.Join("<dev_state>", filename))
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	db, err := configlibsql.OpenSqlite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return load.NewLoader(db, telemetry.SlogAPI{}).EnsureSchema(context.Background())
}

const dotenvTemplate = `# credentials for scraping the ranked browse pages
BGG_USERNAME=
BGG_PASSWORD=
`

func createDotenv(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		fmt.Println(path, "already exists")
		return nil
	}
	fmt.Println("writing", path, "template, fill in your boardgamegeek credentials")
	return os.WriteFile(path, []byte(dotenvTemplate), 0600)
}
