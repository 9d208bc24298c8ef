package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	devenv "bgg-pipeline/dev/env"
)

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	stateDir, err := devenv.StateDir()
	if err != nil {
		return err
	}
	if recreate {
		err = os.RemoveAll(stateDir)
		if err != nil {
			return err
		}
	}
	err = os.MkdirAll(stateDir, 0777)
	if err != nil {
		return err
	}

	err = createDb("bgg.db")
	if err != nil {
		return err
	}
	err = createDotenv(".env")
	if err != nil {
		return err
	}

	slog.Info("put overrides of cmd/bgg-cli/config.json5 into cmd/bgg-cli/config.local.json5, a telemetry.json5 in the repository root enables otlp export")
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err)
		os.Exit(1)
	}
	slog.Info("dev environment created successfully!")
}
