package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	internaltel "bgg-pipeline/internal/components/telemetry"
	"bgg-pipeline/lib/configutil"
	"bgg-pipeline/lib/serviceutil"
	"bgg-pipeline/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

// set up by the root command before any subcommand runs
var (
	config   Config
	tel      internaltel.API = internaltel.SlogAPI{}
	shutdown []func(context.Context) error
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The json5 config file, <name>.local.json5 next to it overrides it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information.")
}

var rootCmd = &cobra.Command{
	Use:   "bgg-cli",
	Short: "bgg-cli extracts board games from boardgamegeek and loads them into a database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = loadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		logCloser, err := telemetry.InitSlog(*verbose, config.Log)
		if err != nil {
			return err
		}
		shutdown = append(shutdown, func(context.Context) error { return logCloser.Close() })

		t, err := telemetry.SetupFromEnv(cmd.Context(), "bgg-cli")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		shutdown = append(shutdown, t.Shutdown)
		telemetry.InstrumentPerfStats(cmd.Context(), time.Second*30)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeAll()
	},
}

func closeAll() {
	for i := len(shutdown) - 1; i >= 0; i-- {
		err := shutdown[i](context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", err)
		}
	}
	shutdown = nil
}

func credentials() (Credentials, error) {
	creds, err := configutil.ReadEnv[Credentials](".env")
	if err != nil {
		return Credentials{}, err
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("BGG_USERNAME and BGG_PASSWORD must be set (in the environment or .env)")
	}
	return creds, nil
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		closeAll()
		serviceutil.Fatal("bgg-cli failed", err)
	}
}
