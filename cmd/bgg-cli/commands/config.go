package commands

import (
	"os"
	"time"

	devenv "bgg-pipeline/dev/env"
	"bgg-pipeline/internal/bgg"
	"bgg-pipeline/lib/configutil"
	configlibsql "bgg-pipeline/lib/configutil/libsql"
	"bgg-pipeline/lib/restyutil"
	"bgg-pipeline/lib/telemetry"

	"dario.cat/mergo"
)

type Config struct {
	XmlDir      string `json:"xml_dir"`
	CsvDir      string `json:"csv_dir"`
	GameIdsFile string `json:"game_ids_file"`

	BatchSize         int     `json:"batch_size"`
	MaxPages          int     `json:"max_pages"`
	PageWaitSeconds   int     `json:"page_wait_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	BypassCloudflare  bool    `json:"bypass_cloudflare"`
	// DumpHttpDir, when set, receives every request/response made to boardgamegeek.
	DumpHttpDir    string `json:"dump_http_dir"`
	HistoricalDate string `json:"historical_date"`

	SkipBadItems bool     `json:"skip_bad_items"`
	SkipTables   []string `json:"skip_tables"`

	Database configlibsql.Struct `json:"database"`
	Log      telemetry.LogConfig `json:"log"`
}

type Credentials struct {
	Username string `env:"BGG_USERNAME"`
	Password string `env:"BGG_PASSWORD"`
}

func defaultConfig() Config {
	return Config{
		XmlDir:            "<dev_state>/xml",
		CsvDir:            "<dev_state>/csv",
		GameIdsFile:       "<dev_state>/game_ids.txt",
		BatchSize:         20,
		PageWaitSeconds:   5,
		RequestsPerSecond: 0.5,
		Database: configlibsql.Struct{
			File: "<dev_state>/bgg.db",
		},
	}
}

// loadConfig reads the config file over the defaults, a missing file leaves the defaults.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()
	fromFile, err := configutil.ReadConfig[Config](path)
	if os.IsNotExist(err) {
		return config, config.resolvePaths()
	}
	if err != nil {
		return Config{}, err
	}

	// zero values in the file keep the defaults
	err = mergo.Merge(&config, fromFile, mergo.WithOverride)
	if err != nil {
		return Config{}, err
	}
	return config, config.resolvePaths()
}

func (c *Config) resolvePaths() error {
	for _, path := range []*string{&c.XmlDir, &c.CsvDir, &c.GameIdsFile, &c.DumpHttpDir, &c.Log.Dir} {
		resolved, err := devenv.ResolvePath(*path)
		if err != nil {
			return err
		}
		*path = resolved
	}
	return nil
}

func (c Config) PageWait() time.Duration {
	return time.Duration(c.PageWaitSeconds) * time.Second
}

func (c Config) ClientOptions() (bgg.ClientOptions, error) {
	opts := bgg.ClientOptions{
		RequestsPerSecond: c.RequestsPerSecond,
		BypassCloudflare:  c.BypassCloudflare,
	}
	if c.DumpHttpDir != "" {
		output, err := restyutil.NewFilesystemOutput(c.DumpHttpDir)
		if err != nil {
			return bgg.ClientOptions{}, err
		}
		opts.Output = output
	}
	return opts, nil
}
