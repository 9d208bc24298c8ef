package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	runSource  *string
	runSkipIds *bool
)

func init() {
	runSource = runCmd.Flags().String("source", string(idSourceScrape), "Where ids come from: scrape or historical.")
	runSkipIds = runCmd.Flags().Bool("skip-ids", false, "Reuse the existing game id file.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the whole pipeline: check api, ids, fetch, transform, reset schema, load, validate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		slog.Info("checking xml api availability")
		err := checkApi(ctx)
		if err != nil {
			return err
		}

		if !*runSkipIds {
			slog.Info("extracting game ids", "source", *runSource)
			_, err = extractIds(ctx, idSource(*runSource))
			if err != nil {
				return fmt.Errorf("extract ids: %w", err)
			}
		}

		slog.Info("fetching batches", "dir", config.XmlDir)
		files, err := fetchXml(ctx)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		slog.Info("fetched batches", "count", len(files))

		result, err := runTransform(ctx)
		if err != nil {
			return fmt.Errorf("transform: %w", err)
		}
		printTransformResult(result)

		results, games, err := runLoad(ctx, true)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		printLoadResult(results, games)
		return nil
	},
}
