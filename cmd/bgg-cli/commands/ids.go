package commands

import (
	"github.com/spf13/cobra"
)

var idsSource *string

func init() {
	idsSource = idsCmd.Flags().String("source", string(idSourceScrape), "Where ids come from: scrape the ranked browse pages (needs credentials) or the historical rankings.")
	rootCmd.AddCommand(idsCmd)
}

var idsCmd = &cobra.Command{
	Use:   "ids [--source scrape|historical]",
	Short: "Collects the ids of ranked games into the game id file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := extractIds(cmd.Context(), idSource(*idsSource))
		if err != nil {
			return err
		}
		cmd.Printf("%d game ids written to %s\n", len(ids), config.GameIdsFile)
		return nil
	},
}
