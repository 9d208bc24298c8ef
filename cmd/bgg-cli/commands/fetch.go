package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Downloads the games in the game id file from the xml api as batch files.",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := fetchXml(cmd.Context())
		if err != nil {
			return err
		}
		printFiles("fetched batches", files)
		return nil
	},
}
