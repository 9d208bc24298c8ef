package commands

import (
	"github.com/spf13/cobra"
)

var loadReset *bool

func init() {
	loadReset = loadCmd.Flags().Bool("reset", false, "Drop and recreate every table before loading.")
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load [--reset]",
	Short: "Appends the csv tables to the configured database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		results, games, err := runLoad(cmd.Context(), *loadReset)
		if err != nil {
			return err
		}
		printLoadResult(results, games)
		return nil
	},
}
