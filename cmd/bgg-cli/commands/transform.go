package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(transformCmd)
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Turns the fetched batch files into one csv file per table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runTransform(cmd.Context())
		if err != nil {
			return err
		}
		printTransformResult(result)
		return nil
	},
}
