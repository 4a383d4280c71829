package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configAddCmd = &cobra.Command{
	Use:   "add <label> <file.yaml>",
	Short: "Add an existing YAML file as a new config profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := store().Import(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added config %q: %s\n", args[0], path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configAddCmd)
}
