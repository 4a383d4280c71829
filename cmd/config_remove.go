package cmd

import (
	"fmt"

	"github.com/brogergvhs/scansdl/internal/config"

	"github.com/spf13/cobra"
)

var forceRemove bool

var configRemoveCmd = &cobra.Command{
	Use:   "remove <label>",
	Short: "Remove a config profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]
		s := store()
		out := cmd.OutOrStdout()

		active, _ := s.CurrentLabel()
		if label == active && !forceRemove {
			if !confirm(cmd, fmt.Sprintf("Config %q is currently active. Remove it anyway? [y/N]: ", label)) {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		fellBack, err := s.Remove(label)
		if err != nil {
			return err
		}
		if fellBack {
			fmt.Fprintf(out, "Fallback switched to: %s\n", config.DefaultLabel)
		}

		fmt.Fprintf(out, "Removed configuration %q\n", label)
		return nil
	},
}

func init() {
	configRemoveCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "remove the active config without asking")
	configCmd.AddCommand(configRemoveCmd)
}
