package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/brogergvhs/scansdl/internal/config"

	"github.com/spf13/cobra"
)

var flagYes bool

var configInitCmd = &cobra.Command{
	Use:   "init [label]",
	Short: "Create a config profile with default values (Default when no label is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := config.DefaultLabel
		if len(args) == 1 {
			label = args[0]
		}

		s := store()
		out := cmd.OutOrStdout()
		path := s.PathFor(label)

		fmt.Fprintln(out, "Configuration file will be saved at:")
		fmt.Fprintln(out, "  ", path)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Default configuration:")
		config.DefaultConfig().Print(out)
		fmt.Fprintln(out)

		if !flagYes && !confirm(cmd, fmt.Sprintf("Create %s config at %s? [y/N]: ", label, path)) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		path, err := s.Create(label)
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintln(out, "Configuration already exists at:")
			fmt.Fprintln(out, "  ", path)
			fmt.Fprintln(out, "Use `scansdl config reset` to recreate it.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Fprintln(out, "Config created at:", path)
		if active, _ := s.CurrentLabel(); active == label {
			fmt.Fprintf(out, "This config is now active (label: %s).\n", label)
		}
		return nil
	},
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprint(cmd.OutOrStdout(), question)

	resp, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	resp = strings.TrimSpace(strings.ToLower(resp))

	return resp == "y" || resp == "yes"
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "don't ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
