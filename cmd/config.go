package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/brogergvhs/scansdl/internal/config"

	"github.com/spf13/cobra"
)

// store is swapped in tests.
var store = config.DefaultStore

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective config and manage config profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := store().LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Loaded config from:\n  %s\n\n", used)
		cfg.Print(out)

		if env := activeEnv(); len(env) > 0 {
			fmt.Fprintf(out, "\nOverridden by environment: %s\n", strings.Join(env, ", "))
		}
		return nil
	},
}

func activeEnv() []string {
	var names []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			names = append(names, name)
		}
	}
	return names
}

func init() {
	rootCmd.AddCommand(configCmd)
}
