package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sm4rtLabel/ar-io-node/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "inspect",
	Short:   "Show the effective configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every configuration key and its effective value as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.AllSettings()

		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ordered := make(map[string]any, len(settings))
		for _, k := range keys {
			ordered[k] = settings[k]
		}

		out, err := yaml.Marshal(ordered)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration key's effective value and source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		fmt.Printf("%s (from %s)\n", config.GetString(key), config.GetValueSource(key))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
