package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sm4rtLabel/ar-io-node/internal/indexcore"
)

var debugCmd = &cobra.Command{
	Use:     "debug",
	GroupID: "inspect",
	Short:   "Print the cross-store consistency report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := indexcore.Open(cmd.Context(), indexcoreConfig())
		if err != nil {
			return err
		}
		defer core.Close()

		info, err := core.GetDebugInfo(cmd.Context())
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
}
