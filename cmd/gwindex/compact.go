package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sm4rtLabel/ar-io-node/internal/indexcore"
)

var compactCmd = &cobra.Command{
	Use:     "compact",
	GroupID: "operate",
	Short:   "VACUUM all four store files to reclaim space freed by GC",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := indexcore.Open(cmd.Context(), indexcoreConfig())
		if err != nil {
			return err
		}
		defer core.Close()

		if err := core.Compact(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("compacted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compactCmd)
}
