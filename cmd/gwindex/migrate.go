package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sm4rtLabel/ar-io-node/internal/indexcore"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	GroupID: "operate",
	Short:   "Apply schema to the four store files, creating them if absent",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := indexcore.Open(cmd.Context(), indexcoreConfig())
		if err != nil {
			return err
		}
		core.Close()
		fmt.Println("schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
