package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sm4rtLabel/ar-io-node/internal/indexcore"
)

var resetHeight int64

var resetCmd = &cobra.Command{
	Use:     "reset",
	GroupID: "operate",
	Short:   "Roll new_* state in core and bundles back to a height",
	Long:    "Deletes the new_blocks, new_block_transactions and missing_transactions rows above --height and clears the height of new transaction, data item and tag rows above it, in both core and bundles, for recovering from a detected fork the chain source has since abandoned. Stable rows are not touched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := indexcore.Open(cmd.Context(), indexcoreConfig())
		if err != nil {
			return err
		}
		defer core.Close()

		if err := core.ResetToHeight(cmd.Context(), resetHeight); err != nil {
			return err
		}
		fmt.Printf("reset new_* state above height %d\n", resetHeight)
		return nil
	},
}

func init() {
	resetCmd.Flags().Int64Var(&resetHeight, "height", 0, "height to reset to (exclusive of rows above it)")
	rootCmd.AddCommand(resetCmd)
}
