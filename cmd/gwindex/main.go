// Command gwindex runs the content-addressed chain gateway's indexing
// core: ingesting blocks, transactions, and bundled data items into four
// SQLite stores, and serving the cursor-paginated query surface.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
