// Command chessctl runs the clustering and profile pipeline offline over a
// PGN file and prints the results as tables.
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
