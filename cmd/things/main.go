// Command things is a read-only command line client for the Things app's
// SQLite database.
package main

import (
	"fmt"
	"os"

	"github.com/thingsapi/things-go/internal/ui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err("Error: ")+err.Error())
		os.Exit(1)
	}
}
