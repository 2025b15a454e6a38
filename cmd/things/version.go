package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print client version, database location, and schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("things %s\n", version)
		db, err := openDB()
		if err != nil {
			return err
		}
		schema, err := db.Version()
		if err != nil {
			return err
		}
		fmt.Printf("database: %s\n", db.Path())
		fmt.Printf("schema version: %d\n", schema)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the URL scheme authentication token",
	Long: `Print the token the Things URL scheme requires for update commands.
The token is read from the app's settings table; it is needed to build
things:///update?auth-token=... URLs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		token, err := db.AuthToken()
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, tokenCmd)
}
