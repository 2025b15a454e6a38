package main

import (
	"fmt"

	"github.com/spf13/cobra"

	things "github.com/thingsapi/things-go"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List areas",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		includeItems, _ := cmd.Flags().GetBool("include-items")
		db, err := openDB()
		if err != nil {
			return err
		}
		query := things.AreaQuery{Tag: tag, IncludeItems: includeItems}
		if countOnly, _ := cmd.Flags().GetBool("count"); countOnly {
			count, err := db.CountAreas(query)
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		}
		records, err := db.Areas(query)
		if err != nil {
			return err
		}
		return printRecords(records)
	},
}

func init() {
	areasCmd.Flags().String("tag", "", "only areas carrying this tag title")
	areasCmd.Flags().Bool("include-items", false, "nest each area's tasks and projects")
	areasCmd.Flags().Bool("count", false, "print only the number of matching areas")
	rootCmd.AddCommand(areasCmd)
}
