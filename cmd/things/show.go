package main

import (
	"errors"

	"github.com/spf13/cobra"

	things "github.com/thingsapi/things-go"
)

var showCmd = &cobra.Command{
	Use:   "show <uuid>",
	Short: "Show one task or area by uuid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		uuid := args[0]

		record, err := db.Task(uuid)
		var notFound *things.NotFoundError
		if errors.As(err, &notFound) {
			record, err = db.Area(uuid)
		}
		if err != nil {
			return err
		}

		if includeItems, _ := cmd.Flags().GetBool("include-items"); includeItems && record.GetString("type") != "area" {
			records, err := db.Tasks(things.TaskQuery{UUID: uuid, IncludeItems: true})
			if err != nil {
				return err
			}
			record = records[0]
		}
		return printRecord(record)
	},
}

func init() {
	showCmd.Flags().Bool("include-items", false, "nest project and heading contents")
	rootCmd.AddCommand(showCmd)
}
