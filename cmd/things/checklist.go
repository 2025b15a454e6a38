package main

import (
	"github.com/spf13/cobra"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist <task-uuid>",
	Short: "List the checklist items of one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		items, err := db.ChecklistItems(args[0])
		if err != nil {
			return err
		}
		return printRecords(items)
	},
}

func init() {
	rootCmd.AddCommand(checklistCmd)
}
