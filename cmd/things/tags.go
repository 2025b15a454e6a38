package main

import (
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags [title]",
	Short: "List tags, or the tags of one task or area",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		if taskUUID, _ := cmd.Flags().GetString("task"); taskUUID != "" {
			titles, err := db.TagsOfTask(taskUUID)
			if err != nil {
				return err
			}
			return printStrings(titles)
		}
		if areaUUID, _ := cmd.Flags().GetString("area"); areaUUID != "" {
			titles, err := db.TagsOfArea(areaUUID)
			if err != nil {
				return err
			}
			return printStrings(titles)
		}

		var title string
		if len(args) == 1 {
			title = args[0]
		}
		records, err := db.Tags(title)
		if err != nil {
			return err
		}
		return printRecords(records)
	},
}

func init() {
	tagsCmd.Flags().String("task", "", "list the tag titles of this task uuid")
	tagsCmd.Flags().String("area", "", "list the tag titles of this area uuid")
	rootCmd.AddCommand(tagsCmd)
}
