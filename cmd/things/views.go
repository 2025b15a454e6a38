package main

import (
	"github.com/spf13/cobra"

	things "github.com/thingsapi/things-go"
)

// The view commands mirror the app's sidebar lists.

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List incomplete to-dos in the Inbox",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Inbox() }),
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "List tasks scheduled with a start date, in Today order",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Today() }),
}

var anytimeCmd = &cobra.Command{
	Use:   "anytime",
	Short: "List incomplete to-dos in the Anytime bucket",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Anytime() }),
}

var somedayCmd = &cobra.Command{
	Use:   "someday",
	Short: "List incomplete to-dos in the Someday bucket",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Someday() }),
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List incomplete projects",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Projects() }),
}

var completedCmd = &cobra.Command{
	Use:   "completed",
	Short: "List completed tasks",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Completed() }),
}

var canceledCmd = &cobra.Command{
	Use:   "canceled",
	Short: "List canceled tasks",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Canceled() }),
}

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "List trashed tasks",
	RunE:  viewRunner(func(db *things.DB) ([]things.Record, error) { return db.Trash() }),
}

func viewRunner(view func(*things.DB) ([]things.Record, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		records, err := view(db)
		if err != nil {
			return err
		}
		return printRecords(records)
	}
}

func init() {
	rootCmd.AddCommand(inboxCmd, todayCmd, anytimeCmd, somedayCmd,
		projectsCmd, completedCmd, canceledCmd, trashCmd)
}
