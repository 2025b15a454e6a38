package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	things "github.com/thingsapi/things-go"
	"github.com/thingsapi/things-go/internal/ui"
	"github.com/thingsapi/things-go/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow database changes as the app writes",
	Long: `Watch the database file and print a line whenever the Things app
writes to it. Bursts of writes are coalesced into a single change.

Example usage:
  things watch
  things watch --debounce 2s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")

		// Open eagerly so a bad path or old schema fails before waiting.
		db, err := openDB()
		if err != nil {
			return err
		}

		watcher, err := watch.New(db.Path(), debounce)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()

		fmt.Println(ui.Muted("watching " + db.Path()))
		fmt.Println(ui.Muted("press Ctrl+C to stop"))

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				fmt.Println()
				return nil
			case change, ok := <-watcher.Events():
				if !ok {
					return nil
				}
				// Each change re-queries through a fresh connection, so the
				// counts reflect what the app just wrote.
				summary, err := changeSummary(db)
				if err != nil {
					fmt.Fprintln(os.Stderr, ui.Err("refresh failed: ")+err.Error())
					continue
				}
				fmt.Printf("%s %s %s\n",
					ui.Muted(change.At.Format(time.RFC3339)),
					ui.Success("database changed"),
					ui.Muted(summary))
			case err, ok := <-watcher.Errors():
				if !ok {
					return nil
				}
				fmt.Fprintln(os.Stderr, ui.Err("watch error: ")+err.Error())
			}
		}
	},
}

func changeSummary(db *things.DB) (string, error) {
	visible := things.TaskQuery{
		Trashed:        things.Bool(false),
		ContextTrashed: things.Bool(false),
		Status:         "incomplete",
	}
	total, err := db.CountTasks(visible)
	if err != nil {
		return "", err
	}
	inbox := visible
	inbox.Type = "to-do"
	inbox.Start = "Inbox"
	inboxCount, err := db.CountTasks(inbox)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%d incomplete, %d in inbox)", total, inboxCount), nil
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a change is reported")
	rootCmd.AddCommand(watchCmd)
}
