package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	things "github.com/thingsapi/things-go"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks matching a set of filters",
	Long: `List tasks, projects and headings matching the given filters.

Relationship filters (--area, --project, --heading) take a uuid, or the
words "true" (has one) and "false" (has none). Date filters take an
ISO 8601 date, a natural-language date like "next friday", or the words
"future", "past", "true" (set) and "false" (unset).

Examples:
  things tasks --type to-do --status incomplete
  things tasks --project 5pUx6PESj3ctFYbgth1PXY --include-items
  things tasks --deadline future
  things tasks --start-date "last monday" --exact
  things tasks --search groceries --last 2w`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := taskQueryFromFlags(cmd)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		if countOnly, _ := cmd.Flags().GetBool("count"); countOnly {
			count, err := db.CountTasks(query)
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		}
		records, err := db.Tasks(query)
		if err != nil {
			return err
		}
		return printRecords(records)
	},
}

func init() {
	flags := tasksCmd.Flags()
	flags.String("type", "", `task type: "to-do", "project", or "heading"`)
	flags.String("status", "", `task status: "incomplete", "canceled", or "completed"`)
	flags.String("start", "", `start bucket: "Inbox", "Anytime", or "Someday"`)
	flags.String("area", "", `area uuid, or "true"/"false" for presence`)
	flags.String("project", "", `project uuid, or "true"/"false" for presence`)
	flags.String("heading", "", `heading uuid, or "true"/"false" for presence`)
	flags.String("tag", "", "tag title")
	flags.String("start-date", "", `start date: a date, "future", "past", or "true"/"false"`)
	flags.String("stop-date", "", `completion date: a date, "future", "past", or "true"/"false"`)
	flags.String("deadline", "", `deadline: a date, "future", "past", or "true"/"false"`)
	flags.String("deadline-suppressed", "", `deadline suppression: "true"/"false"`)
	flags.Bool("exact", false, "match concrete dates exactly instead of on-or-after")
	flags.String("trashed", "false", `own trashed flag: "true", "false", or "any"`)
	flags.String("context-trashed", "false", `container trashed: "true", "false", or "any"`)
	flags.String("last", "", `only tasks created within an offset like "3d", "2w", "1y"`)
	flags.String("search", "", "substring match on title, notes, and area title")
	flags.String("order", "", `ordering column: "index" (default) or "todayIndex"`)
	flags.Bool("include-items", false, "nest project and heading contents")
	flags.Bool("count", false, "print only the number of matching tasks")
	rootCmd.AddCommand(tasksCmd)
}

// taskQueryFromFlags translates flag values to a TaskQuery. Flag parse
// errors surface here; domain validation happens inside the query itself.
func taskQueryFromFlags(cmd *cobra.Command) (things.TaskQuery, error) {
	flags := cmd.Flags()
	var q things.TaskQuery
	var err error

	q.Type, _ = flags.GetString("type")
	q.Status, _ = flags.GetString("status")
	q.Start, _ = flags.GetString("start")
	q.Tag, _ = flags.GetString("tag")
	q.Last, _ = flags.GetString("last")
	q.Search, _ = flags.GetString("search")
	q.Index, _ = flags.GetString("order")
	q.Exact, _ = flags.GetBool("exact")
	q.IncludeItems, _ = flags.GetBool("include-items")

	area, _ := flags.GetString("area")
	project, _ := flags.GetString("project")
	heading, _ := flags.GetString("heading")
	suppressed, _ := flags.GetString("deadline-suppressed")
	q.Area = condFlag(area)
	q.Project = condFlag(project)
	q.Heading = condFlag(heading)
	q.DeadlineSuppressed = condFlag(suppressed)

	startDate, _ := flags.GetString("start-date")
	if q.StartDate, err = dateCondFlag("start-date", startDate); err != nil {
		return q, err
	}
	stopDate, _ := flags.GetString("stop-date")
	if q.StopDate, err = dateCondFlag("stop-date", stopDate); err != nil {
		return q, err
	}
	deadline, _ := flags.GetString("deadline")
	if q.Deadline, err = dateCondFlag("deadline", deadline); err != nil {
		return q, err
	}

	trashed, _ := flags.GetString("trashed")
	if q.Trashed, err = boolFlag("trashed", trashed); err != nil {
		return q, err
	}
	contextTrashed, _ := flags.GetString("context-trashed")
	if q.ContextTrashed, err = boolFlag("context-trashed", contextTrashed); err != nil {
		return q, err
	}
	return q, nil
}

// condFlag maps a relationship flag value to a match condition: empty means
// no constraint, "true"/"false" mean presence/absence, anything else is a
// uuid.
func condFlag(value string) things.Cond {
	switch strings.ToLower(value) {
	case "":
		return things.Cond{}
	case "true":
		return things.Exists()
	case "false":
		return things.Missing()
	}
	return things.Is(value)
}

// dateCondFlag maps a date flag value to a date condition. Concrete dates
// accept ISO 8601 or natural language ("next friday", "in 3 days").
func dateCondFlag(name, value string) (things.DateCond, error) {
	switch strings.ToLower(value) {
	case "":
		return things.DateCond{}, nil
	case "true":
		return things.DateExists(), nil
	case "false":
		return things.DateMissing(), nil
	case "future":
		return things.Future(), nil
	case "past":
		return things.Past(), nil
	}
	isodate, err := resolveDate(value)
	if err != nil {
		return things.DateCond{}, fmt.Errorf("--%s: %w", name, err)
	}
	return things.Date(isodate), nil
}

// resolveDate normalizes a date argument to ISO 8601, falling back to
// natural-language parsing.
func resolveDate(value string) (string, error) {
	if _, err := time.Parse("2006-01-02", value); err == nil {
		return value, nil
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	result, err := w.Parse(value, time.Now())
	if err != nil || result == nil {
		return "", fmt.Errorf("unrecognized date %q", value)
	}
	return result.Time.Format("2006-01-02"), nil
}

// boolFlag maps "true"/"false"/"any" (or empty) to a *bool constraint.
func boolFlag(name, value string) (*bool, error) {
	switch strings.ToLower(value) {
	case "", "any":
		return nil, nil
	case "true":
		return things.Bool(true), nil
	case "false":
		return things.Bool(false), nil
	}
	return nil, fmt.Errorf(`--%s: unrecognized value %q (valid values: true, false, any)`, name, value)
}
