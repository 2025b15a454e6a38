package things

import (
	"fmt"
	"sort"
	"strings"
)

// TaskQuery selects tasks. The zero value matches every visible
// (non-recurring) task regardless of status, including trashed ones; most
// callers want at least Trashed: Bool(false) and ContextTrashed:
// Bool(false), which the convenience methods apply.
type TaskQuery struct {
	// UUID short-circuits every other filter and looks up a single task.
	UUID string

	// Type is one of "to-do", "project", "heading"; empty matches any type.
	Type string
	// Status is one of "incomplete", "canceled", "completed"; empty matches
	// any status.
	Status string
	// Start is one of "Inbox", "Anytime", "Someday" (case-insensitive);
	// empty matches any start bucket.
	Start string

	// Area, Project and Heading filter by the containing entity's uuid, or
	// by mere presence/absence via Exists/Missing. A task attached to a
	// heading has no direct project column value, so Project also matches
	// tasks whose heading belongs to the project.
	Area    Cond
	Project Cond
	Heading Cond

	// Tag filters by tag title. Titles are user-defined, so the value is
	// validated against the live tag table on every call.
	Tag string

	// StartDate and Deadline filter the packed Things date columns;
	// StopDate filters the completion instant.
	StartDate DateCond
	StopDate  DateCond
	Deadline  DateCond

	// DeadlineSuppressed filters on whether the app has hidden an
	// approaching deadline from the Today list.
	DeadlineSuppressed Cond

	// Exact matches concrete StopDate and Deadline/StartDate values to the
	// exact day instead of "on or after".
	Exact bool

	// Trashed filters the task's own trashed flag. nil matches both.
	Trashed *bool

	// ContextTrashed filters on whether the task's containing project (or
	// the project of its containing heading) is trashed. A task can be
	// untrashed yet invisible in the app because its container is trashed;
	// ContextTrashed: Bool(false) reproduces the app's default views.
	// nil applies no constraint.
	ContextTrashed *bool

	// Last restricts results to tasks created in the trailing interval,
	// e.g. "3d", "2w", "1y".
	Last string

	// Search matches a substring of the task title, notes, or area title.
	Search string

	// Index selects the ordering column: "index" (default) or "todayIndex".
	Index string

	// IncludeItems nests the contents of matched projects and headings
	// under an "items" column.
	IncludeItems bool
}

// AreaQuery selects areas by optional uuid and tag title.
type AreaQuery struct {
	UUID string
	Tag  string

	// IncludeItems nests each area's tasks and projects under an "items"
	// column, with project and heading contents nested in turn.
	IncludeItems bool
}

// Tasks returns the tasks matching the query.
func (d *DB) Tasks(q TaskQuery) ([]Record, error) {
	if q.UUID != "" {
		record, err := d.Task(q.UUID)
		if err != nil {
			return nil, err
		}
		records := []Record{record}
		if q.IncludeItems {
			if err := d.expandItems(records); err != nil {
				return nil, err
			}
		}
		return records, nil
	}
	query, args, err := d.buildTasksQuery(q)
	if err != nil {
		return nil, err
	}
	records, err := d.execute(query, args...)
	if err != nil {
		return nil, err
	}
	if q.IncludeItems {
		if err := d.expandItems(records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// CountTasks returns the number of tasks matching the query. It counts over
// the same assembled query Tasks executes, so the two can never diverge.
func (d *DB) CountTasks(q TaskQuery) (int, error) {
	if q.UUID != "" {
		query, args := tasksQuery(Fragment{SQL: "TASK.uuid = ?", Args: []any{q.UUID}}, "")
		return d.executeCount(query, args...)
	}
	query, args, err := d.buildTasksQuery(q)
	if err != nil {
		return 0, err
	}
	return d.executeCount(query, args...)
}

// Task looks up a single task by uuid. Returns a *NotFoundError if no task
// with that uuid exists.
func (d *DB) Task(uuid string) (Record, error) {
	query, args := tasksQuery(Fragment{SQL: "TASK.uuid = ?", Args: []any{uuid}}, "")
	records, err := d.execute(query, args...)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, &NotFoundError{Kind: "task", UUID: uuid}
	}
	return records[0], nil
}

// buildTasksQuery validates the query parameters and assembles the final
// SQL plus bound arguments.
func (d *DB) buildTasksQuery(q TaskQuery) (string, []any, error) {
	start := normalizeStart(q.Start)
	index := q.Index
	if index == "" {
		index = "index"
	}

	if q.Type != "" {
		if err := validateEnum("type", q.Type, validTypes); err != nil {
			return "", nil, err
		}
	}
	if q.Status != "" {
		if err := validateEnum("status", q.Status, validStatuses); err != nil {
			return "", nil, err
		}
	}
	if start != "" {
		if err := validateEnum("start", start, validStarts); err != nil {
			return "", nil, err
		}
	}
	if err := validateEnum("index", index, validIndexes); err != nil {
		return "", nil, err
	}
	if err := d.validateTag(q.Tag); err != nil {
		return "", nil, err
	}

	startDateFilter, err := thingsDateFilter("TASK."+colStart, q.StartDate, q.Exact)
	if err != nil {
		return "", nil, err
	}
	deadlineFilter, err := thingsDateFilter("TASK."+colDeadline, q.Deadline, q.Exact)
	if err != nil {
		return "", nil, err
	}
	stopDateFilter, err := unixTimeFilter("TASK."+colStop, q.StopDate, q.Exact)
	if err != nil {
		return "", nil, err
	}
	lastFilter, err := unixTimeRangeFilter("TASK."+colCreated, q.Last)
	if err != nil {
		return "", nil, err
	}

	// A task assigned to a heading is no longer directly assigned to a
	// project, so project filtering also matches through the heading's
	// own project.
	projectFilter := orFilter(
		matchFilter("TASK.project", q.Project),
		matchFilter("PROJECT_OF_HEADING.uuid", q.Project),
	)

	where := whereAll("TASK."+isNotRecurring,
		trashedFilter("TASK.trashed", q.Trashed),
		contextTrashedFilter(q.ContextTrashed),
		enumFilter("TASK.", typeFilters, q.Type),
		enumFilter("TASK.", startFilters, start),
		enumFilter("TASK.", statusFilters, q.Status),
		matchFilter("TASK.area", q.Area),
		projectFilter,
		matchFilter("TASK.heading", q.Heading),
		matchFilter("TASK.deadlineSuppressionDate", q.DeadlineSuppressed),
		tagFilter(q.Tag),
		startDateFilter,
		stopDateFilter,
		deadlineFilter,
		lastFilter,
		searchFilter(q.Search),
	)

	query, args := tasksQuery(where, fmt.Sprintf("TASK.%q", index))
	return query, args, nil
}

func tagFilter(tag string) Fragment {
	if tag == "" {
		return Fragment{}
	}
	return matchFilter("TAG.title", Is(tag))
}

// validateTag checks a tag title against the live tag table. The valid set
// is fetched fresh on every call: tags are user-defined and the database may
// change between calls.
func (d *DB) validateTag(tag string) error {
	if tag == "" {
		return nil
	}
	titles, err := d.TagTitles()
	if err != nil {
		return err
	}
	return validateEnum("tag", tag, titles)
}

// normalizeStart maps "inbox" or "ANYTIME" to the canonical bucket spelling.
func normalizeStart(start string) string {
	if start == "" {
		return ""
	}
	return strings.ToUpper(start[:1]) + strings.ToLower(start[1:])
}

// expandItems nests project and heading contents under an "items" column,
// with a project's direct to-dos sorted before its headings.
func (d *DB) expandItems(records []Record) error {
	for i := range records {
		switch records[i].GetString("type") {
		case "project":
			items, err := d.Tasks(TaskQuery{
				Project:        Is(records[i].GetString("uuid")),
				Status:         "incomplete",
				Trashed:        Bool(false),
				ContextTrashed: Bool(false),
				IncludeItems:   true,
			})
			if err != nil {
				return err
			}
			sort.SliceStable(items, func(a, b int) bool {
				return items[a].GetString("type") > items[b].GetString("type")
			})
			records[i].set("items", items)
		case "heading":
			items, err := d.Tasks(TaskQuery{
				Heading:        Is(records[i].GetString("uuid")),
				Type:           "to-do",
				Status:         "incomplete",
				Trashed:        Bool(false),
				ContextTrashed: Bool(false),
			})
			if err != nil {
				return err
			}
			records[i].set("items", items)
		}
	}
	return nil
}

// Areas returns the areas matching the query.
func (d *DB) Areas(q AreaQuery) ([]Record, error) {
	if err := d.validateTag(q.Tag); err != nil {
		return nil, err
	}
	where := whereAll("TRUE",
		tagFilter(q.Tag),
		matchFilter("AREA.uuid", condFromUUID(q.UUID)),
	)
	query, args := areasQuery(where)
	records, err := d.execute(query, args...)
	if err != nil {
		return nil, err
	}
	if q.UUID != "" && len(records) == 0 {
		return nil, &NotFoundError{Kind: "area", UUID: q.UUID}
	}
	if q.IncludeItems {
		for i := range records {
			items, err := d.Tasks(TaskQuery{
				Area:           Is(records[i].GetString("uuid")),
				Status:         "incomplete",
				Trashed:        Bool(false),
				ContextTrashed: Bool(false),
				IncludeItems:   true,
			})
			if err != nil {
				return nil, err
			}
			records[i].set("items", items)
		}
	}
	return records, nil
}

// CountAreas returns the number of areas matching the query.
func (d *DB) CountAreas(q AreaQuery) (int, error) {
	if err := d.validateTag(q.Tag); err != nil {
		return 0, err
	}
	where := whereAll("TRUE",
		tagFilter(q.Tag),
		matchFilter("AREA.uuid", condFromUUID(q.UUID)),
	)
	query, args := areasQuery(where)
	return d.executeCount(query, args...)
}

// Area looks up a single area by uuid. Returns a *NotFoundError if no area
// with that uuid exists.
func (d *DB) Area(uuid string) (Record, error) {
	records, err := d.Areas(AreaQuery{UUID: uuid})
	if err != nil {
		return Record{}, err
	}
	return records[0], nil
}

func condFromUUID(uuid string) Cond {
	if uuid == "" {
		return Cond{}
	}
	return Is(uuid)
}

// Tags returns full tag rows, optionally filtered by title. A non-empty
// title must exist in the live tag table.
func (d *DB) Tags(title string) ([]Record, error) {
	if title != "" {
		titles, err := d.TagTitles()
		if err != nil {
			return nil, err
		}
		if err := validateEnum("title", title, titles); err != nil {
			return nil, err
		}
	}
	where := Fragment{SQL: "TRUE"}
	if title != "" {
		where = whereAll("TRUE", matchFilter("title", Is(title)))
	}
	query, args := tagsQuery(where)
	return d.execute(query, args...)
}

// TagTitles returns every tag title, in manual order.
func (d *DB) TagTitles() ([]string, error) {
	return d.executeStrings(tagTitlesQuery())
}

// TagsOfTask returns the tag titles attached to one task.
func (d *DB) TagsOfTask(taskUUID string) ([]string, error) {
	return d.executeStrings(tagsOfTaskQuery(), taskUUID)
}

// TagsOfArea returns the tag titles attached to one area.
func (d *DB) TagsOfArea(areaUUID string) ([]string, error) {
	return d.executeStrings(tagsOfAreaQuery(), areaUUID)
}

// ChecklistItems returns the checklist items of one task, in manual order.
func (d *DB) ChecklistItems(taskUUID string) ([]Record, error) {
	return d.execute(checklistQuery(), taskUUID)
}

// Convenience views mirroring the app's sidebar.

// Inbox returns incomplete to-dos in the Inbox.
func (d *DB) Inbox() ([]Record, error) {
	return d.Tasks(TaskQuery{
		Type: "to-do", Status: "incomplete", Start: "Inbox",
		Trashed: Bool(false), ContextTrashed: Bool(false),
	})
}

// Today returns incomplete tasks scheduled with a start date, in Today
// order.
func (d *DB) Today() ([]Record, error) {
	return d.Tasks(TaskQuery{
		Status: "incomplete", StartDate: DateExists(), Index: "todayIndex",
		Trashed: Bool(false), ContextTrashed: Bool(false),
	})
}

// Anytime returns incomplete to-dos in the Anytime bucket.
func (d *DB) Anytime() ([]Record, error) {
	return d.Tasks(TaskQuery{
		Type: "to-do", Status: "incomplete", Start: "Anytime",
		Trashed: Bool(false), ContextTrashed: Bool(false),
	})
}

// Someday returns incomplete to-dos in the Someday bucket.
func (d *DB) Someday() ([]Record, error) {
	return d.Tasks(TaskQuery{
		Type: "to-do", Status: "incomplete", Start: "Someday",
		Trashed: Bool(false), ContextTrashed: Bool(false),
	})
}

// Projects returns incomplete projects.
func (d *DB) Projects() ([]Record, error) {
	return d.Tasks(TaskQuery{
		Type: "project", Status: "incomplete",
		Trashed: Bool(false), ContextTrashed: Bool(false),
	})
}

// Completed returns completed tasks of any type.
func (d *DB) Completed() ([]Record, error) {
	return d.Tasks(TaskQuery{
		Status: "completed", Trashed: Bool(false), ContextTrashed: Bool(false),
	})
}

// Canceled returns canceled tasks of any type.
func (d *DB) Canceled() ([]Record, error) {
	return d.Tasks(TaskQuery{
		Status: "canceled", Trashed: Bool(false), ContextTrashed: Bool(false),
	})
}

// Trash returns trashed tasks of any type and status.
func (d *DB) Trash() ([]Record, error) {
	return d.Tasks(TaskQuery{Trashed: Bool(true)})
}
