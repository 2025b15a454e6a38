package things

import (
	"fmt"
	"strings"
)

// Schema names for the Things database. This library targets the schema of
// Things 3.15.16 and later (database version 22+), which renamed a number of
// columns from earlier formats (dueDate -> deadline, actionGroup -> heading).
const (
	tableArea          = "TMArea"
	tableAreaTag       = "TMAreaTag"
	tableChecklistItem = "TMChecklistItem"
	tableMeta          = "Meta"
	tableSettings      = "TMSettings"
	tableTag           = "TMTag"
	tableTask          = "TMTask"
	tableTaskTag       = "TMTaskTag"
)

// Date columns. The first three, contrary to their names, store full UTC
// Unix timestamps; startDate and deadline store packed Things dates.
const (
	colCreated  = "creationDate"
	colModified = "userModificationDate"
	colStop     = "stopDate"
	colStart    = "startDate"
	colDeadline = "deadline"
)

// Recurring template rows never show up as visible tasks; every task query
// excludes them by construction.
const isNotRecurring = "rt1_recurrenceRule IS NULL"

// Enum filter tables translating app language to database language.
var (
	typeFilters = map[string]string{
		"to-do":   "type = 0",
		"project": "type = 1",
		"heading": "type = 2",
	}
	statusFilters = map[string]string{
		"incomplete": "status = 0",
		"canceled":   "status = 2",
		"completed":  "status = 3",
	}
	startFilters = map[string]string{
		"Inbox":   "start = 0",
		"Anytime": "start = 1",
		"Someday": "start = 2",
	}
)

// Recognized values, in display order for error messages.
var (
	validTypes    = []string{"to-do", "project", "heading"}
	validStatuses = []string{"incomplete", "canceled", "completed"}
	validStarts   = []string{"Inbox", "Anytime", "Someday"}
	validIndexes  = []string{"index", "todayIndex"}
)

// whereAll concatenates a base predicate with any number of filter
// fragments, preserving their bound arguments in order.
func whereAll(base string, frags ...Fragment) Fragment {
	var b strings.Builder
	b.WriteString(base)
	var args []any
	for _, f := range frags {
		if f.isEmpty() {
			continue
		}
		b.WriteString("\n    ")
		b.WriteString(f.SQL)
		args = append(args, f.Args...)
	}
	return Fragment{SQL: b.String(), Args: args}
}

// tasksQuery assembles the canonical task query: one row per visible task,
// left-joining the task table against itself (parent project, parent
// heading, and the project of that heading), the area, tags, and checklist
// items. Start dates and deadlines are decoded from the packed format inside
// the query; instant columns are rendered as local-time display strings.
//
// The first two date() projections deliberately carry no "localtime"
// modifier: packed dates have no time of day to shift.
func tasksQuery(where Fragment, order string) (string, []any) {
	if where.isEmpty() {
		where.SQL = "TRUE"
	}
	if order == "" {
		order = `TASK."index"`
	}
	startDateExpr := thingsDateToISO("TASK." + colStart)
	deadlineExpr := thingsDateToISO("TASK." + colDeadline)

	query := fmt.Sprintf(`
SELECT DISTINCT
    TASK.uuid,
    CASE
        WHEN TASK.%[1]s THEN 'to-do'
        WHEN TASK.%[2]s THEN 'project'
        WHEN TASK.%[3]s THEN 'heading'
    END AS type,
    CASE
        WHEN TASK.trashed = 1 THEN 1
    END AS trashed,
    TASK.title,
    CASE
        WHEN TASK.%[4]s THEN 'incomplete'
        WHEN TASK.%[5]s THEN 'canceled'
        WHEN TASK.%[6]s THEN 'completed'
    END AS status,
    CASE
        WHEN AREA.uuid IS NOT NULL THEN AREA.uuid
    END AS area,
    CASE
        WHEN AREA.uuid IS NOT NULL THEN AREA.title
    END AS area_title,
    CASE
        WHEN PROJECT.uuid IS NOT NULL THEN PROJECT.uuid
    END AS project,
    CASE
        WHEN PROJECT.uuid IS NOT NULL THEN PROJECT.title
    END AS project_title,
    CASE
        WHEN HEADING.uuid IS NOT NULL THEN HEADING.uuid
    END AS heading,
    CASE
        WHEN HEADING.uuid IS NOT NULL THEN HEADING.title
    END AS heading_title,
    TASK.notes,
    CASE
        WHEN TAG.uuid IS NOT NULL THEN 1
    END AS tags,
    CASE
        WHEN TASK.%[7]s THEN 'Inbox'
        WHEN TASK.%[8]s THEN 'Anytime'
        WHEN TASK.%[9]s THEN 'Someday'
    END AS start,
    CASE
        WHEN CHECKLIST_ITEM.uuid IS NOT NULL THEN 1
    END AS checklist,
    date(%[10]s) AS start_date,
    date(%[11]s) AS deadline,
    datetime(TASK.%[12]s, 'unixepoch', 'localtime') AS stop_date,
    datetime(TASK.%[13]s, 'unixepoch', 'localtime') AS created,
    datetime(TASK.%[14]s, 'unixepoch', 'localtime') AS modified,
    TASK."index" AS "index",
    TASK.todayIndex AS today_index
FROM
    %[15]s AS TASK
LEFT OUTER JOIN
    %[15]s PROJECT ON TASK.project = PROJECT.uuid
LEFT OUTER JOIN
    %[16]s AREA ON TASK.area = AREA.uuid
LEFT OUTER JOIN
    %[15]s HEADING ON TASK.heading = HEADING.uuid
LEFT OUTER JOIN
    %[15]s PROJECT_OF_HEADING
    ON HEADING.project = PROJECT_OF_HEADING.uuid
LEFT OUTER JOIN
    %[17]s TAGS ON TASK.uuid = TAGS.tasks
LEFT OUTER JOIN
    %[18]s TAG ON TAGS.tags = TAG.uuid
LEFT OUTER JOIN
    %[19]s CHECKLIST_ITEM
    ON TASK.uuid = CHECKLIST_ITEM.task
WHERE
    %[20]s
ORDER BY
    %[21]s`,
		typeFilters["to-do"],
		typeFilters["project"],
		typeFilters["heading"],
		statusFilters["incomplete"],
		statusFilters["canceled"],
		statusFilters["completed"],
		startFilters["Inbox"],
		startFilters["Anytime"],
		startFilters["Someday"],
		startDateExpr,
		deadlineExpr,
		colStop,
		colCreated,
		colModified,
		tableTask,
		tableArea,
		tableTaskTag,
		tableTag,
		tableChecklistItem,
		where.SQL,
		order,
	)
	return query, where.Args
}

// areasQuery assembles the canonical area query: one row per area matching
// the optional tag/uuid filters, with a derived has-tags flag.
func areasQuery(where Fragment) (string, []any) {
	if where.isEmpty() {
		where.SQL = "TRUE"
	}
	query := fmt.Sprintf(`
SELECT DISTINCT
    AREA.uuid,
    'area' AS type,
    AREA.title,
    CASE
        WHEN AREA_TAG.areas IS NOT NULL THEN 1
    END AS tags
FROM
    %s AS AREA
LEFT OUTER JOIN
    %s AREA_TAG ON AREA_TAG.areas = AREA.uuid
LEFT OUTER JOIN
    %s TAG ON TAG.uuid = AREA_TAG.tags
WHERE
    %s
ORDER BY AREA."index"`,
		tableArea, tableAreaTag, tableTag, where.SQL)
	return query, where.Args
}

// checklistQuery returns the checklist items of one task, in manual order.
func checklistQuery() string {
	return fmt.Sprintf(`
SELECT
    CHECKLIST_ITEM.title,
    CASE
        WHEN CHECKLIST_ITEM.%[1]s THEN 'incomplete'
        WHEN CHECKLIST_ITEM.%[2]s THEN 'canceled'
        WHEN CHECKLIST_ITEM.%[3]s THEN 'completed'
    END AS status,
    date(CHECKLIST_ITEM.stopDate, 'unixepoch', 'localtime') AS stop_date,
    'checklist-item' AS type,
    CHECKLIST_ITEM.uuid,
    datetime(CHECKLIST_ITEM.%[4]s, 'unixepoch', 'localtime') AS created,
    datetime(CHECKLIST_ITEM.%[4]s, 'unixepoch', 'localtime') AS modified
FROM
    %[5]s AS CHECKLIST_ITEM
WHERE
    CHECKLIST_ITEM.task = ?
ORDER BY CHECKLIST_ITEM."index"`,
		statusFilters["incomplete"],
		statusFilters["canceled"],
		statusFilters["completed"],
		colModified,
		tableChecklistItem)
}

// tagsQuery returns full tag rows filtered by the optional title.
func tagsQuery(where Fragment) (string, []any) {
	if where.isEmpty() {
		where.SQL = "TRUE"
	}
	query := fmt.Sprintf(`
SELECT
    uuid, 'tag' AS type, title, shortcut
FROM
    %s
WHERE
    %s
ORDER BY "index"`, tableTag, where.SQL)
	return query, where.Args
}

func tagTitlesQuery() string {
	return fmt.Sprintf(`SELECT title FROM %s ORDER BY "index"`, tableTag)
}

func tagsOfTaskQuery() string {
	return fmt.Sprintf(`
SELECT
    TAG.title
FROM
    %s AS TASK_TAG
LEFT OUTER JOIN
    %s TAG ON TAG.uuid = TASK_TAG.tags
WHERE
    TASK_TAG.tasks = ?
ORDER BY TAG."index"`, tableTaskTag, tableTag)
}

func tagsOfAreaQuery() string {
	return fmt.Sprintf(`
SELECT
    TAG.title
FROM
    %s AS AREA_TAG
LEFT OUTER JOIN
    %s TAG ON TAG.uuid = AREA_TAG.tags
WHERE
    AREA_TAG.areas = ?
ORDER BY TAG."index"`, tableAreaTag, tableTag)
}

func versionQuery() string {
	return fmt.Sprintf("SELECT value FROM %s WHERE key = 'databaseVersion'", tableMeta)
}

// settingsUUID is the fixed row holding app-wide settings.
const settingsUUID = "RhAzEf6qDxCD5PmnZVtBZR"

func authTokenQuery() string {
	return fmt.Sprintf("SELECT uriSchemeAuthenticationToken FROM %s WHERE uuid = ?", tableSettings)
}

// countQuery wraps an assembled query so that count and full-result queries
// can never diverge in their filtering logic.
func countQuery(inner string) string {
	return "SELECT COUNT(uuid) FROM (\n" + inner + "\n)"
}
