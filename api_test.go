package things

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// seed builds the shared dataset most API tests run against:
//
//	Work (area)
//	  Website (project)
//	    Launch (heading)
//	      Write copy (to-do, scheduled 2021-03-28, deadline 2099-01-01)
//	Home (area, tagged Urgent)
//	Buy milk (to-do, Inbox, tagged Errand, one checklist item)
//	Old chore (to-do, completed 2023-05-04, created ten days ago)
//	Trashed todo (to-do, trashed)
//	Dead project (project, trashed)
//	  Orphan child (to-do, untrashed, inside the trashed project)
//	Water plants (to-do, scheduled 2024-06-01)
//	plus one recurring template that must never surface
func seed(t *testing.T) (*fixture, *DB) {
	t.Helper()
	f := newFixture(t)

	f.addArea("area-work", "Work", 1)
	f.addArea("area-home", "Home", 2)
	f.addTag("tag-errand", "Errand", "", 1)
	f.addTag("tag-urgent", "Urgent", "u", 2)
	f.tagArea("area-home", "tag-urgent")

	f.addTask(testTask{uuid: "proj-website", typ: 1, title: "Website", area: "area-work", start: 1, index: 1})
	f.addTask(testTask{uuid: "head-launch", typ: 2, title: "Launch", project: "proj-website", start: 1, index: 2})
	f.addTask(testTask{
		uuid: "todo-copy", title: "Write copy", heading: "head-launch", start: 1,
		startDate: packed(t, "2021-03-28"), deadline: packed(t, "2099-01-01"),
		index: 3, today: 2,
	})
	f.addTask(testTask{uuid: "todo-milk", title: "Buy milk", notes: "from the store", index: 4})
	f.tagTask("todo-milk", "tag-errand")
	f.addChecklistItem("check-oat", "todo-milk", "Check oat milk price", 0, 1)
	f.addTask(testTask{
		uuid: "todo-chore", title: "Old chore", status: 3, start: 1,
		stopDate: float64(time.Date(2023, 5, 4, 12, 0, 0, 0, time.UTC).Unix()),
		created:  time.Now().AddDate(0, 0, -10),
		index:    5,
	})
	f.addTask(testTask{uuid: "todo-trashed", title: "Trashed todo", trashed: true, index: 6})
	f.addTask(testTask{uuid: "proj-dead", typ: 1, title: "Dead project", trashed: true, start: 1, index: 7})
	f.addTask(testTask{uuid: "todo-orphan", title: "Orphan child", project: "proj-dead", start: 1, index: 8})
	f.addTask(testTask{
		uuid: "todo-plants", title: "Water plants", start: 1,
		startDate: packed(t, "2024-06-01"), index: 9, today: 1,
	})
	f.addTask(testTask{uuid: "recurring-template", title: "Weekly review", start: 1, recurring: true, index: 10})

	return f, f.open()
}

func uuids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.GetString("uuid")
	}
	return out
}

func TestTasksExcludeRecurringTemplates(t *testing.T) {
	_, db := seed(t)
	records, err := db.Tasks(TaskQuery{})
	if err != nil {
		t.Fatal(err)
	}
	for _, uuid := range uuids(records) {
		if uuid == "recurring-template" {
			t.Fatal("recurring template surfaced as a task")
		}
	}
	if len(records) != 9 {
		t.Errorf("unfiltered task count = %d, want 9", len(records))
	}
}

func TestInbox(t *testing.T) {
	_, db := seed(t)
	records, err := db.Inbox()
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-milk"}) {
		t.Errorf("Inbox() = %v", got)
	}
}

func TestTodayOrdersByTodayIndex(t *testing.T) {
	_, db := seed(t)
	records, err := db.Today()
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-plants", "todo-copy"}) {
		t.Errorf("Today() = %v", got)
	}
}

func TestProjectFilterMatchesThroughHeading(t *testing.T) {
	_, db := seed(t)
	records, err := db.Tasks(TaskQuery{Project: Is("proj-website"), Trashed: Bool(false)})
	if err != nil {
		t.Fatal(err)
	}
	// The heading belongs to the project directly; the to-do belongs to it
	// through its heading.
	if got := uuids(records); !reflect.DeepEqual(got, []string{"head-launch", "todo-copy"}) {
		t.Errorf("project tasks = %v", got)
	}
}

func TestContextTrashed(t *testing.T) {
	_, db := seed(t)

	unconstrained, err := db.Tasks(TaskQuery{UUID: "", Trashed: Bool(false), Type: "to-do"})
	if err != nil {
		t.Fatal(err)
	}
	if !contains(uuids(unconstrained), "todo-orphan") {
		t.Error("nil ContextTrashed should include tasks inside trashed containers")
	}

	visible, err := db.Tasks(TaskQuery{Trashed: Bool(false), ContextTrashed: Bool(false), Type: "to-do"})
	if err != nil {
		t.Fatal(err)
	}
	if contains(uuids(visible), "todo-orphan") {
		t.Error("ContextTrashed=false should hide tasks inside trashed containers")
	}

	hidden, err := db.Tasks(TaskQuery{Trashed: Bool(false), ContextTrashed: Bool(true)})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(hidden); !reflect.DeepEqual(got, []string{"todo-orphan"}) {
		t.Errorf("ContextTrashed=true = %v", got)
	}
}

func TestTrash(t *testing.T) {
	_, db := seed(t)
	records, err := db.Trash()
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-trashed", "proj-dead"}) {
		t.Errorf("Trash() = %v", got)
	}
}

func TestTagFilter(t *testing.T) {
	_, db := seed(t)
	records, err := db.Tasks(TaskQuery{Tag: "Errand"})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-milk"}) {
		t.Errorf("tagged tasks = %v", got)
	}

	_, err = db.Tasks(TaskQuery{Tag: "Nope"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("unknown tag error = %T (%v), want *ValidationError", err, err)
	}
	if verr.Parameter != "tag" {
		t.Errorf("Parameter = %q, want tag", verr.Parameter)
	}
}

func TestTagValidationReadsLiveTagTable(t *testing.T) {
	f, db := seed(t)

	f.addTag("tag-soon", "Soon", "", 3)
	f.tagTask("todo-plants", "tag-soon")

	records, err := db.Tasks(TaskQuery{Tag: "Soon"})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-plants"}) {
		t.Fatalf("Tasks(Soon) = %v", got)
	}

	// Dropping the tag invalidates the same query on the next call.
	f.exec("DELETE FROM TMTaskTag WHERE tags = 'tag-soon'")
	f.exec("DELETE FROM TMTag WHERE uuid = 'tag-soon'")

	_, err = db.Tasks(TaskQuery{Tag: "Soon"})
	var verr2 *ValidationError
	if !errors.As(err, &verr2) {
		t.Fatalf("deleted tag error = %T (%v), want *ValidationError", err, err)
	}
	if verr2.Parameter != "tag" {
		t.Errorf("Parameter = %q, want tag", verr2.Parameter)
	}
}

func TestSearch(t *testing.T) {
	_, db := seed(t)
	for _, query := range []string{"milk", "store"} {
		records, err := db.Tasks(TaskQuery{Search: query})
		if err != nil {
			t.Fatal(err)
		}
		if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-milk"}) {
			t.Errorf("Search %q = %v", query, got)
		}
	}
}

func TestStartDateFilters(t *testing.T) {
	_, db := seed(t)

	exact, err := db.Tasks(TaskQuery{StartDate: Date("2021-03-28"), Exact: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(exact); !reflect.DeepEqual(got, []string{"todo-copy"}) {
		t.Errorf("exact start date = %v", got)
	}

	onwards, err := db.Tasks(TaskQuery{StartDate: Date("2021-03-28")})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(onwards); !reflect.DeepEqual(got, []string{"todo-copy", "todo-plants"}) {
		t.Errorf("start date onwards = %v", got)
	}

	missing, err := db.Tasks(TaskQuery{StartDate: DateMissing(), Type: "to-do", Trashed: Bool(false), ContextTrashed: Bool(false)})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(missing); !reflect.DeepEqual(got, []string{"todo-milk", "todo-chore"}) {
		t.Errorf("unscheduled to-dos = %v", got)
	}
}

func TestDeadlineFuture(t *testing.T) {
	_, db := seed(t)
	records, err := db.Tasks(TaskQuery{Deadline: Future()})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-copy"}) {
		t.Errorf("future deadlines = %v", got)
	}
}

func TestStopDateExact(t *testing.T) {
	_, db := seed(t)
	records, err := db.Tasks(TaskQuery{StopDate: Date("2023-05-04"), Exact: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"todo-chore"}) {
		t.Errorf("stopped on day = %v", got)
	}
}

func TestLast(t *testing.T) {
	_, db := seed(t)
	records, err := db.Tasks(TaskQuery{Last: "3d", Type: "to-do"})
	if err != nil {
		t.Fatal(err)
	}
	got := uuids(records)
	if contains(got, "todo-chore") {
		t.Error("Last=3d included a task created ten days ago")
	}
	if !contains(got, "todo-milk") {
		t.Error("Last=3d dropped a freshly created task")
	}

	_, err = db.Tasks(TaskQuery{Last: "3x"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("bad offset error = %T (%v), want *ValidationError", err, err)
	}
}

func TestCountMatchesLen(t *testing.T) {
	_, db := seed(t)
	queries := []TaskQuery{
		{},
		{Type: "to-do"},
		{Status: "completed"},
		{Trashed: Bool(false), ContextTrashed: Bool(false)},
		{Tag: "Errand"},
		{Project: Is("proj-website")},
		{Search: "milk"},
	}
	for _, q := range queries {
		records, err := db.Tasks(q)
		if err != nil {
			t.Fatal(err)
		}
		count, err := db.CountTasks(q)
		if err != nil {
			t.Fatal(err)
		}
		if count != len(records) {
			t.Errorf("query %+v: count %d != len %d", q, count, len(records))
		}
	}
}

func TestTaskLookup(t *testing.T) {
	_, db := seed(t)
	record, err := db.Task("todo-milk")
	if err != nil {
		t.Fatal(err)
	}
	if record.GetString("title") != "Buy milk" {
		t.Errorf("title = %q", record.GetString("title"))
	}

	_, err = db.Task("no-such-uuid")
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("error = %T (%v), want *NotFoundError", err, err)
	}
	if nerr.Kind != "task" || nerr.UUID != "no-such-uuid" {
		t.Errorf("NotFoundError = %+v", nerr)
	}
}

func TestRecordShaping(t *testing.T) {
	_, db := seed(t)

	milk, err := db.Task("todo-milk")
	if err != nil {
		t.Fatal(err)
	}
	for column, want := range map[string]any{
		"type":      "to-do",
		"status":    "incomplete",
		"start":     "Inbox",
		"tags":      true,
		"checklist": true,
	} {
		if got, _ := milk.Get(column); got != want {
			t.Errorf("milk[%s] = %#v, want %#v", column, got, want)
		}
	}
	for _, absent := range []string{"project", "project_title", "heading", "area", "trashed"} {
		if _, ok := milk.Get(absent); ok {
			t.Errorf("milk should omit NULL column %q", absent)
		}
	}

	copy, err := db.Task("todo-copy")
	if err != nil {
		t.Fatal(err)
	}
	if got := copy.GetString("start_date"); got != "2021-03-28" {
		t.Errorf("start_date = %q", got)
	}
	if got := copy.GetString("deadline"); got != "2099-01-01" {
		t.Errorf("deadline = %q", got)
	}
	if got := copy.GetString("heading_title"); got != "Launch" {
		t.Errorf("heading_title = %q", got)
	}
	if _, ok := copy.Get("project"); ok {
		t.Error("a task under a heading has no direct project")
	}

	trashed, err := db.Task("todo-trashed")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := trashed.Get("trashed"); got != true {
		t.Errorf("trashed = %#v, want true", got)
	}
}

func TestIncludeItems(t *testing.T) {
	_, db := seed(t)
	records, err := db.Tasks(TaskQuery{
		UUID: "", Type: "project", Status: "incomplete",
		Trashed: Bool(false), ContextTrashed: Bool(false), IncludeItems: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].GetString("uuid") != "proj-website" {
		t.Fatalf("projects = %v", uuids(records))
	}

	itemsValue, ok := records[0].Get("items")
	if !ok {
		t.Fatal("project record has no items column")
	}
	items := itemsValue.([]Record)
	// To-dos sort before headings inside a project.
	if got := uuids(items); !reflect.DeepEqual(got, []string{"todo-copy", "head-launch"}) {
		t.Fatalf("project items = %v", got)
	}

	headingItems, ok := items[1].Get("items")
	if !ok {
		t.Fatal("heading record has no items column")
	}
	if got := uuids(headingItems.([]Record)); !reflect.DeepEqual(got, []string{"todo-copy"}) {
		t.Errorf("heading items = %v", got)
	}
}

func TestAreas(t *testing.T) {
	_, db := seed(t)

	all, err := db.Areas(AreaQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(all); !reflect.DeepEqual(got, []string{"area-work", "area-home"}) {
		t.Fatalf("Areas() = %v", got)
	}
	if _, ok := all[0].Get("tags"); ok {
		t.Error("untagged area should omit the tags column")
	}
	if got, _ := all[1].Get("tags"); got != true {
		t.Errorf("tagged area tags = %#v, want true", got)
	}

	tagged, err := db.Areas(AreaQuery{Tag: "Urgent"})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(tagged); !reflect.DeepEqual(got, []string{"area-home"}) {
		t.Errorf("Areas(Urgent) = %v", got)
	}

	count, err := db.CountAreas(AreaQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("CountAreas = %d", count)
	}

	area, err := db.Area("area-work")
	if err != nil {
		t.Fatal(err)
	}
	if area.GetString("title") != "Work" {
		t.Errorf("area title = %q", area.GetString("title"))
	}

	_, err = db.Area("no-such-area")
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Errorf("error = %T (%v), want *NotFoundError", err, err)
	}
}

func TestAreasIncludeItems(t *testing.T) {
	_, db := seed(t)
	records, err := db.Areas(AreaQuery{IncludeItems: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(records); !reflect.DeepEqual(got, []string{"area-work", "area-home"}) {
		t.Fatalf("Areas() = %v", got)
	}

	itemsValue, ok := records[0].Get("items")
	if !ok {
		t.Fatal("area record has no items column")
	}
	items := itemsValue.([]Record)
	if got := uuids(items); !reflect.DeepEqual(got, []string{"proj-website"}) {
		t.Fatalf("area items = %v", got)
	}

	// The nested project carries its own contents in turn.
	projectItems, ok := items[0].Get("items")
	if !ok {
		t.Fatal("nested project record has no items column")
	}
	if got := uuids(projectItems.([]Record)); !reflect.DeepEqual(got, []string{"todo-copy", "head-launch"}) {
		t.Errorf("nested project items = %v", got)
	}

	emptyValue, ok := records[1].Get("items")
	if !ok {
		t.Fatal("empty area record has no items column")
	}
	if got := len(emptyValue.([]Record)); got != 0 {
		t.Errorf("empty area items = %d, want 0", got)
	}
}

func TestTags(t *testing.T) {
	_, db := seed(t)

	all, err := db.Tags("")
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(all); !reflect.DeepEqual(got, []string{"tag-errand", "tag-urgent"}) {
		t.Fatalf("Tags() = %v", got)
	}
	if got := all[1].GetString("shortcut"); got != "u" {
		t.Errorf("shortcut = %q", got)
	}

	one, err := db.Tags("Errand")
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].GetString("title") != "Errand" {
		t.Errorf("Tags(Errand) = %v", uuids(one))
	}

	_, err = db.Tags("Nope")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T (%v), want *ValidationError", err, err)
	}

	titles, err := db.TagTitles()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(titles, []string{"Errand", "Urgent"}) {
		t.Errorf("TagTitles() = %v", titles)
	}

	taskTags, err := db.TagsOfTask("todo-milk")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(taskTags, []string{"Errand"}) {
		t.Errorf("TagsOfTask = %v", taskTags)
	}

	areaTags, err := db.TagsOfArea("area-home")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(areaTags, []string{"Urgent"}) {
		t.Errorf("TagsOfArea = %v", areaTags)
	}
}

func TestChecklistItems(t *testing.T) {
	_, db := seed(t)
	items, err := db.ChecklistItems("todo-milk")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("checklist items = %d, want 1", len(items))
	}
	item := items[0]
	if item.GetString("title") != "Check oat milk price" {
		t.Errorf("title = %q", item.GetString("title"))
	}
	if item.GetString("status") != "incomplete" {
		t.Errorf("status = %q", item.GetString("status"))
	}
	if item.GetString("type") != "checklist-item" {
		t.Errorf("type = %q", item.GetString("type"))
	}
}

func TestConvenienceStatusViews(t *testing.T) {
	_, db := seed(t)

	completed, err := db.Completed()
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(completed); !reflect.DeepEqual(got, []string{"todo-chore"}) {
		t.Errorf("Completed() = %v", got)
	}

	canceled, err := db.Canceled()
	if err != nil {
		t.Fatal(err)
	}
	if len(canceled) != 0 {
		t.Errorf("Canceled() = %v", uuids(canceled))
	}

	projects, err := db.Projects()
	if err != nil {
		t.Fatal(err)
	}
	if got := uuids(projects); !reflect.DeepEqual(got, []string{"proj-website"}) {
		t.Errorf("Projects() = %v", got)
	}
}

func TestQueryValidation(t *testing.T) {
	tests := []struct {
		name      string
		query     TaskQuery
		parameter string
	}{
		{name: "bad type", query: TaskQuery{Type: "task"}, parameter: "type"},
		{name: "bad status", query: TaskQuery{Status: "done"}, parameter: "status"},
		{name: "bad start", query: TaskQuery{Start: "Tomorrow"}, parameter: "start"},
		{name: "bad index", query: TaskQuery{Index: "priority"}, parameter: "index"},
		{name: "bad last", query: TaskQuery{Last: "soon"}, parameter: "last"},
		{name: "bad start date", query: TaskQuery{StartDate: Date("someday")}, parameter: "date"},
	}
	db := &DB{path: "unused"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := db.buildTasksQuery(tt.query)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %T (%v), want *ValidationError", err, err)
			}
			if verr.Parameter != tt.parameter {
				t.Errorf("Parameter = %q, want %q", verr.Parameter, tt.parameter)
			}
		})
	}
}

func TestNormalizeStart(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"inbox":   "Inbox",
		"ANYTIME": "Anytime",
		"Someday": "Someday",
	}
	for in, want := range tests {
		if got := normalizeStart(in); got != want {
			t.Errorf("normalizeStart(%q) = %q, want %q", in, got, want)
		}
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
