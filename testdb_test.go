package things

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// fixture builds a disposable database with the Things schema in a temp
// directory and seeds it row by row.
type fixture struct {
	t    *testing.T
	path string
	conn *sql.DB
}

const testSchema = `
CREATE TABLE Meta (key TEXT PRIMARY KEY, value BLOB);
CREATE TABLE TMSettings (
    uuid TEXT PRIMARY KEY,
    uriSchemeAuthenticationToken TEXT
);
CREATE TABLE TMTask (
    uuid TEXT PRIMARY KEY,
    type INTEGER NOT NULL DEFAULT 0,
    trashed INTEGER NOT NULL DEFAULT 0,
    title TEXT NOT NULL DEFAULT '',
    status INTEGER NOT NULL DEFAULT 0,
    area TEXT,
    project TEXT,
    heading TEXT,
    notes TEXT NOT NULL DEFAULT '',
    start INTEGER NOT NULL DEFAULT 0,
    startDate INTEGER,
    deadline INTEGER,
    deadlineSuppressionDate INTEGER,
    stopDate REAL,
    creationDate REAL,
    userModificationDate REAL,
    "index" INTEGER NOT NULL DEFAULT 0,
    todayIndex INTEGER NOT NULL DEFAULT 0,
    rt1_recurrenceRule BLOB
);
CREATE TABLE TMArea (
    uuid TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    "index" INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE TMTag (
    uuid TEXT PRIMARY KEY,
    title TEXT,
    shortcut TEXT,
    "index" INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE TMTaskTag (tasks TEXT NOT NULL, tags TEXT NOT NULL);
CREATE TABLE TMAreaTag (areas TEXT NOT NULL, tags TEXT NOT NULL);
CREATE TABLE TMChecklistItem (
    uuid TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    status INTEGER NOT NULL DEFAULT 0,
    stopDate REAL,
    creationDate REAL,
    userModificationDate REAL,
    task TEXT,
    "index" INTEGER NOT NULL DEFAULT 0
);
`

func versionPlist(version int) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0"><integer>%d</integer></plist>`, version)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureVersion(t, 24)
}

func newFixtureVersion(t *testing.T, version int) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.sqlite")
	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if _, err := conn.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	f := &fixture{t: t, path: path, conn: conn}
	f.exec("INSERT INTO Meta (key, value) VALUES ('databaseVersion', ?)", versionPlist(version))
	f.exec("INSERT INTO TMSettings (uuid, uriSchemeAuthenticationToken) VALUES (?, ?)",
		settingsUUID, "vKkylosuSuGwxrz7qcklOw")
	return f
}

func (f *fixture) exec(query string, args ...any) {
	f.t.Helper()
	if _, err := f.conn.Exec(query, args...); err != nil {
		f.t.Fatalf("fixture exec: %v\n%s", err, query)
	}
}

func (f *fixture) open() *DB {
	f.t.Helper()
	db, err := Open(f.path)
	if err != nil {
		f.t.Fatalf("open fixture database: %v", err)
	}
	return db
}

// testTask describes one TMTask row. Zero values produce an incomplete,
// untrashed to-do in the Inbox created just now.
type testTask struct {
	uuid      string
	typ       int
	title     string
	status    int
	trashed   bool
	area      string
	project   string
	heading   string
	notes     string
	start     int
	startDate any
	deadline  any
	stopDate  any
	created   time.Time
	index     int
	today     int
	recurring bool
}

func (f *fixture) addTask(tt testTask) {
	f.t.Helper()
	created := tt.created
	if created.IsZero() {
		created = time.Now()
	}
	trashed := 0
	if tt.trashed {
		trashed = 1
	}
	var rule any
	if tt.recurring {
		rule = "opaque-rule-blob"
	}
	f.exec(`INSERT INTO TMTask
    (uuid, type, trashed, title, status, area, project, heading, notes,
     start, startDate, deadline, stopDate, creationDate,
     userModificationDate, "index", todayIndex, rt1_recurrenceRule)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tt.uuid, tt.typ, trashed, tt.title, tt.status,
		nullable(tt.area), nullable(tt.project), nullable(tt.heading), tt.notes,
		tt.start, tt.startDate, tt.deadline, tt.stopDate,
		float64(created.Unix()), float64(created.Unix()),
		tt.index, tt.today, rule)
}

func (f *fixture) addArea(uuid, title string, index int) {
	f.t.Helper()
	f.exec(`INSERT INTO TMArea (uuid, title, "index") VALUES (?, ?, ?)`, uuid, title, index)
}

func (f *fixture) addTag(uuid, title, shortcut string, index int) {
	f.t.Helper()
	f.exec(`INSERT INTO TMTag (uuid, title, shortcut, "index") VALUES (?, ?, ?, ?)`,
		uuid, title, nullable(shortcut), index)
}

func (f *fixture) tagTask(taskUUID, tagUUID string) {
	f.t.Helper()
	f.exec("INSERT INTO TMTaskTag (tasks, tags) VALUES (?, ?)", taskUUID, tagUUID)
}

func (f *fixture) tagArea(areaUUID, tagUUID string) {
	f.t.Helper()
	f.exec("INSERT INTO TMAreaTag (areas, tags) VALUES (?, ?)", areaUUID, tagUUID)
}

func (f *fixture) addChecklistItem(uuid, taskUUID, title string, status, index int) {
	f.t.Helper()
	f.exec(`INSERT INTO TMChecklistItem
    (uuid, title, status, creationDate, userModificationDate, task, "index")
    VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid, title, status, float64(time.Now().Unix()), float64(time.Now().Unix()),
		taskUUID, index)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// packed is a test helper converting an ISO date to the packed integer,
// failing the test on malformed input.
func packed(t *testing.T, isodate string) int64 {
	t.Helper()
	v, err := EncodeDate(isodate)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
