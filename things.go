package things

import (
	"database/sql"
	"errors"
	"log"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"howett.net/plist"
)

// minimumSchemaVersion is the newest database version this library does NOT
// support. Things 3.15.16 migrated the database to version 22; older formats
// need an older release of this tool.
const minimumSchemaVersion = 21

// DB is a handle to a Things database file. It holds no open connection:
// every query opens, uses and closes its own read-only connection, so the
// externally managed file may be rewritten between calls and each result
// reflects the state at call time.
type DB struct {
	path       string
	logger     *log.Logger
	queryCount int
}

// Option configures a DB handle.
type Option func(*DB)

// WithLogger enables SQL debug logging. Every executed query and its bound
// parameters are written to the given logger.
func WithLogger(logger *log.Logger) Option {
	return func(d *DB) { d.logger = logger }
}

// Open creates a handle for the database at path and verifies that its
// schema version is recent enough. The path must already be resolved (see
// ResolvePath); Open does not consult the environment.
//
// Returns a *SchemaError for old-format databases and a *DatabaseError if
// the file cannot be opened or read.
func Open(path string, opts ...Option) (*DB, error) {
	d := &DB{path: path}
	for _, opt := range opts {
		opt(d)
	}
	version, err := d.Version()
	if err != nil {
		return nil, err
	}
	if version <= minimumSchemaVersion {
		return nil, &SchemaError{Version: version, Minimum: minimumSchemaVersion + 1}
	}
	return d, nil
}

// Path returns the database file path this handle reads.
func (d *DB) Path() string { return d.path }

// Version reads the database schema version from the Meta table. The value
// is stored as a property-list-encoded integer.
func (d *DB) Version() (int, error) {
	values, err := d.executeStrings(versionQuery())
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, &DatabaseError{Path: d.path, Err: errors.New("missing databaseVersion meta key")}
	}
	var version int
	if _, err := plist.Unmarshal([]byte(values[0]), &version); err != nil {
		return 0, &DatabaseError{Path: d.path, Err: err}
	}
	return version, nil
}

// AuthToken returns the Things URL scheme authentication token.
func (d *DB) AuthToken() (string, error) {
	values, err := d.executeStrings(authTokenQuery(), settingsUUID)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", &NotFoundError{Kind: "settings", UUID: settingsUUID}
	}
	return values[0], nil
}

// connect opens a fresh read-only connection. "mode=ro" keeps SQLite from
// ever writing, and tolerates an app writing concurrently with compatible
// locking.
func (d *DB) connect() (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", "file:"+d.path+"?mode=ro")
	if err != nil {
		return nil, &DatabaseError{Path: d.path, Err: err}
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, &DatabaseError{Path: d.path, Err: err}
	}
	return conn, nil
}

func (d *DB) logQuery(query string, args []any) {
	if d.logger == nil {
		return
	}
	d.queryCount++
	if len(args) > 0 {
		d.logger.Printf("query %d (args %v):\n%s\n", d.queryCount, args, query)
	} else {
		d.logger.Printf("query %d:\n%s\n", d.queryCount, query)
	}
}

// execute runs one parameterized statement and shapes the rows into Records.
func (d *DB) execute(query string, args ...any) ([]Record, error) {
	conn, err := d.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	d.logQuery(query, args)
	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, &DatabaseError{Path: d.path, Err: err}
	}
	defer rows.Close()
	records, err := scanRecords(rows)
	if err != nil {
		return nil, &DatabaseError{Path: d.path, Err: err}
	}
	return records, nil
}

// executeStrings runs a single-column query and returns a flat list.
func (d *DB) executeStrings(query string, args ...any) ([]string, error) {
	conn, err := d.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	d.logQuery(query, args)
	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, &DatabaseError{Path: d.path, Err: err}
	}
	defer rows.Close()
	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, &DatabaseError{Path: d.path, Err: err}
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, &DatabaseError{Path: d.path, Err: err}
	}
	return values, nil
}

// executeCount wraps an assembled query in COUNT and returns the total.
func (d *DB) executeCount(query string, args ...any) (int, error) {
	conn, err := d.connect()
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	wrapped := countQuery(query)
	d.logQuery(wrapped, args)
	var count int
	if err := conn.QueryRow(wrapped, args...).Scan(&count); err != nil {
		return 0, &DatabaseError{Path: d.path, Err: err}
	}
	return count, nil
}
