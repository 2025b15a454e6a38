// Package things provides read-only access to the SQLite database of the
// Things task manager (culturedcode.com/things).
//
// The database is owned and written exclusively by the Things app; this
// package only reads it. Every query opens its own read-only connection, so
// results always reflect the database state at call time and concurrent
// writes by the app are tolerated.
//
// Basic usage:
//
//	db, err := things.Open(things.ResolvePath(""))
//	if err != nil {
//	    return err
//	}
//	inbox, err := db.Inbox()
//
// Query results are returned as ordered Records (column name to value in SQL
// column order). Columns for optional relationships (area, project, heading,
// tags, checklist, trashed) are omitted from a Record when NULL rather than
// padded, and derived flag columns are coerced to bool.
package things
