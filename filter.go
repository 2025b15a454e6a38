package things

import (
	"fmt"
	"strings"
)

// Fragment is one piece of a boolean WHERE expression together with its
// bound arguments. A non-empty fragment always begins with "AND " so that
// fragments can be concatenated freely; the zero Fragment means
// "no constraint". Caller-supplied values always travel as bound parameters,
// never interpolated text; raw SQL is reserved for structural pieces
// (column and table names, enum filter tables, date expressions).
type Fragment struct {
	SQL  string
	Args []any
}

func (f Fragment) isEmpty() bool { return f.SQL == "" }

// Cond is a tri-state match condition for optional relationship columns.
// The zero Cond applies no constraint; Exists and Missing test whether the
// column is set; Is matches an exact value.
type Cond struct {
	kind  condKind
	value string
}

type condKind uint8

const (
	condAny condKind = iota
	condExists
	condMissing
	condEquals
)

// Exists matches rows where the column is not NULL.
func Exists() Cond { return Cond{kind: condExists} }

// Missing matches rows where the column is NULL.
func Missing() Cond { return Cond{kind: condMissing} }

// Is matches rows where the column equals value.
func Is(value string) Cond { return Cond{kind: condEquals, value: value} }

// DateCond is a match condition for date-valued columns. The zero DateCond
// applies no constraint. Date matches a concrete calendar day (>= by
// default, == when the query's Exact flag is set); Future and Past compare
// against "now".
type DateCond struct {
	kind dateKind
	date string
}

type dateKind uint8

const (
	dateAny dateKind = iota
	dateExists
	dateMissing
	dateFuture
	datePast
	dateOn
)

// DateExists matches rows where the date column is set.
func DateExists() DateCond { return DateCond{kind: dateExists} }

// DateMissing matches rows where the date column is not set.
func DateMissing() DateCond { return DateCond{kind: dateMissing} }

// Future matches rows whose date lies strictly after today.
func Future() DateCond { return DateCond{kind: dateFuture} }

// Past matches rows whose date lies on or before today.
func Past() DateCond { return DateCond{kind: datePast} }

// Date matches rows against a concrete ISO 8601 calendar date.
func Date(isodate string) DateCond { return DateCond{kind: dateOn, date: isodate} }

// Bool returns a pointer to v, for the *bool query fields.
func Bool(v bool) *bool { return &v }

// matchFilter builds the standard equality/nullness filter for a column.
func matchFilter(column string, c Cond) Fragment {
	switch c.kind {
	case condExists:
		return Fragment{SQL: "AND " + column + " IS NOT NULL"}
	case condMissing:
		return Fragment{SQL: "AND " + column + " IS NULL"}
	case condEquals:
		return Fragment{SQL: "AND " + column + " = ?", Args: []any{c.value}}
	}
	return Fragment{}
}

// truthyFilter matches a column in the three-valued sense: NULL and 0 both
// count as false. Used for context-trash checks, where a task's container
// may have no row at all on the joined side.
func truthyFilter(column string, v *bool) Fragment {
	if v == nil {
		return Fragment{}
	}
	if *v {
		return Fragment{SQL: "AND " + column}
	}
	return Fragment{SQL: "AND NOT IFNULL(" + column + ", 0)"}
}

// contextTrashedFilter matches on whether a task's containing project, or
// the project of its containing heading, is trashed. A task has at most one
// container, so the positive case is an OR across the two joins while the
// negative case requires both to be untrashed.
func contextTrashedFilter(v *bool) Fragment {
	if v == nil {
		return Fragment{}
	}
	project := truthyFilter("PROJECT.trashed", v)
	heading := truthyFilter("PROJECT_OF_HEADING.trashed", v)
	if *v {
		return orFilter(project, heading)
	}
	return Fragment{SQL: project.SQL + "\n    " + heading.SQL}
}

// trashedFilter filters on a task's own trashed flag. The flag is a plain
// 0/1 column, unlike the joined-container checks handled by truthyFilter.
func trashedFilter(column string, v *bool) Fragment {
	if v == nil {
		return Fragment{}
	}
	if *v {
		return Fragment{SQL: "AND " + column + " = 1"}
	}
	return Fragment{SQL: "AND " + column + " = 0"}
}

// enumFilter appends a filter from one of the enum tables in query.go.
// An empty value applies no constraint; values are validated upstream.
func enumFilter(prefix string, table map[string]string, value string) Fragment {
	if value == "" {
		return Fragment{}
	}
	return Fragment{SQL: "AND " + prefix + table[value]}
}

// orFilter joins filters with OR: it strips the leading connective off each
// non-empty fragment, joins the remainder, and re-wraps the result with a
// single leading connective and parentheses.
func orFilter(frags ...Fragment) Fragment {
	var parts []string
	var args []any
	for _, f := range frags {
		if f.isEmpty() {
			continue
		}
		parts = append(parts, strings.TrimPrefix(f.SQL, "AND "))
		args = append(args, f.Args...)
	}
	if len(parts) == 0 {
		return Fragment{}
	}
	return Fragment{SQL: "AND (" + strings.Join(parts, " OR ") + ")", Args: args}
}

// searchFilter matches a free-text query as a substring of the task title,
// task notes, or joined area title. An empty query applies no constraint.
func searchFilter(query string) Fragment {
	if query == "" {
		return Fragment{}
	}
	pattern := "%" + query + "%"
	columns := []string{"TASK.title", "TASK.notes", "AREA.title"}
	sub := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		sub[i] = col + " LIKE ?"
		args[i] = pattern
	}
	return Fragment{SQL: "AND (" + strings.Join(sub, " OR ") + ")", Args: args}
}

// thingsDateFilter builds a comparison on a packed Things date column.
// Concrete dates compare against the packed integer; Future and Past compare
// against the packed encoding of today's local date.
func thingsDateFilter(column string, c DateCond, exact bool) (Fragment, error) {
	switch c.kind {
	case dateAny:
		return Fragment{}, nil
	case dateExists:
		return Fragment{SQL: "AND " + column + " IS NOT NULL"}, nil
	case dateMissing:
		return Fragment{SQL: "AND " + column + " IS NULL"}, nil
	case dateFuture:
		today := isoToThingsDate("date('now', 'localtime')", false)
		return Fragment{SQL: fmt.Sprintf("AND %s > (%s)", column, today)}, nil
	case datePast:
		today := isoToThingsDate("date('now', 'localtime')", false)
		return Fragment{SQL: fmt.Sprintf("AND %s <= (%s)", column, today)}, nil
	}
	packed, err := EncodeDate(c.date)
	if err != nil {
		return Fragment{}, err
	}
	cmp := ">="
	if exact {
		cmp = "="
	}
	return Fragment{SQL: fmt.Sprintf("AND %s %s ?", column, cmp), Args: []any{packed}}, nil
}

// unixTimeFilter builds a comparison on a UTC-instant column via SQLite's
// own date conversion rather than the packed codec.
func unixTimeFilter(column string, c DateCond, exact bool) (Fragment, error) {
	switch c.kind {
	case dateAny:
		return Fragment{}, nil
	case dateExists:
		return Fragment{SQL: "AND " + column + " IS NOT NULL"}, nil
	case dateMissing:
		return Fragment{SQL: "AND " + column + " IS NULL"}, nil
	case dateFuture:
		return Fragment{SQL: fmt.Sprintf("AND date(%s, 'unixepoch') > date('now', 'localtime')", column)}, nil
	case datePast:
		return Fragment{SQL: fmt.Sprintf("AND date(%s, 'unixepoch') <= date('now', 'localtime')", column)}, nil
	}
	if _, err := EncodeDate(c.date); err != nil {
		return Fragment{}, err
	}
	cmp := ">="
	if exact {
		cmp = "="
	}
	return Fragment{SQL: fmt.Sprintf("AND date(%s, 'unixepoch') %s date(?)", column, cmp), Args: []any{c.date}}, nil
}

// unixTimeRangeFilter limits a UTC-instant column to the last N days, weeks,
// or years. Weeks multiply out to days; years use the calendar arithmetic of
// SQLite's datetime modifiers, so "1y" is one year, not 365 days.
func unixTimeRangeFilter(column, offset string) (Fragment, error) {
	if offset == "" {
		return Fragment{}, nil
	}
	number, unit, err := parseOffset("last", offset)
	if err != nil {
		return Fragment{}, err
	}
	var modifier string
	switch unit {
	case 'd':
		modifier = fmt.Sprintf("-%d days", number)
	case 'w':
		modifier = fmt.Sprintf("-%d days", number*7)
	case 'y':
		modifier = fmt.Sprintf("-%d years", number)
	}
	return Fragment{
		SQL:  fmt.Sprintf("AND datetime(%s, 'unixepoch') > datetime('now', ?)", column),
		Args: []any{modifier},
	}, nil
}
