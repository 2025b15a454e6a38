package things

import (
	"bytes"
	"database/sql"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Columns dropped from a Record entirely when NULL. These all represent
// optional relationships, so callers get variable-shaped records instead of
// uniformly NULL-padded ones.
var omitIfNull = map[string]bool{
	"area":          true,
	"area_title":    true,
	"checklist":     true,
	"heading":       true,
	"heading_title": true,
	"project":       true,
	"project_title": true,
	"trashed":       true,
	"tags":          true,
}

// Columns coerced from a truthy SQL value to a genuine bool.
var coerceToBool = map[string]bool{
	"checklist": true,
	"tags":      true,
	"trashed":   true,
}

// Record is an ordered mapping from column name to value. Iteration and
// marshaling order is the SQL column order, minus any omitted-if-absent
// columns.
type Record struct {
	columns []string
	values  map[string]any
}

func newRecord(capacity int) Record {
	return Record{values: make(map[string]any, capacity)}
}

func (r *Record) set(column string, value any) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value of a column and whether the column is present.
func (r Record) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// GetString returns the value of a column as a string, or "" if the column
// is absent or not text.
func (r Record) GetString(column string) string {
	s, _ := r.values[column].(string)
	return s
}

// Columns returns the column names in order.
func (r Record) Columns() []string { return r.columns }

// Len returns the number of present columns.
func (r Record) Len() int { return len(r.columns) }

// MarshalJSON writes the record as a JSON object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the record as a YAML mapping in column order.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range r.columns {
		var key, value yaml.Node
		key.SetString(col)
		if err := value.Encode(r.values[col]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

// truthy mirrors dynamic-language truthiness for the bool coercion set:
// NULL, 0 and "" count as false.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case int64:
		return value != 0
	case float64:
		return value != 0
	case bool:
		return value
	case string:
		return value != ""
	}
	return true
}

// scanRecords shapes query rows into Records using the statement's reported
// column order.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var records []Record
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := newRecord(len(columns))
		for i, col := range columns {
			value := raw[i]
			if value == nil && omitIfNull[col] {
				continue
			}
			if coerceToBool[col] && truthy(value) {
				value = true
			}
			record.set(col, value)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
