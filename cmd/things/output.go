package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	things "github.com/thingsapi/things-go"
	"github.com/thingsapi/things-go/internal/ui"
)

// tableColumns is the fixed column set for table output. JSON and YAML carry
// every column a record has; the table keeps the ones that fit a terminal.
var tableColumns = []string{"uuid", "type", "title", "status", "start", "start_date", "deadline"}

// printRecords writes records in the configured output format.
func printRecords(records []things.Record) error {
	switch format := viper.GetString("format"); format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "table":
		printTable(records)
		return nil
	default:
		return fmt.Errorf("unrecognized format %q (valid formats: table, json, yaml)", format)
	}
}

// printRecord writes a single record; table format switches to a two-column
// field/value layout showing every column.
func printRecord(record things.Record) error {
	if viper.GetString("format") != "table" {
		return printRecords([]things.Record{record})
	}
	rows := make([][]string, 0, record.Len())
	for _, column := range record.Columns() {
		value, _ := record.Get(column)
		rows = append(rows, []string{column, cell(value)})
	}
	if !ui.Interactive() {
		printPlain([]string{"FIELD", "VALUE"}, rows)
		return nil
	}
	fmt.Println(ui.Table([]string{"FIELD", "VALUE"}, rows))
	return nil
}

func printTable(records []things.Record) {
	if len(records) == 0 {
		fmt.Println(ui.Warn("no results"))
		return
	}
	columns := presentColumns(records)
	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(columns))
		for j, column := range columns {
			value, _ := record.Get(column)
			row[j] = cell(value)
		}
		rows[i] = row
	}
	if !ui.Interactive() {
		printPlain(columns, rows)
		return
	}
	headers := make([]string, len(columns))
	for i, column := range columns {
		headers[i] = ui.Accent(column)
	}
	fmt.Println(ui.Table(headers, rows))
	fmt.Println(ui.Muted(fmt.Sprintf("%d result(s)", len(records))))
}

// printPlain writes tab-aligned rows without borders or a result footer, so
// piped output stays grep-friendly.
func printPlain(columns []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// presentColumns narrows the fixed table column set to the columns the
// result actually carries, so area and tag listings don't render padding.
// Variable-shaped task records keep the full set.
func presentColumns(records []things.Record) []string {
	present := make(map[string]bool)
	for _, record := range records {
		for _, column := range record.Columns() {
			present[column] = true
		}
	}
	var columns []string
	for _, column := range tableColumns {
		if present[column] {
			columns = append(columns, column)
		}
	}
	if len(columns) == 0 {
		return records[0].Columns()
	}
	return columns
}

// printStrings writes a flat string list in the configured format.
func printStrings(values []string) error {
	switch format := viper.GetString("format"); format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case "yaml":
		data, err := yaml.Marshal(values)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		for _, v := range values {
			fmt.Println(v)
		}
		return nil
	}
}

func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []things.Record:
		return fmt.Sprintf("%d item(s)", len(v))
	}
	return fmt.Sprintf("%v", value)
}
