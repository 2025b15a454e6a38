package things

import (
	"fmt"
	"time"
)

// Things stores two kinds of dates. Creation, modification and stop dates
// are REAL columns holding full UTC Unix timestamps. Start dates and
// deadlines carry no time of day, so the app packs them into a single
// INTEGER whose binary digits are
//
//	YYYYYYYYYYYMMMMDDDDD0000000
//
// an 11-bit year, a 4-bit month, a 5-bit day and 7 reserved zero bits.
// For example the ISO 8601 date "2021-03-28" packs to 132464128:
//
//	111111001010011111000000000
//	YYYYYYYYYYYMMMMDDDDD0000000
//	       2021   3   28
//
// The field widths bound the representable range to year 0-2047, month 1-12,
// day 1-31; this library never writes the encoding, so no overflow handling
// is needed beyond that bound.
const (
	yearMask  = 0b111111111110000000000000000
	monthMask = 0b000000000001111000000000000
	dayMask   = 0b000000000000000111110000000
)

// EncodeDate packs an ISO 8601 calendar date ("YYYY-MM-DD") into the Things
// date integer. Returns a *ValidationError if the string is not a valid
// calendar date.
func EncodeDate(isodate string) (int64, error) {
	t, err := time.Parse("2006-01-02", isodate)
	if err != nil {
		return 0, &ValidationError{Parameter: "date", Value: isodate, Allowed: []string{"YYYY-MM-DD"}}
	}
	return int64(t.Year())<<16 | int64(t.Month())<<12 | int64(t.Day())<<7, nil
}

// DecodeDate unpacks a Things date integer back into "YYYY-MM-DD".
// DecodeDate(EncodeDate(d)) == d for every date the packing can represent.
func DecodeDate(packed int64) string {
	year := (packed & yearMask) >> 16
	month := (packed & monthMask) >> 12
	day := (packed & dayMask) >> 7
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// thingsDateToISO returns a SQL expression converting expr, a packed Things
// date, to ISO text inside the query. A NULL (or otherwise falsy) source
// value passes through unchanged so it cannot be mistaken for a zero date.
func thingsDateToISO(expr string) string {
	year := fmt.Sprintf("(%s & %d) >> 16", expr, int64(yearMask))
	month := fmt.Sprintf("(%s & %d) >> 12", expr, int64(monthMask))
	day := fmt.Sprintf("(%s & %d) >> 7", expr, int64(dayMask))
	iso := fmt.Sprintf("printf('%%d-%%02d-%%02d', %s, %s, %s)", year, month, day)
	return fmt.Sprintf("CASE WHEN %s THEN %s ELSE %s END", expr, iso, expr)
}

// isoToThingsDate returns a SQL expression packing expr, which evaluates to
// an ISO 8601 date string, into a Things date integer. When nullPossible is
// true the expression preserves NULL-in/NULL-out semantics.
func isoToThingsDate(expr string, nullPossible bool) string {
	year := fmt.Sprintf("strftime('%%Y', %s) << 16", expr)
	month := fmt.Sprintf("strftime('%%m', %s) << 12", expr)
	day := fmt.Sprintf("strftime('%%d', %s) << 7", expr)
	packed := fmt.Sprintf("((%s) | (%s) | (%s))", year, month, day)
	if nullPossible {
		return fmt.Sprintf("CASE WHEN %s THEN %s ELSE %s END", expr, packed, expr)
	}
	return packed
}
