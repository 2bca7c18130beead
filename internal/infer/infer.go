// Package infer assigns one SQL type tag per column from its observed values.
//
// Inference is best-effort and must never fail: any column that does not match
// a more specific type falls through to VARCHAR. Tags are computed once per
// column from its full value set and never revisited per row.
package infer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"csv2sql/internal/table"
)

// TypeTag is the single inferred SQL type classification assigned to an
// entire column.
type TypeTag int

const (
	Varchar TypeTag = iota
	Integer
	Bigint
	Float
	Boolean
	Timestamp
	Date
)

// String returns the SQL spelling of the tag.
func (t TypeTag) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Bigint:
		return "BIGINT"
	case Float:
		return "FLOAT"
	case Boolean:
		return "BOOLEAN"
	case Timestamp:
		return "TIMESTAMP"
	case Date:
		return "DATE"
	default:
		return "VARCHAR"
	}
}

// Signed 32-bit bounds, inclusive on both ends. Columns of integers that stay
// inside this range are INTEGER; anything beyond is BIGINT.
const (
	intMin = int64(-2147483648)
	intMax = int64(2147483647)
)

// Infer assigns a type tag to a column.
//
// The branches are evaluated in priority order; the order is a contract
// (integer before float, numeric before date) and must not be rearranged:
//
//  1. every value null                       -> VARCHAR
//  2. every non-null value an integer        -> INTEGER or BIGINT (32-bit range)
//  3. every non-null value numeric           -> FLOAT
//  4. every non-null value a timestamp       -> TIMESTAMP
//  5. every non-null value a boolean         -> BOOLEAN
//  6. a date shape in the first 10 values    -> DATE
//  7. otherwise                              -> VARCHAR
//
// Infer never returns an error; unrecognized content is VARCHAR.
func Infer(col table.Column) TypeTag {
	nonNull := col.NonNull()
	if len(nonNull) == 0 {
		return Varchar
	}

	allInt := true
	allFloat := true
	allTS := true
	allBool := true

	var minInt, maxInt int64
	for i, v := range nonNull {
		s := v.Raw
		if allInt {
			n, ok := ParseIntLoose(s)
			if !ok {
				allInt = false
			} else {
				if i == 0 || n < minInt {
					minInt = n
				}
				if i == 0 || n > maxInt {
					maxInt = n
				}
			}
		}
		if allFloat {
			if _, ok := ParseFloatLoose(s); !ok {
				allFloat = false
			}
		}
		if allTS {
			if _, ok := ParseTimestampLoose(s); !ok {
				allTS = false
			}
		}
		if allBool {
			if _, ok := ParseBoolLoose(s); !ok {
				allBool = false
			}
		}
	}

	switch {
	case allInt:
		if minInt >= intMin && maxInt <= intMax {
			return Integer
		}
		return Bigint
	case allFloat:
		return Float
	case allTS:
		return Timestamp
	case allBool:
		return Boolean
	case looksLikeDateColumn(nonNull):
		return Date
	default:
		return Varchar
	}
}

// InferAll tags every column of a table, aligned with t.Columns().
func InferAll(t *table.Table) []TypeTag {
	out := make([]TypeTag, t.ColumnCount())
	for i := range out {
		out[i] = Infer(t.Column(i))
	}
	return out
}

// dateSampleSize bounds the DATE heuristic to the head of the column. Values
// past the sample are never inspected, so a column whose sample happens to be
// date-shaped is tagged DATE even if later values are not.
const dateSampleSize = 10

var (
	dateISO = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	dateMDY = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	dateDMY = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)
)

// MatchesISODate reports whether s contains a YYYY-MM-DD shaped substring.
// Matching is deliberately unanchored; this is a heuristic, not a validator.
func MatchesISODate(s string) bool { return dateISO.MatchString(s) }

// MatchesSlashDate reports whether s contains an MM/DD/YYYY shaped substring.
func MatchesSlashDate(s string) bool { return dateMDY.MatchString(s) }

// MatchesDashDate reports whether s contains an MM-DD-YYYY shaped substring.
func MatchesDashDate(s string) bool { return dateDMY.MatchString(s) }

// looksLikeDateColumn samples up to the first dateSampleSize non-null values
// and reports whether any of them matches one of the fixed date shapes.
func looksLikeDateColumn(nonNull []table.Value) bool {
	n := len(nonNull)
	if n > dateSampleSize {
		n = dateSampleSize
	}
	for _, v := range nonNull[:n] {
		s := v.Raw
		if MatchesISODate(s) || MatchesSlashDate(s) || MatchesDashDate(s) {
			return true
		}
	}
	return false
}

// ParseIntLoose parses a whitespace-tolerant base-10 integer with no
// fractional part or exponent.
func ParseIntLoose(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

// ParseFloatLoose parses any decimal number, including fractional parts and
// exponents.
func ParseFloatLoose(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// ParseBoolLoose parses common truthy/falsy encodings. It is case-insensitive
// and whitespace-tolerant; ambiguous values are rejected.
func ParseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y":
		return true, true
	case "0", "f", "false", "no", "n":
		return false, true
	default:
		return false, false
	}
}

var tsLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"02.01.2006 15:04:05",
}

// ParseTimestampLoose recognizes date/time instants in a small fixed set of
// layouts. Inference depends on it, so the layout list must stay deterministic.
func ParseTimestampLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, lay := range tsLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
