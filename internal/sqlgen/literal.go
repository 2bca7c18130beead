package sqlgen

import (
	"strconv"
	"strings"

	"csv2sql/internal/infer"
	"csv2sql/internal/table"
)

// Literal renders one cell as a SQL literal under the column's type tag.
//
// The function is total: every (value, tag) pair produces a string, and an
// unrecognized tag falls back to the VARCHAR rule. Null markers render as the
// bare NULL keyword regardless of tag.
func Literal(v table.Value, tag infer.TypeTag) string {
	if v.Null {
		return "NULL"
	}

	switch tag {
	case infer.Integer, infer.Bigint:
		return integerLiteral(v.Raw)
	case infer.Float:
		return floatLiteral(v.Raw)
	case infer.Boolean:
		return booleanLiteral(v.Raw)
	case infer.Timestamp:
		return timestampLiteral(v.Raw)
	case infer.Varchar, infer.Date:
		return quotedLiteral(v.Raw)
	default:
		return quotedLiteral(v.Raw)
	}
}

// quotedLiteral doubles every single quote and wraps the result in single
// quotes. Unescaping the doubled quotes and stripping the outer quotes
// reproduces the original string exactly.
func quotedLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// timestampLiteral wraps the raw text in single quotes WITHOUT doubling inner
// quotes. This asymmetry with quotedLiteral is inherited behavior: the
// original generator never escaped timestamp text, and the output is kept
// bit-compatible. Do not "fix" this here without changing the documented
// output contract.
func timestampLiteral(s string) string {
	return "'" + s + "'"
}

// integerLiteral renders the canonical decimal form of an integer value
// ("+5" and "007" become "5" and "7"). Values that no longer parse are
// emitted as-is; the formatter never fails.
func integerLiteral(s string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return s
	}
	return strconv.FormatInt(n, 10)
}

// floatLiteral renders the canonical decimal form of a numeric value.
func floatLiteral(s string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// booleanLiteral maps truthy values to TRUE and everything else to FALSE,
// unquoted.
func booleanLiteral(s string) string {
	if b, ok := infer.ParseBoolLoose(s); ok && b {
		return "TRUE"
	}
	return "FALSE"
}
