package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// datetimeLayout is the canonical format of datetime default values.
const datetimeLayout = "2006-01-02T15:04:05.000Z07:00"

// typeMap maps editor column types to SQL types of one database.
type typeMap map[string]string

func (m typeMap) sqlType(t string) string {
	if s, ok := m[t]; ok {
		return s
	}
	return m["string"]
}

// literals renders default values for one database.
type literals struct {
	True, False string
	Datetime    func(t time.Time) string
}

func (l literals) render(col ColumnSpec) string {
	switch col.Type {
	case "int", "float":
		return col.Default
	case "bool":
		if col.Default == "true" {
			return l.True
		}
		return l.False
	case "datetime":
		if t, err := time.Parse(datetimeLayout, col.Default); err == nil && l.Datetime != nil {
			return l.Datetime(t)
		}
	}
	return QuoteString(col.Default)
}

// QuoteString renders s as a single-quoted SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteWith wraps ident in open/close, doubling any embedded close rune.
func quoteWith(ident, open, close string) string {
	return open + strings.ReplaceAll(ident, close, close+close) + close
}

// columnDefinition renders `name TYPE [NOT NULL] [DEFAULT x] [UNIQUE]`.
// References are left to the caller since their placement differs.
func columnDefinition(q func(string) string, types typeMap, lit literals, col ColumnSpec, inlineUnique bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", q(col.Name), types.sqlType(col.Type))
	if col.Default != "" {
		fmt.Fprintf(&b, " DEFAULT %s", lit.render(col))
	}
	if col.NotNull {
		b.WriteString(" NOT NULL")
	}
	if col.Unique && inlineUnique {
		b.WriteString(" UNIQUE")
	}
	return b.String()
}

// references renders the inline foreign key clause of a link column.
func references(q func(string) string, col ColumnSpec) string {
	if col.RefTable == "" {
		return ""
	}
	return fmt.Sprintf(" REFERENCES %s (%s)", q(col.RefTable), q(IDColumn))
}

// DefaultNormalizeType maps a catalog type name to an editor column type.
// Unknown types are returned lower-cased.
func DefaultNormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "bool", "boolean", "bit":
		return "bool"
	case "int", "integer", "int2", "int4", "int8", "smallint", "bigint", "tinyint", "mediumint",
		"serial", "bigserial", "smallserial":
		return "int"
	case "float", "float4", "float8", "real", "double", "double precision", "numeric", "decimal",
		"money", "smallmoney", "binary_float", "binary_double":
		return "float"
	case "text", "ntext", "tinytext", "mediumtext", "longtext", "clob", "nclob":
		return "text"
	case "date", "datetime", "datetime2", "smalldatetime", "datetimeoffset":
		return "datetime"
	}
	switch {
	case strings.HasPrefix(t, "timestamp"):
		return "datetime"
	case strings.Contains(t, "char"), t == "uuid":
		return "string"
	}
	return t
}

// literalPrefixes may precede a quoted default: N'x', b'1', TIMESTAMP '...'.
var literalPrefixes = map[string]bool{"N": true, "B": true, "TIMESTAMP": true, "DATE": true}

// DefaultParseDefault extracts the literal of a catalog default expression
// such as 'anon'::character varying, ((0)) or N'x'. Expressions that are not
// a plain literal (functions, sequences, NULL) yield "".
func DefaultParseDefault(expr string) string {
	s := trimParens(expr)
	if i := strings.IndexByte(s, '\''); i > 0 && literalPrefixes[strings.ToUpper(strings.TrimSpace(s[:i]))] {
		s = s[i:]
	}
	if strings.HasPrefix(s, "'") {
		v, _ := unquote(s)
		return v
	}
	if i := strings.Index(s, "::"); i > 0 {
		s = trimParens(s[:i])
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s
	}
	switch strings.ToLower(s) {
	case "true", "false":
		return strings.ToLower(s)
	}
	return ""
}

func trimParens(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// unquote reads a single-quoted literal, optionally followed by a cast.
func unquote(s string) (string, bool) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		rest := strings.TrimSpace(s[i+1:])
		if rest == "" || strings.HasPrefix(rest, "::") {
			return b.String(), true
		}
		return "", false
	}
	return "", false
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}
