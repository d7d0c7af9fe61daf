package dialect

import (
	"fmt"
	"strings"
	"time"
)

type OracleDialect struct{}

var oracleTypes = typeMap{
	"string":   "VARCHAR2(255)",
	"int":      "NUMBER(19)",
	"float":    "BINARY_DOUBLE",
	"bool":     "NUMBER(1)",
	"text":     "CLOB",
	"multiple": "CLOB",
	"link":     "VARCHAR2(255)",
	"email":    "VARCHAR2(320)",
	"datetime": "TIMESTAMP(3)",
}

var oracleLiterals = literals{
	True:  "1",
	False: "0",
	Datetime: func(t time.Time) string {
		return "TIMESTAMP " + QuoteString(t.UTC().Format("2006-01-02 15:04:05.000"))
	},
}

func (d *OracleDialect) GetTablesQuery(schema string) string {
	// Oracle doesn't have a "schema" string concept in quite the same way for current user tables.
	// USER_TABLES lists tables owned by the current user.
	// We include a dummy clause to consume the schema argument if passed by standard callers.
	return `SELECT TABLE_NAME FROM USER_TABLES WHERE :1 IS NOT NULL`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	// Retrieves column information for the current user's tables.
	// We join with USER_CONS_COLUMNS to identify Primary Keys (P) and Unique (U) constraints.
	// We also fetch comments from USER_COL_COMMENTS.
	return `
SELECT
    t.TABLE_NAME,
    t.COLUMN_NAME,
    CASE
        WHEN t.DATA_TYPE = 'NUMBER' AND COALESCE(t.DATA_SCALE, 0) > 0 THEN 'DECIMAL'
        WHEN t.DATA_TYPE = 'NUMBER' THEN 'INTEGER'
        ELSE t.DATA_TYPE
    END,
    t.DATA_TYPE || CASE WHEN t.DATA_LENGTH IS NOT NULL THEN '(' || t.DATA_LENGTH || ')' ELSE '' END,
    COALESCE(t.DATA_PRECISION, t.DATA_LENGTH),
    t.NULLABLE,
    CASE WHEN p.CONSTRAINT_NAME IS NOT NULL THEN 'PRI' ELSE '' END,
    t.DATA_DEFAULT,
    CASE WHEN u.CONSTRAINT_NAME IS NOT NULL THEN 'UNIQUE' ELSE '' END,
    c.COMMENTS
FROM USER_TAB_COLUMNS t
LEFT JOIN (
    SELECT cc.TABLE_NAME, cc.COLUMN_NAME, cc.CONSTRAINT_NAME
    FROM USER_CONS_COLUMNS cc
    JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
    WHERE uc.CONSTRAINT_TYPE = 'P'
) p ON t.TABLE_NAME = p.TABLE_NAME AND t.COLUMN_NAME = p.COLUMN_NAME
LEFT JOIN (
    SELECT cc.TABLE_NAME, cc.COLUMN_NAME, cc.CONSTRAINT_NAME
    FROM USER_CONS_COLUMNS cc
    JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
    WHERE uc.CONSTRAINT_TYPE = 'U'
) u ON t.TABLE_NAME = u.TABLE_NAME AND t.COLUMN_NAME = u.COLUMN_NAME
LEFT JOIN USER_COL_COMMENTS c ON t.TABLE_NAME = c.TABLE_NAME AND t.COLUMN_NAME = c.COLUMN_NAME
WHERE :1 IS NOT NULL
ORDER BY t.TABLE_NAME, t.COLUMN_ID`
}

func (d *OracleDialect) GetForeignKeysQuery(schema string) string {
	return `
SELECT
    c.TABLE_NAME,
    c.CONSTRAINT_NAME,
    cc.COLUMN_NAME,
    r.TABLE_NAME AS REF_TABLE,
    rcc.COLUMN_NAME AS REF_COLUMN
FROM USER_CONSTRAINTS c
JOIN USER_CONS_COLUMNS cc
    ON c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
    AND c.OWNER = cc.OWNER
JOIN USER_CONSTRAINTS r
    ON c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME
    AND c.R_OWNER = r.OWNER
JOIN USER_CONS_COLUMNS rcc
    ON r.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME
    AND r.OWNER = rcc.OWNER
    AND cc.POSITION = rcc.POSITION
WHERE c.CONSTRAINT_TYPE = 'R'
AND :1 IS NOT NULL`
}

func (d *OracleDialect) CreateTableQuery(table string) string {
	return fmt.Sprintf("CREATE TABLE %s (%s %s PRIMARY KEY)", d.Quote(table), d.Quote(IDColumn), oracleTypes["link"])
}

func (d *OracleDialect) RenameTableQuery(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.Quote(from), d.Quote(to))
}

func (d *OracleDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s CASCADE CONSTRAINTS", d.Quote(table))
}

func (d *OracleDialect) AddColumnQuery(table string, col ColumnSpec) string {
	return fmt.Sprintf("ALTER TABLE %s ADD (%s%s)", d.Quote(table),
		columnDefinition(d.Quote, oracleTypes, oracleLiterals, col, true), references(d.Quote, col))
}

func (d *OracleDialect) RenameColumnQuery(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", d.Quote(table), d.Quote(from), d.Quote(to))
}

func (d *OracleDialect) DropColumnQuery(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.Quote(table), d.Quote(column))
}

func (d *OracleDialect) Quote(ident string) string {
	return quoteWith(ident, `"`, `"`)
}

// NormalizeType expects the column query to have already split NUMBER into
// INTEGER and DECIMAL.
func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	switch {
	case strings.HasPrefix(s, "varchar2"), strings.HasPrefix(s, "nvarchar2"):
		return "string"
	case s == "long":
		return "text"
	}
	return DefaultNormalizeType(s)
}

// GetSchemaName only feeds the bind placeholder: Oracle introspects the
// tables of the connected user, and treats an empty string as NULL.
func (d *OracleDialect) ParseDefault(expr string) string {
	return DefaultParseDefault(expr)
}

func (d *OracleDialect) GetSchemaName(input string) string {
	if input == "" {
		return "USER"
	}
	return input
}
