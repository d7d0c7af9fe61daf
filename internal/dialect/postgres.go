package dialect

import (
	"fmt"
	"strings"
	"time"
)

type PostgresDialect struct{}

var postgresTypes = typeMap{
	"string":   "VARCHAR(255)",
	"int":      "BIGINT",
	"float":    "DOUBLE PRECISION",
	"bool":     "BOOLEAN",
	"text":     "TEXT",
	"multiple": "TEXT",
	"link":     "VARCHAR(255)",
	"email":    "VARCHAR(320)",
	"datetime": "TIMESTAMPTZ(3)",
}

var postgresLiterals = literals{
	True:  "TRUE",
	False: "FALSE",
	Datetime: func(t time.Time) string {
		return QuoteString(t.Format(datetimeLayout))
	},
}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = $1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// Subqueries fetch PRIMARY KEY and UNIQUE constraints per column.
	return `SELECT
    c.table_name,
    c.column_name,
    c.data_type,
    c.udt_name,
    c.character_maximum_length,
    c.is_nullable,
    (SELECT 'PRI' FROM information_schema.table_constraints tc
     JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name
     WHERE tc.constraint_type = 'PRIMARY KEY'
     AND kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name AND kcu.column_name = c.column_name LIMIT 1) AS COLUMN_KEY,
    c.column_default,
    (SELECT 'UNIQUE' FROM information_schema.table_constraints tc
     JOIN information_schema.key_column_usage kcu ON tc.constraint_name = kcu.constraint_name
     WHERE tc.constraint_type = 'UNIQUE'
     AND kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name AND kcu.column_name = c.column_name LIMIT 1) AS IS_UNIQUE,
    NULL AS COMMENT
FROM information_schema.columns c
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT kcu.table_name, kcu.constraint_name, kcu.column_name, ccu.table_name AS referenced_table_name, ccu.column_name AS referenced_column_name FROM information_schema.key_column_usage kcu JOIN information_schema.constraint_column_usage ccu ON kcu.constraint_name = ccu.constraint_name JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name WHERE kcu.table_schema = $1 AND tc.constraint_type = 'FOREIGN KEY'`
}

func (d *PostgresDialect) CreateTableQuery(table string) string {
	return fmt.Sprintf("CREATE TABLE %s (%s %s PRIMARY KEY)", d.Quote(table), d.Quote(IDColumn), postgresTypes["link"])
}

func (d *PostgresDialect) RenameTableQuery(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.Quote(from), d.Quote(to))
}

func (d *PostgresDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s CASCADE", d.Quote(table))
}

func (d *PostgresDialect) AddColumnQuery(table string, col ColumnSpec) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s%s", d.Quote(table),
		columnDefinition(d.Quote, postgresTypes, postgresLiterals, col, true), references(d.Quote, col))
}

func (d *PostgresDialect) RenameColumnQuery(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", d.Quote(table), d.Quote(from), d.Quote(to))
}

func (d *PostgresDialect) DropColumnQuery(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.Quote(table), d.Quote(column))
}

func (d *PostgresDialect) Quote(ident string) string {
	return quoteWith(ident, `"`, `"`)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "bpchar", "character":
		return "string"
	default:
		return DefaultNormalizeType(t)
	}
}

func (d *PostgresDialect) ParseDefault(expr string) string {
	return DefaultParseDefault(expr)
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
