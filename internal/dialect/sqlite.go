package dialect

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite Driver
)

// SQLiteDialect introspects through the pragma table-valued functions. The
// schema argument is only bound to keep the shared query signature.
type SQLiteDialect struct{}

var sqliteTypes = typeMap{
	"string":   "VARCHAR(255)",
	"int":      "INTEGER",
	"float":    "REAL",
	"bool":     "BOOLEAN",
	"text":     "TEXT",
	"multiple": "TEXT",
	"link":     "VARCHAR(255)",
	"email":    "VARCHAR(320)",
	"datetime": "DATETIME",
}

var sqliteLiterals = literals{True: "1", False: "0"}

func (d *SQLiteDialect) GetTablesQuery(schema string) string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND ? IS NOT NULL ORDER BY name`
}

func (d *SQLiteDialect) GetColumnsQuery(schema string) string {
	// Only single-column unique indexes make a column unique.
	return `SELECT
    m.name,
    p.name,
    p.type,
    p.type,
    NULL,
    CASE WHEN p."notnull" = 0 THEN 'YES' ELSE 'NO' END,
    CASE WHEN p.pk > 0 THEN 'PRI' ELSE '' END,
    p.dflt_value,
    CASE WHEN EXISTS (
        SELECT 1 FROM pragma_index_list(m.name) il
        JOIN pragma_index_info(il.name) ii
        WHERE il."unique" = 1 AND il.origin <> 'pk' AND ii.name = p.name
        AND (SELECT COUNT(*) FROM pragma_index_info(il.name)) = 1
    ) THEN 'UNIQUE' ELSE '' END,
    NULL
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, p.cid`
}

func (d *SQLiteDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT m.name, 'fk_' || f.id, f."from", f."table", f."to"
FROM sqlite_master m
JOIN pragma_foreign_key_list(m.name) f
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL`
}

func (d *SQLiteDialect) CreateTableQuery(table string) string {
	return fmt.Sprintf("CREATE TABLE %s (%s %s PRIMARY KEY)", d.Quote(table), d.Quote(IDColumn), sqliteTypes["link"])
}

func (d *SQLiteDialect) RenameTableQuery(from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", d.Quote(from), d.Quote(to))
}

func (d *SQLiteDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", d.Quote(table))
}

// AddColumnQuery emits a separate unique index: SQLite cannot add a column
// with a UNIQUE constraint.
func (d *SQLiteDialect) AddColumnQuery(table string, col ColumnSpec) string {
	q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s%s", d.Quote(table),
		columnDefinition(d.Quote, sqliteTypes, sqliteLiterals, col, false), references(d.Quote, col))
	if col.Unique {
		q += fmt.Sprintf("; CREATE UNIQUE INDEX %s ON %s (%s)", d.Quote(uniqueIndexName(table, col.Name)), d.Quote(table), d.Quote(col.Name))
	}
	return q
}

func (d *SQLiteDialect) RenameColumnQuery(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", d.Quote(table), d.Quote(from), d.Quote(to))
}

// DropColumnQuery drops the unique index AddColumnQuery may have created,
// since SQLite refuses to drop indexed columns.
func (d *SQLiteDialect) DropColumnQuery(table, column string) string {
	return fmt.Sprintf("DROP INDEX IF EXISTS %s; ALTER TABLE %s DROP COLUMN %s",
		d.Quote(uniqueIndexName(table, column)), d.Quote(table), d.Quote(column))
}

func (d *SQLiteDialect) Quote(ident string) string {
	return quoteWith(ident, `"`, `"`)
}

func (d *SQLiteDialect) NormalizeType(sqlType string) string {
	if strings.TrimSpace(sqlType) == "" {
		// Untyped columns have BLOB affinity.
		return "blob"
	}
	return DefaultNormalizeType(sqlType)
}

func (d *SQLiteDialect) ParseDefault(expr string) string {
	return DefaultParseDefault(expr)
}

func (d *SQLiteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

func uniqueIndexName(table, column string) string {
	return table + "_" + column + "_key"
}
