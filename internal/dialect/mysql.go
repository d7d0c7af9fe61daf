package dialect

import (
	"fmt"
	"strings"
	"time"
)

type MysqlDialect struct{}

var mysqlTypes = typeMap{
	"string":   "VARCHAR(255)",
	"int":      "BIGINT",
	"float":    "DOUBLE",
	"bool":     "BIT(1)",
	"text":     "TEXT",
	"multiple": "TEXT",
	"link":     "VARCHAR(255)",
	"email":    "VARCHAR(320)",
	"datetime": "DATETIME(3)",
}

var mysqlLiterals = literals{
	True:  "1",
	False: "0",
	Datetime: func(t time.Time) string {
		return QuoteString(t.UTC().Format("2006-01-02 15:04:05.000"))
	},
}

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, CHARACTER_MAXIMUM_LENGTH, IS_NULLABLE, COLUMN_KEY, COLUMN_DEFAULT, IF(COLUMN_KEY='UNI', 'UNIQUE', NULL) AS IS_UNIQUE, COLUMN_COMMENT FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL`
}

func (d *MysqlDialect) CreateTableQuery(table string) string {
	return fmt.Sprintf("CREATE TABLE %s (%s %s PRIMARY KEY)", d.Quote(table), d.Quote(IDColumn), mysqlTypes["link"])
}

func (d *MysqlDialect) RenameTableQuery(from, to string) string {
	return fmt.Sprintf("RENAME TABLE %s TO %s", d.Quote(from), d.Quote(to))
}

func (d *MysqlDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", d.Quote(table))
}

// AddColumnQuery adds the foreign key as a table constraint: InnoDB ignores
// inline REFERENCES clauses.
func (d *MysqlDialect) AddColumnQuery(table string, col ColumnSpec) string {
	q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Quote(table),
		columnDefinition(d.Quote, mysqlTypes, mysqlLiterals, col, true))
	if col.RefTable != "" {
		q += fmt.Sprintf(", ADD FOREIGN KEY (%s) REFERENCES %s (%s)", d.Quote(col.Name), d.Quote(col.RefTable), d.Quote(IDColumn))
	}
	return q
}

func (d *MysqlDialect) RenameColumnQuery(table, from, to string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", d.Quote(table), d.Quote(from), d.Quote(to))
}

func (d *MysqlDialect) DropColumnQuery(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", d.Quote(table), d.Quote(column))
}

func (d *MysqlDialect) Quote(ident string) string {
	return quoteWith(ident, "`", "`")
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

// ParseDefault handles COLUMN_DEFAULT, which MySQL reports unquoted.
// Expression defaults such as CURRENT_TIMESTAMP(3) yield "".
func (d *MysqlDialect) ParseDefault(expr string) string {
	if v := DefaultParseDefault(expr); v != "" || strings.HasPrefix(strings.TrimSpace(expr), "'") {
		return v
	}
	if strings.ContainsAny(expr, "()") || strings.HasPrefix(strings.ToUpper(expr), "CURRENT_") {
		return ""
	}
	return expr
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
