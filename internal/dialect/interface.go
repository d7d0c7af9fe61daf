package dialect

// Dialect abstracts database-specific catalog queries and DDL.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery(schema string) string
	GetColumnsQuery(schema string) string
	GetForeignKeysQuery(schema string) string

	// DDL (one statement per remote schema operation)
	CreateTableQuery(table string) string
	RenameTableQuery(from, to string) string
	DropTableQuery(table string) string
	AddColumnQuery(table string, col ColumnSpec) string
	RenameColumnQuery(table, from, to string) string
	DropColumnQuery(table, column string) string

	// Helpers
	Quote(ident string) string
	NormalizeType(sqlType string) string
	ParseDefault(expr string) string
	GetSchemaName(input string) string
}

// ColumnSpec is a column to add, in the vocabulary of the schema editor.
type ColumnSpec struct {
	Name     string
	Type     string // string, int, float, bool, text, multiple, link, email, datetime
	RefTable string // target of link columns
	Unique   bool
	NotNull  bool
	Default  string // canonical default value, "" for none
}

// IDColumn is the store-managed primary key every created table gets.
// Link columns reference it.
const IDColumn = "id"
