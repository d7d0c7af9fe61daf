package engine

import (
	"context"
	"database/sql"
	"fmt"

	"db-reshape/internal/dialect"
	"db-reshape/internal/schema"
)

// Store is the remote schema store a plan is applied to. Each mutation is a
// single remote call that either succeeds or fails as a whole.
type Store interface {
	Schema(ctx context.Context) (*schema.Document, error)

	CreateTable(ctx context.Context, name string) error
	RenameTable(ctx context.Context, from, to string) error
	DeleteTable(ctx context.Context, name string) error

	AddColumn(ctx context.Context, table string, col schema.ColumnDef) error
	RenameColumn(ctx context.Context, table, from, to string) error
	DeleteColumn(ctx context.Context, table, column string) error
}

// SQLStore is a Store backed by a relational database. Every mutation runs
// as one DDL statement outside of any transaction.
type SQLStore struct {
	db     *sql.DB
	d      dialect.Dialect
	schema string
}

// NewSQLStore returns a store for the schema named schemaName of db.
func NewSQLStore(db *sql.DB, d dialect.Dialect, schemaName string) *SQLStore {
	return &SQLStore{db: db, d: d, schema: schemaName}
}

var _ Store = (*SQLStore)(nil)

// Schema introspects the database catalog.
func (s *SQLStore) Schema(ctx context.Context) (*schema.Document, error) {
	return schema.Analyze(ctx, s.db, s.d, s.schema)
}

func (s *SQLStore) CreateTable(ctx context.Context, name string) error {
	return s.exec(ctx, s.d.CreateTableQuery(name))
}

func (s *SQLStore) RenameTable(ctx context.Context, from, to string) error {
	return s.exec(ctx, s.d.RenameTableQuery(from, to))
}

func (s *SQLStore) DeleteTable(ctx context.Context, name string) error {
	return s.exec(ctx, s.d.DropTableQuery(name))
}

func (s *SQLStore) AddColumn(ctx context.Context, table string, col schema.ColumnDef) error {
	return s.exec(ctx, s.d.AddColumnQuery(table, dialect.ColumnSpec{
		Name:     col.Name,
		Type:     string(col.Type),
		RefTable: col.LinkTable(),
		Unique:   col.Unique,
		NotNull:  col.NotNull,
		Default:  col.DefaultValue,
	}))
}

func (s *SQLStore) RenameColumn(ctx context.Context, table, from, to string) error {
	return s.exec(ctx, s.d.RenameColumnQuery(table, from, to))
}

func (s *SQLStore) DeleteColumn(ctx context.Context, table, column string) error {
	return s.exec(ctx, s.d.DropColumnQuery(table, column))
}

func (s *SQLStore) exec(ctx context.Context, query string) error {
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w\nQuery: %s", err, query)
	}
	return nil
}
