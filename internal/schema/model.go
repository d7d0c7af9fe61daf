package schema

import "github.com/google/uuid"

// Model is the editable copy of a remote schema for one editing session.
// It is not safe for concurrent use.
type Model struct {
	Tables []*Table
}

type Table struct {
	ID      uuid.UUID
	Name    string
	Columns []*Column

	// RemoteName is the table name in the baseline. It is empty for tables
	// added during the session.
	RemoteName string
	Added      bool
	Deleted    bool
}

type Column struct {
	ID uuid.UUID
	ColumnDef

	// RemoteName is the column name in the baseline. It is empty for columns
	// added during the session.
	RemoteName string
	Added      bool
	Deleted    bool
}

// NewModel seeds a baseline model from a remote schema document. Every entity
// is considered to exist remotely under its current name.
func NewModel(doc *Document) *Model {
	m := &Model{}
	if doc == nil {
		return m
	}
	for _, td := range doc.Tables {
		t := &Table{ID: uuid.New(), Name: td.Name, RemoteName: td.Name}
		for _, cd := range td.Columns {
			t.Columns = append(t.Columns, &Column{
				ID:         uuid.New(),
				ColumnDef:  cd.clone(),
				RemoteName: cd.Name,
			})
		}
		m.Tables = append(m.Tables, t)
	}
	return m
}

// Table returns the table currently named name, or nil.
func (m *Model) Table(name string) *Table {
	for _, t := range m.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Column returns the column currently named name, or nil. Deleted columns are
// only returned when no live column has that name.
func (t *Table) Column(name string) *Column {
	var deleted *Column
	for _, c := range t.Columns {
		if c.Name != name {
			continue
		}
		if !c.Deleted {
			return c
		}
		if deleted == nil {
			deleted = c
		}
	}
	return deleted
}

// InitialName returns the baseline name of a renamed table.
func (t *Table) InitialName() (string, bool) {
	return initialName(t.Added, t.RemoteName, t.Name)
}

// InitialName returns the baseline name of a renamed column.
func (c *Column) InitialName() (string, bool) {
	return initialName(c.Added, c.RemoteName, c.Name)
}

// Def returns a copy of the column definition.
func (c *Column) Def() ColumnDef {
	return c.ColumnDef.clone()
}

func initialName(added bool, remote, current string) (string, bool) {
	if added || remote == "" || remote == current {
		return "", false
	}
	return remote, true
}

func (t *Table) indexOf(c *Column) int {
	for i, cc := range t.Columns {
		if cc == c {
			return i
		}
	}
	return -1
}

func (m *Model) indexOf(t *Table) int {
	for i, tt := range m.Tables {
		if tt == t {
			return i
		}
	}
	return -1
}
