package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Counts of pending changes for one kind of entity.
type Counts struct {
	Added    int
	Deleted  int
	Modified int
}

func (c Counts) empty() bool { return c.Added == 0 && c.Deleted == 0 && c.Modified == 0 }

// Summary is the overview of pending changes rendered by the editor.
type Summary struct {
	Tables  Counts
	Columns Counts
}

// Empty reports whether there is nothing to migrate.
func (s Summary) Empty() bool { return s.Tables.empty() && s.Columns.empty() }

// String renders the summary as "+1, -2, ·1 tables, +3 columns".
func (s Summary) String() string {
	var parts []string
	if p := s.Tables.parts(); len(p) > 0 {
		parts = append(parts, strings.Join(p, ", ")+" tables")
	}
	if p := s.Columns.parts(); len(p) > 0 {
		parts = append(parts, strings.Join(p, ", ")+" columns")
	}
	return strings.Join(parts, ", ")
}

func (c Counts) parts() []string {
	var p []string
	if c.Added > 0 {
		p = append(p, fmt.Sprintf("+%d", c.Added))
	}
	if c.Deleted > 0 {
		p = append(p, fmt.Sprintf("-%d", c.Deleted))
	}
	if c.Modified > 0 {
		p = append(p, fmt.Sprintf("·%d", c.Modified))
	}
	return p
}

// Links is the link index of a model: the resolved target of every link
// column and its reverse. It reflects the model at the time it was built and
// must be rebuilt after edits.
type Links struct {
	target   map[uuid.UUID]*Table    // column ID -> linked table
	linkedBy map[uuid.UUID][]*Column // table ID -> columns linking to it
}

// Links builds the link index. A link names its table by the baseline name
// when the table was renamed, or by its current name; the baseline name wins.
func (m *Model) Links() *Links {
	byRemote := make(map[string]*Table, len(m.Tables))
	byName := make(map[string]*Table, len(m.Tables))
	for _, t := range m.Tables {
		if t.RemoteName != "" {
			byRemote[t.RemoteName] = t
		}
		byName[t.Name] = t
	}
	l := &Links{
		target:   make(map[uuid.UUID]*Table),
		linkedBy: make(map[uuid.UUID][]*Column),
	}
	for _, t := range m.Tables {
		for _, c := range t.Columns {
			name := c.LinkTable()
			if name == "" {
				continue
			}
			lt, ok := byRemote[name]
			if !ok {
				lt, ok = byName[name]
			}
			if !ok {
				continue
			}
			l.target[c.ID] = lt
			l.linkedBy[lt.ID] = append(l.linkedBy[lt.ID], c)
		}
	}
	return l
}

// Target returns the table c links to, or nil.
func (l *Links) Target(c *Column) *Table { return l.target[c.ID] }

// LinkedBy returns the columns linking to t.
func (l *Links) LinkedBy(t *Table) []*Column { return l.linkedBy[t.ID] }

// ImplicitlyDeleted reports whether c goes away only because the table it
// links to is deleted.
func (l *Links) ImplicitlyDeleted(c *Column) bool {
	lt := l.target[c.ID]
	return !c.Deleted && lt != nil && lt.Deleted
}

// ColumnDeleted reports whether c will not exist after the migration: it,
// its table or its linked table is deleted.
func (l *Links) ColumnDeleted(t *Table, c *Column) bool {
	return t.Deleted || c.Deleted || l.ImplicitlyDeleted(c)
}

// LinkTarget returns the table c links to, or nil.
func (m *Model) LinkTarget(c *Column) *Table { return m.Links().Target(c) }

// LinkedBy returns the columns linking to t.
func (m *Model) LinkedBy(t *Table) []*Column { return m.Links().LinkedBy(t) }

// ImplicitlyDeleted reports whether c is deleted through the table it links to.
func (m *Model) ImplicitlyDeleted(c *Column) bool { return m.Links().ImplicitlyDeleted(c) }

// Summary counts the pending changes.
func (m *Model) Summary() Summary {
	var s Summary
	links := m.Links()
	for _, t := range m.Tables {
		_, renamed := t.InitialName()
		switch {
		case t.Added:
			s.Tables.Added++
		case t.Deleted:
			s.Tables.Deleted++
		case renamed:
			s.Tables.Modified++
		}
		for _, c := range t.Columns {
			_, renamed := c.InitialName()
			switch {
			case t.Added || c.Added:
				s.Columns.Added++
			case links.ColumnDeleted(t, c):
				s.Columns.Deleted++
			case renamed:
				s.Columns.Modified++
			}
		}
	}
	return s
}

// Check verifies that every live link column resolves to a table of the
// model. It returns the first ConsistencyError found.
func (m *Model) Check() error {
	links := m.Links()
	for _, t := range m.Tables {
		for _, c := range t.Columns {
			if c.Type != TypeLink || c.Deleted || t.Deleted {
				continue
			}
			if links.Target(c) == nil {
				return &ConsistencyError{Table: t.Name, Column: c.Name, Link: c.LinkTable()}
			}
		}
	}
	return nil
}
