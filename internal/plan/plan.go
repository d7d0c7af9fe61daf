// Package plan turns an edited schema model into the ordered list of remote
// operations that migrate the baseline to it.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"db-reshape/internal/schema"
)

// Phase orders operations. Every operation of a phase runs before any
// operation of the next one.
type Phase int

const (
	// PhaseShape creates and renames tables and renames or deletes columns.
	PhaseShape Phase = iota + 1
	// PhaseApply deletes tables and adds columns.
	PhaseApply
)

func (p Phase) String() string {
	switch p {
	case PhaseShape:
		return "1"
	case PhaseApply:
		return "2"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Op is one remote schema operation.
type Op interface {
	Phase() Phase
	String() string
	op()
}

type (
	CreateTable struct {
		Name string
	}
	RenameTable struct {
		From, To string
	}
	DeleteTable struct {
		Name string
	}
	// AddColumn carries the full column definition. Links name the target
	// table by its current name.
	AddColumn struct {
		Table  string
		Column schema.ColumnDef
	}
	RenameColumn struct {
		Table    string
		From, To string
	}
	DeleteColumn struct {
		Table  string
		Column string
	}
)

func (*CreateTable) Phase() Phase  { return PhaseShape }
func (*RenameTable) Phase() Phase  { return PhaseShape }
func (*RenameColumn) Phase() Phase { return PhaseShape }
func (*DeleteColumn) Phase() Phase { return PhaseShape }
func (*DeleteTable) Phase() Phase  { return PhaseApply }
func (*AddColumn) Phase() Phase    { return PhaseApply }

func (*CreateTable) op()  {}
func (*RenameTable) op()  {}
func (*DeleteTable) op()  {}
func (*AddColumn) op()    {}
func (*RenameColumn) op() {}
func (*DeleteColumn) op() {}

func (o *CreateTable) String() string { return "create table " + o.Name }
func (o *RenameTable) String() string { return fmt.Sprintf("rename table %s to %s", o.From, o.To) }
func (o *DeleteTable) String() string { return "delete table " + o.Name }

func (o *AddColumn) String() string {
	var attrs []string
	if lt := o.Column.LinkTable(); lt != "" {
		attrs = append(attrs, "-> "+lt)
	}
	if o.Column.Unique {
		attrs = append(attrs, "unique")
	}
	if o.Column.NotNull {
		attrs = append(attrs, "not null")
	}
	if o.Column.DefaultValue != "" {
		attrs = append(attrs, fmt.Sprintf("default %q", o.Column.DefaultValue))
	}
	s := fmt.Sprintf("add column %s.%s %s", o.Table, o.Column.Name, o.Column.Type)
	if len(attrs) > 0 {
		s += " (" + strings.Join(attrs, ", ") + ")"
	}
	return s
}

func (o *RenameColumn) String() string {
	return fmt.Sprintf("rename column %s.%s to %s", o.Table, o.From, o.To)
}

func (o *DeleteColumn) String() string { return fmt.Sprintf("delete column %s.%s", o.Table, o.Column) }

// Destructive reports whether op loses remote data.
func Destructive(op Op) bool {
	switch op.(type) {
	case *DeleteTable, *DeleteColumn:
		return true
	}
	return false
}

// Plan is the ordered operation list of one editing session.
type Plan struct {
	Ops []Op
}

// Len returns the number of operations.
func (p *Plan) Len() int { return len(p.Ops) }

// Phase returns the operations of phase ph, in plan order.
func (p *Plan) Phase(ph Phase) []Op {
	var ops []Op
	for _, op := range p.Ops {
		if op.Phase() == ph {
			ops = append(ops, op)
		}
	}
	return ops
}

func (p *Plan) String() string {
	var b strings.Builder
	for i, op := range p.Ops {
		fmt.Fprintf(&b, "%d. %s\n", i+1, op)
	}
	return b.String()
}

// step is an operation with its sort key: table-level operations use -1 as
// the column index.
type step struct {
	op     Op
	table  int
	column int
}

// Build computes the plan of m. It never fails: callers validate the model
// with Check first.
func Build(m *schema.Model) *Plan {
	links := m.Links()
	var steps []step
	add := func(op Op, ti, ci int) {
		steps = append(steps, step{op: op, table: ti, column: ci})
	}

	for ti, t := range m.Tables {
		if t.Added {
			add(&CreateTable{Name: t.Name}, ti, -1)
		} else if from, ok := t.InitialName(); ok {
			add(&RenameTable{From: from, To: t.Name}, ti, -1)
		}
		if t.Deleted {
			add(&DeleteTable{Name: t.Name}, ti, -1)
		}

		for ci, c := range t.Columns {
			gone := c.Deleted || links.ImplicitlyDeleted(c)
			remote := !t.Added && !c.Added
			switch {
			case !remote:
				// Columns that never reached the remote store are only added,
				// unless the table they link to is going away.
				if !gone && !t.Deleted {
					add(&AddColumn{Table: t.Name, Column: addedDef(links, c)}, ti, ci)
				}
			case gone:
				// A pending rename is never sent, so the column still has its
				// baseline name remotely.
				name := c.RemoteName
				if name == "" {
					name = c.Name
				}
				add(&DeleteColumn{Table: t.Name, Column: name}, ti, ci)
			default:
				if from, ok := c.InitialName(); ok {
					add(&RenameColumn{Table: t.Name, From: from, To: c.Name}, ti, ci)
				}
			}
		}
	}

	sort.SliceStable(steps, func(i, j int) bool {
		a, b := steps[i], steps[j]
		if pa, pb := a.op.Phase(), b.op.Phase(); pa != pb {
			return pa < pb
		}
		if a.table != b.table {
			return a.table < b.table
		}
		return a.column < b.column
	})

	p := &Plan{Ops: make([]Op, len(steps))}
	for i, s := range steps {
		p.Ops[i] = s.op
	}
	return p
}

func addedDef(links *schema.Links, c *schema.Column) schema.ColumnDef {
	def := c.Def()
	if lt := links.Target(c); lt != nil {
		def.Link.Table = lt.Name
	}
	return def
}
