// Package script reads YAML edit scripts and replays them against a schema
// model, one edit operation per step.
package script

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"db-reshape/internal/schema"

	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpAddTable     = "add-table"
	OpRenameTable  = "rename-table"
	OpDeleteTable  = "delete-table"
	OpAddColumn    = "add-column"
	OpUpdateColumn = "update-column"
	OpRenameColumn = "rename-column"
	OpDeleteColumn = "delete-column"
)

var (
	ErrUnknownOp     = errors.New("unknown op")
	ErrUnknownTable  = errors.New("table not found")
	ErrUnknownColumn = errors.New("column not found")
	ErrMissingField  = errors.New("missing field")
	ErrUnknownField  = errors.New("unknown column field")
)

// Script is an ordered list of edit steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one edit. Def holds raw column editor fields (name, type, link,
// unique, notNull, defaultValue) as the user would type them.
type Step struct {
	Op      string              `yaml:"op"`
	Table   string              `yaml:"table"`
	Column  string              `yaml:"column,omitempty"`
	To      string              `yaml:"to,omitempty"`
	Def     map[string]string   `yaml:"def,omitempty"`
	Columns []map[string]string `yaml:"columns,omitempty"`
}

// required lists the fields each op needs besides table.
var required = map[string][]string{
	OpAddTable:     nil,
	OpRenameTable:  {"to"},
	OpDeleteTable:  nil,
	OpAddColumn:    {"def"},
	OpUpdateColumn: {"column", "def"},
	OpRenameColumn: {"column", "to"},
	OpDeleteColumn: {"column"},
}

// Load decodes a script and checks the shape of every step.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return &s, nil
}

func (st Step) check() error {
	fields, ok := required[st.Op]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	if st.Table == "" {
		return fmt.Errorf("%w: table", ErrMissingField)
	}
	for _, f := range fields {
		var empty bool
		switch f {
		case "to":
			empty = st.To == ""
		case "column":
			empty = st.Column == ""
		case "def":
			empty = len(st.Def) == 0
		}
		if empty {
			return fmt.Errorf("%w: %s", ErrMissingField, f)
		}
	}
	if err := checkDef(st.Def); err != nil {
		return err
	}
	for _, def := range st.Columns {
		if err := checkDef(def); err != nil {
			return err
		}
	}
	return nil
}

func checkDef(def map[string]string) error {
	keys := make([]string, 0, len(def))
	for k := range def {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch k {
		case "name", "type", "link", "unique", "notNull", "defaultValue":
		default:
			return fmt.Errorf("%w %q", ErrUnknownField, k)
		}
	}
	return nil
}

// Apply replays steps against m. It stops at the first failing step; the
// steps before it stay applied.
func Apply(m *schema.Model, steps []Step) error {
	for i, st := range steps {
		if err := apply(m, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}

func apply(m *schema.Model, st Step) error {
	if st.Op == OpAddTable {
		t, err := m.AddTable(st.Table)
		if err != nil {
			return err
		}
		for _, def := range st.Columns {
			if err := addColumn(m, t, def); err != nil {
				return err
			}
		}
		return nil
	}

	t := m.Table(st.Table)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTable, st.Table)
	}
	switch st.Op {
	case OpRenameTable:
		return m.RenameTable(t, st.To)
	case OpDeleteTable:
		m.ToggleDeleteTable(t)
		return nil
	case OpAddColumn:
		return addColumn(m, t, st.Def)
	}

	c := t.Column(st.Column)
	if c == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, st.Table, st.Column)
	}
	switch st.Op {
	case OpUpdateColumn:
		if !c.Added {
			// Only the name of a pre-existing column can change.
			if name, ok := st.Def["name"]; ok && len(st.Def) == 1 {
				return m.RenameColumn(t, c, name)
			}
			return &schema.ValidationError{Path: t.Name + "." + c.Name, Err: schema.ErrImmutableColumn}
		}
		def, err := form(schema.FormOf(c), st.Def).Def()
		if err != nil {
			return err
		}
		return m.UpdateColumn(t, c, def)
	case OpRenameColumn:
		return m.RenameColumn(t, c, st.To)
	case OpDeleteColumn:
		return m.ToggleDeleteColumn(t, c)
	}
	return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
}

func addColumn(m *schema.Model, t *schema.Table, fields map[string]string) error {
	def, err := form(schema.ColumnForm{}, fields).Def()
	if err != nil {
		return err
	}
	_, err = m.AddColumn(t, def)
	return err
}

// form overlays the given raw fields on f.
func form(f schema.ColumnForm, fields map[string]string) schema.ColumnForm {
	for k, v := range fields {
		switch k {
		case "name":
			f.Name = v
		case "type":
			f.Type = v
		case "link":
			f.Link = v
		case "unique":
			f.Unique = v
		case "notNull":
			f.NotNull = v
		case "defaultValue":
			f.DefaultValue = v
		}
	}
	return f
}
