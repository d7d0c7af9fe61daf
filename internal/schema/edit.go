package schema

import "github.com/google/uuid"

// AddTable appends a table that does not exist remotely yet.
func (m *Model) AddTable(name string) (*Table, error) {
	if err := m.checkTableName(nil, name); err != nil {
		return nil, err
	}
	t := &Table{ID: uuid.New(), Name: name, Added: true}
	m.Tables = append(m.Tables, t)
	return t, nil
}

// RenameTable changes the current name of t. Renaming a pre-existing table
// back to its baseline name cancels the pending rename.
func (m *Model) RenameTable(t *Table, name string) error {
	if t.Name == name {
		return nil
	}
	if err := m.checkTableName(t, name); err != nil {
		return err
	}
	t.Name = name
	return nil
}

// ToggleDeleteTable removes an added table outright and flips the deletion
// mark of a pre-existing one.
func (m *Model) ToggleDeleteTable(t *Table) {
	if t.Added {
		if i := m.indexOf(t); i >= 0 {
			m.Tables = append(m.Tables[:i], m.Tables[i+1:]...)
		}
		return
	}
	t.Deleted = !t.Deleted
}

// AddColumn appends a column that does not exist remotely yet.
func (m *Model) AddColumn(t *Table, def ColumnDef) (*Column, error) {
	path := t.Name + "." + def.Name
	if t.Deleted {
		return nil, &ValidationError{Path: t.Name, Err: ErrTableDeleted}
	}
	if err := def.validate(path); err != nil {
		return nil, err
	}
	def, err := def.withDefault(path)
	if err != nil {
		return nil, err
	}
	if err := checkColumnName(t, nil, def.Name); err != nil {
		return nil, err
	}
	c := &Column{ID: uuid.New(), ColumnDef: def.clone(), Added: true}
	t.Columns = append(t.Columns, c)
	return c, nil
}

// RenameColumn changes the current name of c within t.
func (m *Model) RenameColumn(t *Table, c *Column, name string) error {
	if c.Name == name {
		return nil
	}
	if err := checkColumnName(t, c, name); err != nil {
		return err
	}
	c.Name = name
	return nil
}

// UpdateColumn replaces the fields of c with def. Columns added in this
// session accept any change; pre-existing columns only accept a new name.
func (m *Model) UpdateColumn(t *Table, c *Column, def ColumnDef) error {
	path := t.Name + "." + c.Name
	if err := def.validate(path); err != nil {
		return err
	}
	if !c.Added {
		cur := c.Def()
		cur.Name = def.Name
		if !cur.Equal(def) {
			return &ValidationError{Path: path, Err: ErrImmutableColumn}
		}
	} else {
		var err error
		if def, err = def.withDefault(path); err != nil {
			return err
		}
	}
	if c.Name != def.Name {
		if err := checkColumnName(t, c, def.Name); err != nil {
			return err
		}
	}
	c.ColumnDef = def.clone()
	return nil
}

// ToggleDeleteColumn removes an added column outright and flips the deletion
// mark of a pre-existing one. Restoring a column fails when a live column
// has taken its name in the meantime.
func (m *Model) ToggleDeleteColumn(t *Table, c *Column) error {
	if c.Added {
		if i := t.indexOf(c); i >= 0 {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
		}
		return nil
	}
	if c.Deleted {
		if err := checkColumnName(t, c, c.Name); err != nil {
			return err
		}
	}
	c.Deleted = !c.Deleted
	return nil
}

func (m *Model) checkTableName(self *Table, name string) error {
	if !ValidIdentifier(name) {
		return &ValidationError{Path: "table", Err: ErrInvalidName, Value: name}
	}
	for _, t := range m.Tables {
		if t != self && t.Name == name {
			return &ValidationError{Path: "table", Err: ErrDuplicateName, Value: name}
		}
	}
	return nil
}

func checkColumnName(t *Table, self *Column, name string) error {
	if !ValidIdentifier(name) {
		return &ValidationError{Path: t.Name, Err: ErrInvalidName, Value: name}
	}
	for _, c := range t.Columns {
		if c != self && !c.Deleted && c.Name == name {
			return &ValidationError{Path: t.Name, Err: ErrDuplicateName, Value: name}
		}
	}
	return nil
}
