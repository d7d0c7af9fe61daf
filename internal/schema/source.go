package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Document is the plain schema shape shared by the remote store and the
// source editing mode: {"tables": [{"name", "columns": [...]}]}.
type Document struct {
	Tables []TableDoc `json:"tables"`
}

type TableDoc struct {
	Name    string      `json:"name"`
	Columns []ColumnDef `json:"columns"`
}

// Table returns the table named name, or nil.
func (d *Document) Table(name string) *TableDoc {
	for i := range d.Tables {
		if d.Tables[i].Name == name {
			return &d.Tables[i]
		}
	}
	return nil
}

// Serialize returns the target schema of m: what the remote schema looks
// like once the pending edits are applied. Edit metadata is not part of it.
func Serialize(m *Model) *Document {
	doc := &Document{Tables: []TableDoc{}}
	links := m.Links()
	for _, t := range m.Tables {
		if t.Deleted {
			continue
		}
		td := TableDoc{Name: t.Name, Columns: []ColumnDef{}}
		for _, c := range t.Columns {
			if links.ColumnDeleted(t, c) {
				continue
			}
			def := c.Def()
			if lt := links.Target(c); lt != nil {
				def.Link.Table = lt.Name
			}
			td.Columns = append(td.Columns, def)
		}
		doc.Tables = append(doc.Tables, td)
	}
	return doc
}

// MarshalDocument encodes doc as indented JSON.
func MarshalDocument(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Deserialize parses and validates a source document. The returned model has
// no edit metadata: it describes a target state, not a diff. All problems are
// reported at once as ValidationErrors.
func Deserialize(data []byte) (*Model, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ValidationErrors{{Err: fmt.Errorf("invalid JSON document: %w", err)}}
	}
	if errs := ValidateDocument(&doc); len(errs) > 0 {
		return nil, errs
	}
	m := &Model{}
	for _, td := range doc.Tables {
		t := &Table{ID: uuid.New(), Name: td.Name}
		for _, cd := range td.Columns {
			// Documents describe existing columns too, so an empty default
			// is fine here; invalid ones of nullable columns are dropped.
			if cd.DefaultValue != "" {
				cd, _ = cd.withDefault("")
			}
			t.Columns = append(t.Columns, &Column{ID: uuid.New(), ColumnDef: cd.clone()})
		}
		m.Tables = append(m.Tables, t)
	}
	return m, nil
}

// ValidateDocument checks the shape of a source document.
func ValidateDocument(doc *Document) ValidationErrors {
	var errs ValidationErrors
	tables := make(map[string]bool, len(doc.Tables))
	for _, td := range doc.Tables {
		tables[td.Name] = true
	}
	seenTables := make(map[string]bool, len(doc.Tables))
	for i, td := range doc.Tables {
		path := fmt.Sprintf("tables[%d]", i)
		switch {
		case !ValidIdentifier(td.Name):
			errs = append(errs, &ValidationError{Path: path + ".name", Err: ErrInvalidName, Value: td.Name})
		case seenTables[td.Name]:
			errs = append(errs, &ValidationError{Path: path + ".name", Err: ErrDuplicateName, Value: td.Name})
		}
		seenTables[td.Name] = true
		seenColumns := make(map[string]bool, len(td.Columns))
		for j, cd := range td.Columns {
			cpath := fmt.Sprintf("%s.columns[%d]", path, j)
			if err := cd.validate(cpath); err != nil {
				errs = append(errs, err.(*ValidationError))
				continue
			}
			if seenColumns[cd.Name] {
				errs = append(errs, &ValidationError{Path: cpath + ".name", Err: ErrDuplicateName, Value: cd.Name})
			}
			seenColumns[cd.Name] = true
			if cd.Type == TypeLink && !tables[cd.Link.Table] {
				errs = append(errs, &ValidationError{Path: cpath + ".link.table", Err: ErrUnknownLinkTable, Value: cd.Link.Table})
			}
			if cd.DefaultValue != "" {
				if _, err := cd.withDefault(cpath); err != nil {
					errs = append(errs, err.(*ValidationError))
				}
			}
		}
	}
	return errs
}
