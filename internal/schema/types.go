package schema

import (
	"regexp"
	"strings"
)

// ColumnType is the declared type of a column.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInt      ColumnType = "int"
	TypeFloat    ColumnType = "float"
	TypeBool     ColumnType = "bool"
	TypeText     ColumnType = "text"
	TypeMultiple ColumnType = "multiple"
	TypeLink     ColumnType = "link"
	TypeEmail    ColumnType = "email"
	TypeDatetime ColumnType = "datetime"
)

// Types lists every supported column type in display order.
var Types = []ColumnType{
	TypeString, TypeInt, TypeFloat, TypeBool, TypeText,
	TypeMultiple, TypeLink, TypeEmail, TypeDatetime,
}

// TypesList is the comma separated form of Types used in messages.
func TypesList() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ParseType returns the column type named s.
func ParseType(s string) (ColumnType, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is one of Types.
func (t ColumnType) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}

var identifier = regexp.MustCompile(`^[a-zA-Z0-9\-_~]+$`)

// ValidIdentifier reports whether name can be used for a table or a column.
func ValidIdentifier(name string) bool {
	return identifier.MatchString(name)
}

// Link names the table a link column points at.
type Link struct {
	Table string `json:"table"`
}

// ColumnDef is the target definition of a column, without edit metadata.
// It is the shape sent to the remote store and written to source documents.
type ColumnDef struct {
	Name         string     `json:"name"`
	Type         ColumnType `json:"type"`
	Link         *Link      `json:"link,omitempty"`
	Unique       bool       `json:"unique,omitempty"`
	NotNull      bool       `json:"notNull,omitempty"`
	DefaultValue string     `json:"defaultValue,omitempty"`
}

// LinkTable returns the linked table name, or "" for other types.
func (d ColumnDef) LinkTable() string {
	if d.Link == nil {
		return ""
	}
	return d.Link.Table
}

// Equal reports whether both definitions describe the same column.
func (d ColumnDef) Equal(o ColumnDef) bool {
	return d.Name == o.Name &&
		d.Type == o.Type &&
		d.LinkTable() == o.LinkTable() &&
		d.Unique == o.Unique &&
		d.NotNull == o.NotNull &&
		d.DefaultValue == o.DefaultValue
}

func (d ColumnDef) clone() ColumnDef {
	if d.Link != nil {
		l := *d.Link
		d.Link = &l
	}
	return d
}

// validate checks the definition in isolation. Path prefixes the errors.
func (d ColumnDef) validate(path string) error {
	if !ValidIdentifier(d.Name) {
		return &ValidationError{Path: path + ".name", Err: ErrInvalidName, Value: d.Name}
	}
	if !d.Type.Valid() {
		return &ValidationError{Path: path + ".type", Err: ErrInvalidType, Value: string(d.Type)}
	}
	if d.Type == TypeLink && d.LinkTable() == "" {
		return &ValidationError{Path: path + ".link", Err: ErrMissingLink}
	}
	if d.Type != TypeLink && d.Link != nil {
		return &ValidationError{Path: path + ".link", Err: ErrUnexpectedLink, Value: d.Link.Table}
	}
	return nil
}

// withDefault returns d with its default value in canonical form. A default
// that does not coerce, or an empty int, float or datetime default, is an
// error for not-null columns; nullable columns drop an invalid default.
func (d ColumnDef) withDefault(path string) (ColumnDef, error) {
	if d.DefaultValue == "" && !d.NotNull {
		return d, nil
	}
	v, set, err := CoerceDefault(d.Type, d.DefaultValue)
	switch {
	case err != nil && d.NotNull:
		return d, &ValidationError{Path: path + ".defaultValue", Err: ErrInvalidDefault, Value: d.DefaultValue}
	case err != nil || !set:
		d.DefaultValue = ""
	default:
		d.DefaultValue = v
	}
	return d, nil
}
