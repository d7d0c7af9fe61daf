package schema

// ColumnForm holds the raw text of the column editor fields.
type ColumnForm struct {
	Name         string
	Type         string
	Link         string
	Unique       string
	NotNull      string
	DefaultValue string
}

// FormOf fills a form with the current values of c.
func FormOf(c *Column) ColumnForm {
	f := ColumnForm{
		Name:         c.Name,
		Type:         string(c.Type),
		Link:         c.LinkTable(),
		DefaultValue: c.DefaultValue,
	}
	if c.Unique {
		f.Unique = "true"
	}
	if c.NotNull {
		f.NotNull = "true"
	}
	return f
}

// Def validates the form field by field and builds the column definition.
// A default value that does not coerce is rejected only for not-null
// columns, where an empty int, float or datetime default is rejected too.
// For nullable columns an invalid default is dropped.
func (f ColumnForm) Def() (ColumnDef, error) {
	if !ValidIdentifier(f.Name) {
		return ColumnDef{}, &ValidationError{Path: "name", Err: ErrInvalidName, Value: f.Name}
	}
	t, ok := ParseType(f.Type)
	if !ok {
		return ColumnDef{}, &ValidationError{Path: "type", Err: ErrInvalidType, Value: f.Type}
	}
	switch {
	case t == TypeLink && f.Link == "":
		return ColumnDef{}, &ValidationError{Path: "link", Err: ErrMissingLink}
	case t != TypeLink && f.Link != "":
		return ColumnDef{}, &ValidationError{Path: "link", Err: ErrUnexpectedLink, Value: f.Link}
	}
	unique, _, err := ParseBool(f.Unique)
	if err != nil {
		return ColumnDef{}, &ValidationError{Path: "unique", Err: ErrInvalidBool, Value: f.Unique}
	}
	notNull, _, err := ParseBool(f.NotNull)
	if err != nil {
		return ColumnDef{}, &ValidationError{Path: "notNull", Err: ErrInvalidBool, Value: f.NotNull}
	}
	def := ColumnDef{Name: f.Name, Type: t, Unique: unique, NotNull: notNull, DefaultValue: f.DefaultValue}
	if t == TypeLink {
		def.Link = &Link{Table: f.Link}
	}
	def, err = def.withDefault("")
	if err != nil {
		return ColumnDef{}, &ValidationError{Path: "defaultValue", Err: ErrInvalidDefault, Value: f.DefaultValue}
	}
	return def, nil
}
