package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidName      = errors.New("name has to match " + identifier.String())
	ErrDuplicateName    = errors.New("name is already in use")
	ErrInvalidType      = errors.New("type needs to be one of " + TypesList())
	ErrMissingLink      = errors.New("the link field must be filled for columns of type `link`")
	ErrUnexpectedLink   = errors.New("the link field must not be filled unless the type of the column is `link`")
	ErrUnknownLinkTable = errors.New("linked table does not exist")
	ErrInvalidDefault   = errors.New("invalid default value for column type")
	ErrInvalidBool      = errors.New("please enter a boolean value (e.g. yes, no, true, false) or leave it empty")
	ErrImmutableColumn  = errors.New("only the name of an existing column can change; delete it and add a new one instead")
	ErrTableDeleted     = errors.New("table is marked for deletion")
)

// ValidationError is a local validation failure. Nothing was sent to the
// remote store and nothing in the model was changed.
type ValidationError struct {
	Path  string // e.g. "tables[0].columns[1].type" or "users.email"
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	if e.Value != "" {
		fmt.Fprintf(&b, " (got %q)", e.Value)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects every problem found in a source document.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// ConsistencyError reports a model state the edit operations should never
// produce, e.g. a link column whose target table is not in the model.
type ConsistencyError struct {
	Table  string
	Column string
	Link   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("column %s.%s links to table %q which is not part of the schema", e.Table, e.Column, e.Link)
}
