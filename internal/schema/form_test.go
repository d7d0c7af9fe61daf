package schema_test

import (
	"testing"

	"db-reshape/internal/schema"

	"github.com/stretchr/testify/require"
)

func TestColumnFormDef(t *testing.T) {
	tests := []struct {
		name string
		form schema.ColumnForm
		want schema.ColumnDef
		err  error
	}{
		{
			name: "plain",
			form: schema.ColumnForm{Name: "title", Type: "string"},
			want: schema.ColumnDef{Name: "title", Type: schema.TypeString},
		},
		{
			name: "flags",
			form: schema.ColumnForm{Name: "email", Type: "email", Unique: "y", NotNull: "YES", DefaultValue: "a@b.c"},
			want: schema.ColumnDef{Name: "email", Type: schema.TypeEmail, Unique: true, NotNull: true, DefaultValue: "a@b.c"},
		},
		{
			name: "link",
			form: schema.ColumnForm{Name: "team", Type: "link", Link: "teams"},
			want: schema.ColumnDef{Name: "team", Type: schema.TypeLink, Link: &schema.Link{Table: "teams"}},
		},
		{
			name: "nullable invalid default is dropped",
			form: schema.ColumnForm{Name: "n", Type: "int", DefaultValue: "4.2"},
			want: schema.ColumnDef{Name: "n", Type: schema.TypeInt},
		},
		{
			name: "not null invalid default",
			form: schema.ColumnForm{Name: "n", Type: "int", NotNull: "true", DefaultValue: "4.2"},
			err:  schema.ErrInvalidDefault,
		},
		{
			name: "not null int needs a default",
			form: schema.ColumnForm{Name: "n", Type: "int", NotNull: "true"},
			err:  schema.ErrInvalidDefault,
		},
		{
			name: "not null string may stay empty",
			form: schema.ColumnForm{Name: "s", Type: "string", NotNull: "true"},
			want: schema.ColumnDef{Name: "s", Type: schema.TypeString, NotNull: true},
		},
		{
			name: "canonical default",
			form: schema.ColumnForm{Name: "on", Type: "bool", NotNull: "1", DefaultValue: "No"},
			want: schema.ColumnDef{Name: "on", Type: schema.TypeBool, NotNull: true, DefaultValue: "false"},
		},
		{name: "bad name", form: schema.ColumnForm{Name: "a b", Type: "string"}, err: schema.ErrInvalidName},
		{name: "bad type", form: schema.ColumnForm{Name: "a", Type: "varchar"}, err: schema.ErrInvalidType},
		{name: "missing link", form: schema.ColumnForm{Name: "a", Type: "link"}, err: schema.ErrMissingLink},
		{name: "unexpected link", form: schema.ColumnForm{Name: "a", Type: "int", Link: "t"}, err: schema.ErrUnexpectedLink},
		{name: "bad flag", form: schema.ColumnForm{Name: "a", Type: "int", Unique: "sure"}, err: schema.ErrInvalidBool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.form.Def()
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormOf(t *testing.T) {
	m := newBaseline()
	c := m.Table("teams").Column("title")
	f := schema.FormOf(c)
	require.Equal(t, schema.ColumnForm{Name: "title", Type: "string", NotNull: "true"}, f)
	def, err := f.Def()
	require.NoError(t, err)
	require.True(t, def.Equal(c.Def()))
}
