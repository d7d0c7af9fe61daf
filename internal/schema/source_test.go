package schema_test

import (
	"encoding/json"
	"testing"

	"db-reshape/internal/schema"

	"github.com/stretchr/testify/require"
)

const sourceDoc = `{
  "tables": [
    {
      "name": "users",
      "columns": [
        {"name": "name", "type": "string", "notNull": true, "defaultValue": "anon"},
        {"name": "email", "type": "email", "unique": true},
        {"name": "teamId", "type": "link", "link": {"table": "teams"}}
      ]
    },
    {
      "name": "teams",
      "columns": [
        {"name": "size", "type": "int", "notNull": true, "defaultValue": "3"},
        {"name": "founded", "type": "datetime", "defaultValue": "2020-05-01T10:00:00.000Z"},
        {"name": "notes", "type": "text"}
      ]
    },
    {"name": "empty", "columns": []}
  ]
}`

func TestDeserialize(t *testing.T) {
	m, err := schema.Deserialize([]byte(sourceDoc))
	require.NoError(t, err)
	require.Len(t, m.Tables, 3)
	for _, tbl := range m.Tables {
		require.False(t, tbl.Added)
		require.Empty(t, tbl.RemoteName)
		for _, c := range tbl.Columns {
			require.False(t, c.Added)
			require.Empty(t, c.RemoteName)
		}
	}
	require.NoError(t, m.Check())
	require.True(t, m.Summary().Empty())
}

func TestSerialize_RoundTrip(t *testing.T) {
	m, err := schema.Deserialize([]byte(sourceDoc))
	require.NoError(t, err)
	out, err := schema.MarshalDocument(schema.Serialize(m))
	require.NoError(t, err)
	require.JSONEq(t, sourceDoc, string(out))
}

func TestSerialize_TargetShape(t *testing.T) {
	m := newBaseline()
	teams := m.Table("teams")
	require.NoError(t, m.RenameTable(teams, "squads"))
	users := m.Table("users")
	_, err := m.AddColumn(users, schema.ColumnDef{Name: "age", Type: schema.TypeInt})
	require.NoError(t, err)

	doc := schema.Serialize(m)
	require.Equal(t, []schema.ColumnDef{
		{Name: "name", Type: schema.TypeString},
		{Name: "teamId", Type: schema.TypeLink, Link: &schema.Link{Table: "squads"}},
		{Name: "age", Type: schema.TypeInt},
	}, doc.Table("users").Columns)
	// The model keeps the name the link was written with.
	require.Equal(t, "teams", users.Column("teamId").LinkTable())

	m.ToggleDeleteTable(teams)
	doc = schema.Serialize(m)
	require.Nil(t, doc.Table("squads"))
	require.Len(t, doc.Table("users").Columns, 2)
}

func TestDeserialize_Normalizes(t *testing.T) {
	m, err := schema.Deserialize([]byte(`{"tables":[{"name":"a","columns":[
		{"name":"n","type":"float","defaultValue":"1.50"},
		{"name":"d","type":"datetime","defaultValue":"2024-01-01T00:00:00Z"},
		{"name":"b","type":"bool","defaultValue":"oops"},
		{"name":"u","type":"string","unique":false}
	]}]}`))
	require.NoError(t, err)
	doc := schema.Serialize(m)
	require.Equal(t, []schema.ColumnDef{
		{Name: "n", Type: schema.TypeFloat, DefaultValue: "1.5"},
		{Name: "d", Type: schema.TypeDatetime, DefaultValue: "2024-01-01T00:00:00.000Z"},
		{Name: "b", Type: schema.TypeBool},
		{Name: "u", Type: schema.TypeString},
	}, doc.Tables[0].Columns)
}

func TestDeserialize_ValidationErrors(t *testing.T) {
	_, err := schema.Deserialize([]byte(`{"tables":[
		{"name":"bad name","columns":[]},
		{"name":"a","columns":[
			{"name":"x","type":"uuid"},
			{"name":"l","type":"link","link":{"table":"nowhere"}},
			{"name":"s","type":"int","link":{"table":"a"}},
			{"name":"k","type":"link"},
			{"name":"n","type":"int","notNull":true,"defaultValue":"4.2"},
			{"name":"d","type":"string"},
			{"name":"d","type":"string"}
		]},
		{"name":"a","columns":[]}
	]}`))
	var errs schema.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 8)

	paths := make([]string, len(errs))
	for i, e := range errs {
		paths[i] = e.Path
	}
	require.Equal(t, []string{
		"tables[0].name",
		"tables[1].columns[0].type",
		"tables[1].columns[1].link.table",
		"tables[1].columns[2].link",
		"tables[1].columns[3].link",
		"tables[1].columns[4].defaultValue",
		"tables[1].columns[6].name",
		"tables[2].name",
	}, paths)
	require.ErrorIs(t, err, schema.ErrInvalidName)
	require.ErrorIs(t, err, schema.ErrUnknownLinkTable)
	require.ErrorIs(t, err, schema.ErrDuplicateName)
}

func TestDeserialize_InvalidJSON(t *testing.T) {
	_, err := schema.Deserialize([]byte(`{"tables": [`))
	var errs schema.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	require.Contains(t, err.Error(), "invalid JSON document")

	var syntax *json.SyntaxError
	require.ErrorAs(t, err, &syntax)
}
