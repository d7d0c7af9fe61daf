package schema_test

import (
	"testing"

	"db-reshape/internal/schema"

	"github.com/stretchr/testify/require"
)

func TestImplicitlyDeleted_CurrentName(t *testing.T) {
	m := newBaseline()
	users, teams := m.Table("users"), m.Table("teams")
	teamID := users.Column("teamId")

	require.Same(t, teams, m.LinkTarget(teamID))
	require.Equal(t, []*schema.Column{teamID}, m.LinkedBy(teams))
	require.False(t, m.ImplicitlyDeleted(teamID))

	m.ToggleDeleteTable(teams)
	require.True(t, m.ImplicitlyDeleted(teamID))
	require.False(t, teamID.Deleted)

	// An explicit delete is not an implicit one.
	require.NoError(t, m.ToggleDeleteColumn(users, teamID))
	require.False(t, m.ImplicitlyDeleted(teamID))
}

func TestImplicitlyDeleted_InitialName(t *testing.T) {
	m := newBaseline()
	teams := m.Table("teams")
	require.NoError(t, m.RenameTable(teams, "squads"))
	m.ToggleDeleteTable(teams)

	// The link still names the baseline table.
	teamID := m.Table("users").Column("teamId")
	require.Equal(t, "teams", teamID.LinkTable())
	require.True(t, m.ImplicitlyDeleted(teamID))
}

func TestLinks_RemoteNameWins(t *testing.T) {
	m := newBaseline()
	teams := m.Table("teams")
	require.NoError(t, m.RenameTable(teams, "squads"))
	// A new table takes the old name.
	newTeams, err := m.AddTable("teams")
	require.NoError(t, err)

	teamID := m.Table("users").Column("teamId")
	require.Same(t, teams, m.LinkTarget(teamID))
	require.Empty(t, m.LinkedBy(newTeams))
}

func TestSummary(t *testing.T) {
	m := newBaseline()
	require.True(t, m.Summary().Empty())
	require.Equal(t, "", m.Summary().String())

	users, teams := m.Table("users"), m.Table("teams")
	require.NoError(t, m.RenameTable(users, "people"))
	require.NoError(t, m.RenameColumn(users, users.Column("name"), "fullName"))
	_, err := m.AddColumn(users, schema.ColumnDef{Name: "age", Type: schema.TypeInt})
	require.NoError(t, err)
	orders, err := m.AddTable("orders")
	require.NoError(t, err)
	_, err = m.AddColumn(orders, schema.ColumnDef{Name: "total", Type: schema.TypeFloat})
	require.NoError(t, err)
	m.ToggleDeleteTable(teams)

	s := m.Summary()
	require.Equal(t, schema.Counts{Added: 1, Deleted: 1, Modified: 1}, s.Tables)
	// teams.title goes with its table and users.teamId with its link target.
	require.Equal(t, schema.Counts{Added: 2, Deleted: 2, Modified: 1}, s.Columns)
	require.Equal(t, "+1, -1, ·1 tables, +2, -2, ·1 columns", s.String())
	require.False(t, s.Empty())
}

func TestCheck(t *testing.T) {
	m := newBaseline()
	require.NoError(t, m.Check())

	// Edit operations cannot produce a dangling link; build one by hand.
	users := m.Table("users")
	users.Columns = append(users.Columns, &schema.Column{ColumnDef: schema.ColumnDef{
		Name: "org", Type: schema.TypeLink, Link: &schema.Link{Table: "orgs"},
	}, Added: true})

	err := m.Check()
	var cerr *schema.ConsistencyError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, &schema.ConsistencyError{Table: "users", Column: "org", Link: "orgs"}, cerr)
	require.Contains(t, err.Error(), `users.org links to table "orgs"`)
}
