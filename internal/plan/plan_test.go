package plan_test

import (
	"testing"

	"db-reshape/internal/plan"
	"db-reshape/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

func baseline(tables ...schema.TableDoc) *schema.Model {
	return schema.NewModel(&schema.Document{Tables: tables})
}

func TestBuild_RenameThenAdd(t *testing.T) {
	m := baseline(schema.TableDoc{Name: "users", Columns: []schema.ColumnDef{
		{Name: "id", Type: schema.TypeInt},
		{Name: "name", Type: schema.TypeString},
	}})
	users := m.Table("users")
	require.NoError(t, m.RenameTable(users, "people"))
	_, err := m.AddColumn(users, schema.ColumnDef{Name: "email", Type: schema.TypeString})
	require.NoError(t, err)

	p := plan.Build(m)
	require.Equal(t, []plan.Op{
		&plan.RenameTable{From: "users", To: "people"},
		&plan.AddColumn{Table: "people", Column: schema.ColumnDef{Name: "email", Type: schema.TypeString}},
	}, p.Ops)
}

func TestBuild_CascadeDelete(t *testing.T) {
	m := baseline(
		schema.TableDoc{Name: "users", Columns: []schema.ColumnDef{
			{Name: "name", Type: schema.TypeString},
			{Name: "teamId", Type: schema.TypeLink, Link: &schema.Link{Table: "teams"}},
		}},
		schema.TableDoc{Name: "teams", Columns: []schema.ColumnDef{
			{Name: "title", Type: schema.TypeString},
		}},
	)
	m.ToggleDeleteTable(m.Table("teams"))

	p := plan.Build(m)
	require.Equal(t, []plan.Op{
		&plan.DeleteColumn{Table: "users", Column: "teamId"},
		&plan.DeleteTable{Name: "teams"},
	}, p.Ops)
	require.Len(t, p.Phase(plan.PhaseShape), 1)
	require.Len(t, p.Phase(plan.PhaseApply), 1)
}

func TestBuild_NewTableWithColumns(t *testing.T) {
	m := baseline()
	orders, err := m.AddTable("orders")
	require.NoError(t, err)
	for _, name := range []string{"col1", "col2"} {
		_, err := m.AddColumn(orders, schema.ColumnDef{Name: name, Type: schema.TypeString})
		require.NoError(t, err)
	}

	p := plan.Build(m)
	require.Equal(t, 3, p.Len())
	require.Equal(t, "1. create table orders\n2. add column orders.col1 string\n3. add column orders.col2 string\n", p.String())
}

func TestBuild_AddedLinkUsesCurrentName(t *testing.T) {
	m := baseline(
		schema.TableDoc{Name: "users", Columns: []schema.ColumnDef{{Name: "name", Type: schema.TypeString}}},
		schema.TableDoc{Name: "teams", Columns: []schema.ColumnDef{{Name: "title", Type: schema.TypeString}}},
	)
	require.NoError(t, m.RenameTable(m.Table("teams"), "squads"))
	_, err := m.AddColumn(m.Table("users"), schema.ColumnDef{
		Name: "squad", Type: schema.TypeLink, Link: &schema.Link{Table: "teams"},
	})
	require.NoError(t, err)

	p := plan.Build(m)
	require.Len(t, p.Ops, 2)
	require.Equal(t, &plan.RenameTable{From: "teams", To: "squads"}, p.Ops[0])
	add, ok := p.Ops[1].(*plan.AddColumn)
	require.True(t, ok)
	require.Equal(t, "squads", add.Column.LinkTable())
	require.Equal(t, "add column users.squad link (-> squads)", add.String())
}

func TestBuild_AddedColumnToDeletedLinkTarget(t *testing.T) {
	m := baseline(
		schema.TableDoc{Name: "users", Columns: []schema.ColumnDef{{Name: "name", Type: schema.TypeString}}},
		schema.TableDoc{Name: "teams", Columns: []schema.ColumnDef{{Name: "title", Type: schema.TypeString}}},
	)
	_, err := m.AddColumn(m.Table("users"), schema.ColumnDef{
		Name: "team", Type: schema.TypeLink, Link: &schema.Link{Table: "teams"},
	})
	require.NoError(t, err)
	m.ToggleDeleteTable(m.Table("teams"))

	p := plan.Build(m)
	require.Equal(t, []plan.Op{&plan.DeleteTable{Name: "teams"}}, p.Ops)
}

func TestBuild_RenamedThenDeletedTable(t *testing.T) {
	m := baseline(schema.TableDoc{Name: "logs", Columns: []schema.ColumnDef{
		{Name: "line", Type: schema.TypeText},
	}})
	logs := m.Table("logs")
	require.NoError(t, m.RenameTable(logs, "journal"))
	m.ToggleDeleteTable(logs)

	p := plan.Build(m)
	require.Equal(t, []plan.Op{
		&plan.RenameTable{From: "logs", To: "journal"},
		&plan.DeleteTable{Name: "journal"},
	}, p.Ops)
}

func TestBuild_ColumnRenameAndReplace(t *testing.T) {
	m := baseline(schema.TableDoc{Name: "users", Columns: []schema.ColumnDef{
		{Name: "mail", Type: schema.TypeString},
		{Name: "age", Type: schema.TypeString},
	}})
	users := m.Table("users")
	require.NoError(t, m.RenameColumn(users, users.Column("mail"), "email"))
	require.NoError(t, m.ToggleDeleteColumn(users, users.Column("age")))
	_, err := m.AddColumn(users, schema.ColumnDef{Name: "age", Type: schema.TypeInt, NotNull: true, DefaultValue: "0"})
	require.NoError(t, err)

	p := plan.Build(m)
	require.Equal(t, []plan.Op{
		&plan.RenameColumn{Table: "users", From: "mail", To: "email"},
		&plan.DeleteColumn{Table: "users", Column: "age"},
		&plan.AddColumn{Table: "users", Column: schema.ColumnDef{Name: "age", Type: schema.TypeInt, NotNull: true, DefaultValue: "0"}},
	}, p.Ops)
	require.Equal(t, `add column users.age int (not null, default "0")`, p.Ops[2].String())
	require.True(t, plan.Destructive(p.Ops[1]))
	require.False(t, plan.Destructive(p.Ops[2]))
}

func TestBuild_RenamedThenDeletedColumn(t *testing.T) {
	m := baseline(
		schema.TableDoc{Name: "users", Columns: []schema.ColumnDef{
			{Name: "nick", Type: schema.TypeString},
			{Name: "teamId", Type: schema.TypeLink, Link: &schema.Link{Table: "teams"}},
		}},
		schema.TableDoc{Name: "teams", Columns: []schema.ColumnDef{
			{Name: "title", Type: schema.TypeString},
		}},
	)
	users := m.Table("users")
	require.NoError(t, m.RenameTable(users, "people"))
	require.NoError(t, m.RenameColumn(users, users.Column("nick"), "alias"))
	require.NoError(t, m.ToggleDeleteColumn(users, users.Column("alias")))
	require.NoError(t, m.RenameColumn(users, users.Column("teamId"), "squadId"))
	m.ToggleDeleteTable(m.Table("teams"))

	p := plan.Build(m)
	require.Equal(t, []plan.Op{
		&plan.RenameTable{From: "users", To: "people"},
		&plan.DeleteColumn{Table: "people", Column: "nick"},
		&plan.DeleteColumn{Table: "people", Column: "teamId"},
		&plan.DeleteTable{Name: "teams"},
	}, p.Ops)
}

func TestBuild_NoEdits(t *testing.T) {
	m := baseline(schema.TableDoc{Name: "users", Columns: []schema.ColumnDef{{Name: "name", Type: schema.TypeString}}})
	// Renaming back and forth leaves nothing to do.
	users := m.Table("users")
	require.NoError(t, m.RenameTable(users, "people"))
	require.NoError(t, m.RenameTable(users, "users"))
	require.Zero(t, plan.Build(m).Len())
}

// TestBuild_RandomEdits checks ordering properties over random sessions.
func TestBuild_RandomEdits(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		f := gofakeit.New(seed)
		m := randomBaseline(f)
		randomEdits(t, f, m)

		p := plan.Build(m)
		created := make(map[string]bool)
		deleted := make(map[string]bool)
		last := plan.PhaseShape
		for _, op := range p.Ops {
			require.True(t, op.Phase() >= last, "seed %d: phases out of order", seed)
			last = op.Phase()
			switch op := op.(type) {
			case *plan.CreateTable:
				created[op.Name] = true
			case *plan.DeleteTable:
				deleted[op.Name] = true
			case *plan.AddColumn:
				require.False(t, deleted[op.Table], "seed %d: column added to deleted table", seed)
				if tbl := m.Table(op.Table); tbl.Added {
					require.True(t, created[op.Table], "seed %d: column added before table creation", seed)
				}
			}
		}

		s := m.Summary()
		require.Equal(t, s.Tables.Added, len(created), "seed %d", seed)
		require.Equal(t, s.Tables.Deleted, len(deleted), "seed %d", seed)
	}
}

func randomBaseline(f *gofakeit.Faker) *schema.Model {
	doc := &schema.Document{}
	seen := make(map[string]bool)
	for i := f.Number(1, 5); i > 0; i-- {
		name := f.LetterN(8)
		if seen[name] {
			continue
		}
		seen[name] = true
		td := schema.TableDoc{Name: name}
		for j := f.Number(1, 4); j > 0; j-- {
			td.Columns = append(td.Columns, schema.ColumnDef{Name: f.LetterN(6), Type: schema.TypeString})
		}
		doc.Tables = append(doc.Tables, td)
	}
	return schema.NewModel(doc)
}

func randomEdits(t *testing.T, f *gofakeit.Faker, m *schema.Model) {
	t.Helper()
	for i := f.Number(1, 12); i > 0; i-- {
		tbl := m.Tables[f.Number(0, len(m.Tables)-1)]
		switch f.Number(0, 4) {
		case 0:
			nt, err := m.AddTable(f.LetterN(9))
			if err == nil {
				_, _ = m.AddColumn(nt, schema.ColumnDef{Name: f.LetterN(5), Type: schema.TypeInt})
			}
		case 1:
			_ = m.RenameTable(tbl, f.LetterN(7))
		case 2:
			if len(m.Tables) > 1 {
				m.ToggleDeleteTable(tbl)
			}
		case 3:
			_, _ = m.AddColumn(tbl, schema.ColumnDef{Name: f.LetterN(5), Type: schema.TypeBool})
		case 4:
			if len(tbl.Columns) > 0 {
				c := tbl.Columns[f.Number(0, len(tbl.Columns)-1)]
				if f.Bool() {
					_ = m.ToggleDeleteColumn(tbl, c)
				} else {
					_ = m.RenameColumn(tbl, c, f.LetterN(6))
				}
			}
		}
	}
}
