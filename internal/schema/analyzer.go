package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"db-reshape/internal/dialect"
)

// Queryer is the part of *sql.DB the analyzer needs.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Analyze reads the current schema of a database through its catalog and
// returns it as a document. Primary key columns are managed by the store and
// are not part of the editable schema. Foreign keys become link columns, and
// character columns that hold email addresses become email columns. Literal
// defaults are kept in canonical form.
func Analyze(ctx context.Context, db Queryer, d dialect.Dialect, schemaName string) (*Document, error) {
	target := d.GetSchemaName(schemaName)

	// Normalized keys for case-insensitive lookups (Oracle upper-cases names).
	tableMap := make(map[string]*TableDoc)
	var names []string

	// --- Step 1: Fetch Tables ---
	rows, err := db.QueryContext(ctx, d.GetTablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tableMap[strings.ToUpper(name)] = &TableDoc{Name: name, Columns: []ColumnDef{}}
		names = append(names, strings.ToUpper(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	// --- Step 2: Fetch Columns ---
	colRows, err := db.QueryContext(ctx, d.GetColumnsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer colRows.Close()

	for colRows.Next() {
		var tName, cName, dType, cType, cLen, isNull, cKey, cDefault, isUnique, comment sql.NullString
		if err := colRows.Scan(&tName, &cName, &dType, &cType, &cLen, &isNull, &cKey, &cDefault, &isUnique, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		if strings.Contains(cKey.String, "PRI") || strings.Contains(cKey.String, "PRIMARY") {
			continue
		}

		typ, ok := ParseType(d.NormalizeType(dType.String))
		if !ok {
			log.Printf("Column %s.%s has unsupported type %q, treating it as %s", t.Name, cName.String, dType.String, TypeString)
			typ = TypeString
		}
		typ = refineType(typ, cName.String, comment.String, typeLength(cLen.String, cType.String))
		nullable := isNull.String == "YES" || isNull.String == "Y"
		def := ColumnDef{
			Name:    cName.String,
			Type:    typ,
			Unique:  strings.Contains(isUnique.String, "UNIQUE"),
			NotNull: !nullable,
		}
		// Defaults that are expressions or do not fit the type are left out.
		if v, set, err := CoerceDefault(typ, d.ParseDefault(cDefault.String)); err == nil && set {
			def.DefaultValue = v
		}
		t.Columns = append(t.Columns, def)
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	// --- Step 3: Fetch Foreign Keys ---
	fkRows, err := db.QueryContext(ctx, d.GetForeignKeysQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer fkRows.Close()

	for fkRows.Next() {
		var tName, cConst, cName, rTable, rCol sql.NullString
		if err := fkRows.Scan(&tName, &cConst, &cName, &rTable, &rCol); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !tName.Valid || !rTable.Valid {
			continue
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		// References outside the analyzed schema cannot be represented.
		ref, ok := tableMap[strings.ToUpper(rTable.String)]
		if !ok {
			continue
		}
		for i := range t.Columns {
			if strings.EqualFold(t.Columns[i].Name, cName.String) {
				t.Columns[i].Type = TypeLink
				t.Columns[i].Link = &Link{Table: ref.Name}
			}
		}
	}
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}

	doc := &Document{Tables: make([]TableDoc, 0, len(names))}
	for _, n := range names {
		doc.Tables = append(doc.Tables, *tableMap[n])
	}
	doc.Tables = SortTablesByLinks(doc.Tables)
	return doc, nil
}

// SortTablesByLinks orders tables so that linked tables come before the
// tables linking to them. Cycles are broken with a scoring heuristic.
func SortTablesByLinks(tables []TableDoc) []TableDoc {
	deps := make(map[string][]string, len(tables))
	for _, t := range tables {
		for _, c := range t.Columns {
			if lt := c.LinkTable(); lt != "" && lt != t.Name {
				deps[t.Name] = append(deps[t.Name], lt)
			}
		}
	}

	var sorted []TableDoc
	processed := make(map[string]bool)

	for len(sorted) < len(tables) {
		added := false

		// Pass 1: tables whose dependencies are all placed.
		for _, t := range tables {
			if processed[t.Name] {
				continue
			}
			ready := true
			for _, dep := range deps[t.Name] {
				if !processed[dep] {
					ready = false
					break
				}
			}
			if ready {
				sorted = append(sorted, t)
				processed[t.Name] = true
				added = true
			}
		}
		if added {
			continue
		}

		// Pass 2: a cycle. Prefer the table with the fewest unplaced
		// dependencies, boosted when it is part of a two-table cycle.
		best := -1
		bestScore := -999999
		for i, t := range tables {
			if processed[t.Name] {
				continue
			}
			score := 0
			circular := false
			for _, dep := range deps[t.Name] {
				if processed[dep] {
					continue
				}
				score -= 100
				for _, back := range deps[dep] {
					if back == t.Name {
						circular = true
					}
				}
			}
			if circular {
				score += 500
			}
			if score > bestScore || (score == bestScore && best >= 0 && t.Name > tables[best].Name) {
				bestScore = score
				best = i
			}
		}
		if best < 0 {
			break
		}
		log.Printf("[Sort] Breaking circular link: %s (Score: %d)", tables[best].Name, bestScore)
		sorted = append(sorted, tables[best])
		processed[tables[best].Name] = true
	}
	return sorted
}
