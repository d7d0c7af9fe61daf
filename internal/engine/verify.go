package engine

import (
	"context"
	"fmt"

	"db-reshape/internal/schema"
)

// Mismatch is a difference between the expected and the actual remote
// schema after a migration.
type Mismatch struct {
	Table  string
	Column string // empty for table-level mismatches
	Reason string
}

func (m Mismatch) String() string {
	if m.Column == "" {
		return fmt.Sprintf("table %s: %s", m.Table, m.Reason)
	}
	return fmt.Sprintf("column %s.%s: %s", m.Table, m.Column, m.Reason)
}

// Verify reads the remote schema again and checks that it has the tables and
// columns of want, and no others. Types are not compared since stores may
// map several column types to the same native type.
func Verify(ctx context.Context, s Store, want *schema.Document) ([]Mismatch, error) {
	got, err := s.Schema(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema for verification: %w", err)
	}

	var out []Mismatch
	for _, wt := range want.Tables {
		gt := got.Table(wt.Name)
		if gt == nil {
			out = append(out, Mismatch{Table: wt.Name, Reason: "missing"})
			continue
		}
		gotCols := make(map[string]bool, len(gt.Columns))
		for _, c := range gt.Columns {
			gotCols[c.Name] = true
		}
		wantCols := make(map[string]bool, len(wt.Columns))
		for _, c := range wt.Columns {
			wantCols[c.Name] = true
			if !gotCols[c.Name] {
				out = append(out, Mismatch{Table: wt.Name, Column: c.Name, Reason: "missing"})
			}
		}
		for _, c := range gt.Columns {
			if !wantCols[c.Name] {
				out = append(out, Mismatch{Table: wt.Name, Column: c.Name, Reason: "unexpected"})
			}
		}
	}
	for _, gt := range got.Tables {
		if want.Table(gt.Name) == nil {
			out = append(out, Mismatch{Table: gt.Name, Reason: "unexpected"})
		}
	}
	return out, nil
}
