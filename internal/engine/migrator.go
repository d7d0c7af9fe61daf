package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"db-reshape/internal/plan"
)

// Result statuses.
const (
	StatusOK      = "OK"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)

// Result reports the outcome of one planned operation.
type Result struct {
	Op       plan.Op
	Status   string
	Elapsed  time.Duration
	ErrorMsg string
}

// OperationError is returned when the store rejects an operation. The
// operations before Index were applied and are not rolled back.
type OperationError struct {
	Index int
	Op    plan.Op
	Err   error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %d (%s) failed: %v", e.Index+1, e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// Migrator applies plans to a store.
type Migrator struct {
	store Store
}

func NewMigrator(s Store) *Migrator {
	return &Migrator{store: s}
}

// Apply runs the operations of p one at a time, in order. It stops at the
// first failure or when ctx is done; the remaining operations are reported as
// skipped. onProgress, if set, is called after every attempted operation.
func (m *Migrator) Apply(ctx context.Context, p *plan.Plan, onProgress func(Result)) ([]Result, error) {
	results := make([]Result, 0, p.Len())
	var failure error

	for i, op := range p.Ops {
		if failure == nil {
			if err := ctx.Err(); err != nil {
				failure = &OperationError{Index: i, Op: op, Err: err}
			}
		}
		if failure != nil {
			results = append(results, Result{Op: op, Status: StatusSkipped})
			continue
		}

		start := time.Now()
		err := m.apply(ctx, op)
		res := Result{Op: op, Status: StatusOK, Elapsed: time.Since(start)}
		if err != nil {
			log.Printf("[Migrate] %s: %v", op, err)
			res.Status = StatusFailed
			res.ErrorMsg = err.Error()
			failure = &OperationError{Index: i, Op: op, Err: err}
		}
		results = append(results, res)
		if onProgress != nil {
			onProgress(res)
		}
	}
	return results, failure
}

func (m *Migrator) apply(ctx context.Context, op plan.Op) error {
	switch op := op.(type) {
	case *plan.CreateTable:
		return m.store.CreateTable(ctx, op.Name)
	case *plan.RenameTable:
		return m.store.RenameTable(ctx, op.From, op.To)
	case *plan.DeleteTable:
		return m.store.DeleteTable(ctx, op.Name)
	case *plan.AddColumn:
		return m.store.AddColumn(ctx, op.Table, op.Column)
	case *plan.RenameColumn:
		return m.store.RenameColumn(ctx, op.Table, op.From, op.To)
	case *plan.DeleteColumn:
		return m.store.DeleteColumn(ctx, op.Table, op.Column)
	default:
		return fmt.Errorf("unsupported operation %T", op)
	}
}

// Applied counts the operations of results that went through.
func Applied(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusOK {
			n++
		}
	}
	return n
}
