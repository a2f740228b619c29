package compiler

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/syssam/stmtc/dialect"
	"github.com/syssam/stmtc/dialect/sql/sqlerr"
)

// Exec runs a compiled statement on drv with the given bind arguments.
//
// Statements compiled with SuppressConstraintErrors treat a constraint
// violation as a no-op: Exec returns a nil result and a nil error. Every
// other failure is returned unchanged.
func Exec(ctx context.Context, drv dialect.ExecQuerier, r *Result, args ...any) (sql.Result, error) {
	if args == nil {
		args = []any{}
	}
	var res sql.Result
	if err := drv.Exec(ctx, r.SQL, args, &res); err != nil {
		if r.SuppressConstraintErrors && sqlerr.IsConstraintError(err) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// ExecTx runs the compiled statements in order inside one transaction and
// commits it. The first failing statement rolls the transaction back. A
// suppressed constraint violation is not a failure; on Oracle only the
// violating statement is undone.
func ExecTx(ctx context.Context, drv dialect.Driver, rs ...*Result) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("compiler: begin transaction: %w", err)
	}
	for i, r := range rs {
		if _, err := Exec(ctx, tx, r); err != nil {
			return rollback(tx, fmt.Errorf("compiler: statement %d: %w", i+1, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("compiler: commit: %w", err)
	}
	return nil
}

func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
	}
	return err
}
