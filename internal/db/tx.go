package db

import (
	"context"
	"database/sql"
)

// MakeTx is a function that creates a db transaction, discard is a no-op once
// commit has succeeded.
type MakeTx = func(ctx context.Context) (tx *Queries, discard, commit func() error, err error)

func NewMakeTx(dbtx *sql.DB) MakeTx {
	return func(ctx context.Context) (tx *Queries, discard, commit func() error, err error) {
		sqltx, err := dbtx.BeginTx(ctx, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		committed := false
		return New(sqltx),
			func() error {
				if committed {
					return nil
				}
				return sqltx.Rollback()
			},
			func() error {
				err := sqltx.Commit()
				if err == nil {
					committed = true
				}
				return err
			},
			nil
	}
}
