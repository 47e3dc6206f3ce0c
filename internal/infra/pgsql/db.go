// Package pgsql holds the SQL the service runs against Postgres, one method per
// statement. Callers pass the DBTX to run on, so the same Queries value serves
// both the pool and open transactions.
package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type Queries struct{}

func New() *Queries {
	return &Queries{}
}
