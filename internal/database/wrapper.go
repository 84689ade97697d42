// Package database provides the query layer over Postgres.
package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

type Database struct {
	*Queries

	Pool *pgxpool.Pool
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		Queries: New(pool),
		Pool:    pool,
	}
}

// EnsureSchema applies the embedded schema when it is not yet present.
func (db *Database) EnsureSchema(ctx context.Context) error {
	exists, err := db.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("checking for existing schema: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}
	return nil
}
