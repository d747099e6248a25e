package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database/migrations"
)

// Migrate runs a goose command (up, down, status, reset, version, ...)
// against the Postgres pool using the embedded migrations.
func Migrate(ctx context.Context, pg *PostgresDB, command string, args ...string) error {
	db := stdlib.OpenDBFromPool(pg.Pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("failed to run migration %q: %w", command, err)
	}
	return nil
}
