package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir holds the Postgres migrations, relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

// Dialect matches the SQL files, which rely on jsonb and timestamptz.
const Dialect = "postgres"

// Runner applies the goose migrations in dir to db.
type Runner struct {
	db  *sql.DB
	dir string
}

func NewRunner(db *sql.DB, dir string) (*Runner, error) {
	if db == nil {
		return nil, errors.New("migrate: db is required")
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := goose.SetDialect(Dialect); err != nil {
		return nil, fmt.Errorf("migrate: dialect: %w", err)
	}
	return &Runner{db: db, dir: dir}, nil
}

func (r *Runner) Up(ctx context.Context) error     { return r.goose(ctx, "up") }
func (r *Runner) Down(ctx context.Context) error   { return r.goose(ctx, "down") }
func (r *Runner) Status(ctx context.Context) error { return r.goose(ctx, "status") }

// To moves the schema up or down to the YYYYMMDDHHMMSS version given.
func (r *Runner) To(ctx context.Context, version string) error {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil || len(version) != 14 {
		return fmt.Errorf("migrate: version %q must be YYYYMMDDHHMMSS", version)
	}
	current, err := goose.GetDBVersionContext(ctx, r.db)
	if err != nil {
		return fmt.Errorf("migrate: current version: %w", err)
	}
	switch {
	case target > current:
		err = goose.UpToContext(ctx, r.db, r.dir, target)
	case target < current:
		err = goose.DownToContext(ctx, r.db, r.dir, target)
	}
	if err != nil {
		return fmt.Errorf("migrate: %d -> %d: %w", current, target, err)
	}
	return nil
}

func (r *Runner) goose(ctx context.Context, command string) error {
	if err := goose.RunContext(ctx, command, r.db, r.dir); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
