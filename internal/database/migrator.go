package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/bookstore/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// The binary carries its migrations, so no files are needed at runtime.
//
//go:embed migrations/*.sql
var migrations embed.FS

// schemaVersionTable is where tern records the applied version.
const schemaVersionTable = "schema_version"

// Migrations returns the embedded migration files rooted at the
// migrations directory.
func Migrations() (fs.FS, error) {
	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}
	return subtree, nil
}

// Migrate runs the embedded migrations with jackc/tern.
//
// A target version of -1 migrates to the latest version; any other value
// migrates up or down to exactly that version.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, target int32) error {
	conn, err := pgx.Connect(ctx, DSN(cfg))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, schemaVersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := Migrations()
	if err != nil {
		return err
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	to := target
	if to < 0 {
		to = int32(len(m.Migrations))
	}

	if err := m.MigrateTo(ctx, to); err != nil {
		return err
	}

	if from == to {
		logger.Info().Msgf("database schema up to date, version %d", to)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	}
	return nil
}
