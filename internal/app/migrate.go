package app

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/adanyl0v/task-tracker/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrationsSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return src, nil
}

// MustMigratePostgres applies every pending embedded migration
// unless POSTGRES_MIGRATE is disabled.
func MustMigratePostgres() {
	cfg := config.Global().Postgres
	if !cfg.Migrate {
		globalLogger.Info().Msg("postgres migrations disabled")
		return
	}

	src, err := newMigrationsSource()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create migrations source")
		panic(err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL("pgx5"))
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create migrate instance")
		panic(err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			globalLogger.Error().
				AnErr("source_error", srcErr).
				AnErr("database_error", dbErr).
				Msg("failed to close migrate instance")
		}
	}()

	err = m.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			globalLogger.Info().Msg("postgres schema is up to date")
			return
		}

		globalLogger.Error().
			Err(err).
			Msg("failed to apply postgres migrations")
		panic(err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to get migration version")
		panic(err)
	}
	globalLogger.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("applied postgres migrations")
}
