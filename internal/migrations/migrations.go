// Package migrations applies the embedded schema migrations with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// Migrator wraps a golang-migrate instance over the embedded SQL files.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// New opens a migrator against databaseURL. postgres:// and postgresql://
// URLs are accepted and routed to the pgx/v5 driver.
func New(databaseURL string, logger *slog.Logger) (*Migrator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, DriverURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Up applies all pending migrations. A dirty database is forced back to its
// recorded version before retrying.
func (mg *Migrator) Up() error {
	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}

	if dirty {
		mg.logger.Warn("database is dirty, forcing version", "version", version)
		if err := mg.m.Force(int(version)); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
	}

	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("database schema is up to date", "version", version)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, _ = mg.Version()
	mg.logger.Info("migrations applied", "version", version)
	return nil
}

// Down rolls back every migration.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	return nil
}

// Version returns the current schema version and dirty flag.
// migrate.ErrNilVersion is returned when no migration has been applied.
func (mg *Migrator) Version() (uint, bool, error) {
	return mg.m.Version()
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// DriverURL rewrites a libpq-style URL to the pgx5 scheme golang-migrate
// registers for the pgx/v5 driver. Other URLs are returned unchanged.
func DriverURL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(databaseURL, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// Run is a convenience for applying migrations once at startup.
func Run(databaseURL string, logger *slog.Logger) error {
	mg, err := New(databaseURL, logger)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}
