package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// migrationsTable keeps the schema version apart from any other tool sharing the database.
const migrationsTable = "softdesk_schema_migrations"

// RunMigrations applies every pending up migration under migrationsPath.
// A dirty version left by a crashed run is forced clean before retrying.
func RunMigrations(databaseURL string, migrationsPath string, log *logrus.Logger) error {
	sourceURL, err := migrationSource(migrationsPath)
	if err != nil {
		return err
	}
	entry := log.WithField("source", sourceURL)

	dbConn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer dbConn.Close()

	driver, err := postgres.WithInstance(dbConn, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		entry.WithField("version", from).Warn("[DB] Schema is dirty, forcing version before retry")
		if err := m.Force(int(from)); err != nil {
			return fmt.Errorf("failed to force migration: %w", err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			entry.WithField("version", from).Info("[DB] Schema is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	to, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migrated version: %w", err)
	}
	entry.WithFields(logrus.Fields{"from": from, "to": to}).Info("[DB] Schema migrated")
	return nil
}

// migrationSource resolves MIGRATIONS_PATH to a file:// URL and fails early
// when the directory holds no up migrations, which migrate would otherwise
// report as a bare "no change".
func migrationSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve migrations path %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("migrations path %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("migrations path %q is not a directory", abs)
	}

	ups, err := filepath.Glob(filepath.Join(abs, "*.up.sql"))
	if err != nil {
		return "", fmt.Errorf("scan migrations in %q: %w", abs, err)
	}
	if len(ups) == 0 {
		return "", fmt.Errorf("no up migrations in %q", abs)
	}

	return "file://" + filepath.ToSlash(abs), nil
}
