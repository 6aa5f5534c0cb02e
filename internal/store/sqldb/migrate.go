package sqldb

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// MigrationStatus describes the schema version of the database.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Latest  uint
}

// MigrateUp applies all pending migrations. Already being current is not an error.
func (s *Store) MigrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, err := m.Version()
	if err == nil {
		s.logger.Debug("database schema ready", "dialect", s.dialect, "version", version)
	}
	return nil
}

// MigrateDown rolls back steps migrations.
func (s *Store) MigrateDown(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	defer m.Close()

	// Asking for more steps than exist rolls back to an empty schema.
	var short migrate.ErrShortLimit
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) && !errors.As(err, &short) {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// MigrationStatus reports the current and latest schema versions.
func (s *Store) MigrationStatus() (*MigrationStatus, error) {
	m, err := s.newMigrate()
	if err != nil {
		return nil, err
	}
	defer m.Close()

	status := &MigrationStatus{}
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return nil, fmt.Errorf("read schema version: %w", err)
	default:
		status.Version, status.Dirty = version, dirty
	}

	src, err := iofs.New(migrationFiles, s.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("read migration files: %w", err)
	}
	defer src.Close()

	latest, err := src.First()
	if err != nil {
		return nil, fmt.Errorf("read first migration: %w", err)
	}
	for {
		next, err := src.Next(latest)
		if err != nil {
			break
		}
		latest = next
	}
	status.Latest = latest

	return status, nil
}

func (s *Store) migrationsDir() string {
	return "migrations/" + string(s.dialect)
}

// newMigrate runs migrations over a dedicated handle so that closing the
// migrate instance never touches the store's pool. The caller must Close it.
func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, s.migrationsDir())
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	db, err := sql.Open(driverName(s.dialect), s.dsn)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("open migration connection: %w", err)
	}

	var driver database.Driver
	switch s.dialect {
	case DialectPostgres:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	default:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	}
	if err != nil {
		src.Close()
		db.Close()
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(s.dialect), driver)
	if err != nil {
		src.Close()
		driver.Close()
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}
