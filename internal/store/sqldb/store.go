// Package sqldb implements store.Store on database/sql for SQLite (modernc)
// and Postgres (pgx stdlib). Queries are written once with ? placeholders and
// rebound per dialect.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/takuyahirata23/quick-note/internal/store"
)

// Dialect names a supported database engine.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Options selects and tunes the backing database.
type Options struct {
	Driver Dialect
	// DSN is a file path for SQLite or a connection URL for Postgres.
	DSN string
	// SkipMigrations leaves the schema untouched on Open.
	SkipMigrations bool
}

// Store provides SQL-backed persistence for Quick Note.
type Store struct {
	db      *sql.DB
	dialect Dialect
	dsn     string
	logger  *slog.Logger
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects to the configured database and migrates it to the latest
// schema version.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db  *sql.DB
		dsn string
		err error
	)
	switch opts.Driver {
	case DialectSQLite, "":
		opts.Driver = DialectSQLite
		dsn = sqliteDSN(opts.DSN)
		db, err = sql.Open(driverName(opts.Driver), dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// Writers serialize on the file lock; a few readers are enough for
		// the concurrent folder+notes read.
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	case DialectPostgres:
		dsn = opts.DSN
		db, err = sql.Open(driverName(opts.Driver), dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(4)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}

	s := &Store{
		db:      db,
		dialect: opts.Driver,
		dsn:     dsn,
		logger:  logger,
		now:     time.Now,
	}

	if !opts.SkipMigrations {
		if err := s.MigrateUp(); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

func driverName(d Dialect) string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// sqliteDSN turns a file path into a modernc DSN with per-connection pragmas.
// Pragmas passed this way apply to every pooled connection, which matters for
// foreign_keys since cascades rely on it.
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + q.Encode()
}

// Dialect reports which engine backs the store.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// execOne runs a mutation and reports whether exactly one row changed.
func (s *Store) execOne(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	return rebindDollar(query)
}

// rebindDollar rewrites ? placeholders to $1..$n, leaving quoted text alone.
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// timeLayout is fixed width so that text comparison orders chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
