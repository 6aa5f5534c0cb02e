package sqldb

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(context.Background(), Options{
		Driver: DialectSQLite,
		DSN:    filepath.Join(dir, "test.db"),
	}, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// tickingClock returns a clock that advances one second per call, so rows
// written in sequence get distinct timestamps.
func tickingClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	for _, table := range []string{"users", "folders", "notes"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle", DSN: "x"}, nil)
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrationStatus(t *testing.T) {
	s := newTestStore(t)

	status, err := s.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus: %v", err)
	}
	if status.Dirty {
		t.Error("expected clean schema")
	}
	if status.Version == 0 || status.Version != status.Latest {
		t.Errorf("version %d, latest %d: expected fully migrated", status.Version, status.Latest)
	}

	// Running again is a no-op.
	if err := s.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("store pool closed by migration: %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	s := newTestStore(t)

	if err := s.MigrateDown(1); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='notes'").Scan(&n); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if n != 0 {
		t.Error("expected notes table to be dropped")
	}

	if err := s.MigrateDown(0); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestRebindDollar(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"WHERE a = ? AND b = ?", "WHERE a = $1 AND b = $2"},
		{"WHERE a = '?' AND b = ?", "WHERE a = '?' AND b = $1"},
		{"VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
	}
	for _, tt := range tests {
		if got := rebindDollar(tt.in); got != tt.want {
			t.Errorf("rebindDollar(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRebind_SQLiteUnchanged(t *testing.T) {
	s := &Store{dialect: DialectSQLite}
	q := "WHERE a = ?"
	if got := s.rebind(q); got != q {
		t.Errorf("rebind changed sqlite query: %q", got)
	}
}

func TestTimeFormatOrdersLexically(t *testing.T) {
	early := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	late := early.Add(1500 * time.Millisecond)

	a, b := formatTime(early), formatTime(late)
	if len(a) != len(b) {
		t.Fatalf("layout not fixed width: %q vs %q", a, b)
	}
	if a >= b {
		t.Errorf("expected %q < %q", a, b)
	}

	parsed, err := parseTime(b)
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if !parsed.Equal(late) {
		t.Errorf("round trip: got %v, want %v", parsed, late)
	}
}

func TestSQLiteDSN(t *testing.T) {
	dsn := sqliteDSN("/tmp/x.db")
	if dsn[:len("file:/tmp/x.db?")] != "file:/tmp/x.db?" {
		t.Errorf("unexpected dsn prefix: %s", dsn)
	}
	if got := sqliteDSN("file:custom.db?mode=memory"); got != "file:custom.db?mode=memory" {
		t.Errorf("explicit file: DSN rewritten: %s", got)
	}
}
