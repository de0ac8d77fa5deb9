package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"kitbox/internal/adapters/storage/migrations"
)

// sqlitePragmas enables WAL, a busy timeout and foreign keys on every pooled connection.
const sqlitePragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// Open opens the credential database at path and verifies the connection.
// PRE: path is a writable file path; the modernc "sqlite" driver is registered
// POST: Returns a pinged *sql.DB with pool limits set for WAL mode
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
// PRE: db is open
// POST: Schema is at the latest embedded version
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SchemaVersion reports the currently applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	return goose.GetDBVersionContext(ctx, db)
}

// gooseLogger routes goose output through slog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Debug("migration", "message", fmt.Sprintf(format, v...))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error("migration_failed", "message", fmt.Sprintf(format, v...))
}
