package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kitbox/internal/adapters/storage"
)

// touchInterval bounds how often a read refreshes a credential's last-use time.
const touchInterval = 5 * time.Minute

// SQLiteStore implements Store using SQLite, sealing tokens before they touch disk.
type SQLiteStore struct {
	db     storage.SQLDB
	sealer *Sealer
	now    func() time.Time
}

// NewSQLiteStore creates a credential store.
func NewSQLiteStore(db storage.SQLDB, sealer *Sealer) *SQLiteStore {
	return &SQLiteStore{db: db, sealer: sealer, now: time.Now}
}

// Get returns the token stored for sessionID and marks the credential as in use.
// PRE: sessionID is non-empty
// POST: Returns the plaintext token, ErrNotFound, or ErrTampered
// POST: On success updated_at is at most touchInterval behind now
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (string, error) {
	var (
		sealed    []byte
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `SELECT token, updated_at FROM credential WHERE session_id = ?`, sessionID).
		Scan(&sealed, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get credential: %w", err)
	}
	token, err := s.sealer.Open(sessionID, sealed)
	if err != nil {
		return "", err
	}
	s.touch(ctx, sessionID, updatedAt)
	return token, nil
}

// touch refreshes updated_at once it is older than touchInterval.
// A failed refresh only shortens the credential's life, so it is logged and ignored.
func (s *SQLiteStore) touch(ctx context.Context, sessionID, updatedAt string) {
	now := s.now().UTC()
	if last, err := time.Parse(time.RFC3339, updatedAt); err == nil && now.Sub(last) < touchInterval {
		return
	}
	_, err := s.db.ExecContext(ctx, `UPDATE credential SET updated_at = ? WHERE session_id = ?`,
		now.Format(time.RFC3339), sessionID)
	if err != nil {
		slog.WarnContext(ctx, "credential_touch_failed", "error", err)
	}
}

// Save upserts the token for sessionID.
// PRE: sessionID and token are non-empty
// POST: Exactly one sealed row exists for sessionID
func (s *SQLiteStore) Save(ctx context.Context, sessionID, token string) error {
	sealed, err := s.sealer.Seal(sessionID, token)
	if err != nil {
		return err
	}
	now := s.now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credential (session_id, token, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`, sessionID, sealed, now, now)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Delete removes the token for sessionID. Deleting a missing row is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credential WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// PurgeIdle removes credentials neither saved nor read since before.
// POST: Returns the number of rows removed
func (s *SQLiteStore) PurgeIdle(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM credential WHERE updated_at < ?`, before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purge credentials: %w", err)
	}
	return res.RowsAffected()
}
