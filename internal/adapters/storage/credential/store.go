package credential

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no credential is stored for a session.
var ErrNotFound = errors.New("credential not found")

// Store persists one bearer token per browser session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
	PurgeIdle(ctx context.Context, before time.Time) (int64, error)
}
