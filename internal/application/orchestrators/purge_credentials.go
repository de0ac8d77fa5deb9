package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// IdleCredentialStore removes credentials that have not been touched recently.
type IdleCredentialStore interface {
	PurgeIdle(ctx context.Context, before time.Time) (int64, error)
}

// PurgeCredentialsDeps holds dependencies for the credential purge.
type PurgeCredentialsDeps struct {
	Store IdleCredentialStore
	TTL   time.Duration
	Now   func() time.Time
}

// ExecutePurgeIdleCredentials deletes tokens idle for longer than TTL.
// PRE: TTL > 0
// POST: Returns the number of credentials removed
func ExecutePurgeIdleCredentials(ctx context.Context, deps PurgeCredentialsDeps) (int64, error) {
	cutoff := deps.Now().Add(-deps.TTL)
	n, err := deps.Store.PurgeIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge idle credentials: %w", err)
	}
	if n > 0 {
		slog.Info("credential_purge", "removed", n, "cutoff", cutoff)
	}
	return n, nil
}

// StartCredentialPurgeScheduler runs the purge every interval until ctx ends or the returned cancel is called.
// PRE: interval > 0
// POST: Goroutine started, returns cancel function
func StartCredentialPurgeScheduler(ctx context.Context, deps PurgeCredentialsDeps, interval time.Duration) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := ExecutePurgeIdleCredentials(ctx, deps); err != nil {
					slog.Error("credential_purge_error", "error", err)
				}
			}
		}
	}()

	return cancel
}
