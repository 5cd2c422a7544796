package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/engine"
	"github.com/dmitrijs2005/fintrack/internal/client/models"
)

// Sync runs one drain pass in the foreground and reports the outcome.
func (a *App) Sync(ctx context.Context) error {
	st, err := a.syncer.SyncAll(ctx)
	if err != nil {
		return a.fail(ctx, "sync", err)
	}

	switch st.Status {
	case models.SyncError:
		a.printf("Sync finished with errors: %s (%d pending)\n", st.Error, st.PendingCount)
	default:
		a.printf("Sync %s, %d pending\n", st.Status, st.PendingCount)
	}
	if st.LastSyncAt != nil {
		a.println("Last sync:", st.LastSyncAt.Local().Format(time.DateTime))
	}
	return nil
}

// Pull replaces the local ledger with the backend's rows. It refuses while
// local changes are still queued.
func (a *App) Pull(ctx context.Context) error {
	err := a.ledger.Pull(ctx)
	switch {
	case errors.Is(err, engine.ErrPendingChanges):
		a.println("Local changes are pending; run 'sync' first")
		return nil
	case errors.Is(err, client.ErrUnavailable):
		a.println("Server unavailable, try again later")
		return nil
	case err != nil:
		return a.fail(ctx, "pull", err)
	}
	a.println("Local ledger refreshed from server")
	return nil
}
