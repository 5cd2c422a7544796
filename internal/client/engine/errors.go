package engine

import "errors"

var (
	// ErrDependencyNotReady marks an item whose referenced record still
	// waits for its own create to be delivered.
	ErrDependencyNotReady = errors.New("referenced record has no durable id yet")

	// ErrOrphanedReference marks an item referencing a provisional record
	// whose create is no longer queued, so it will never get a durable id.
	ErrOrphanedReference = errors.New("referenced record will never be synced")

	// ErrPendingChanges is returned by PullFromRemote while local changes
	// are still queued.
	ErrPendingChanges = errors.New("local changes are pending")

	ErrSyncInProgress = errors.New("sync already in progress")
)
