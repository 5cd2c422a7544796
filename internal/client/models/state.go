package models

import "time"

type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// SyncState is what the engine publishes to subscribers on every change.
type SyncState struct {
	Status       SyncStatus
	LastSyncAt   *time.Time
	PendingCount int
	Error        string
}
