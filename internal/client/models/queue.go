package models

import "time"

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// QueueItem is one pending mutation awaiting delivery to the backend.
//
// Data holds the full record JSON for creates, the patch JSON for updates
// and nothing for deletes. Attempts counts remote failures; Deferrals counts
// passes skipped because a referenced record had no durable id yet.
type QueueItem struct {
	ID            int64
	Operation     Operation
	Entity        EntityKind
	RecordID      ID
	Data          []byte
	CreatedAt     time.Time
	Attempts      int
	Deferrals     int
	LastAttemptAt *time.Time
	Error         string
}
