// Package engine drains the operation queue against the backend.
//
// # Drain pass
//
// A pass runs at most once at a time; triggers arriving while one is in
// flight are dropped. Each pass:
//
//  1. sends every queued transaction create in one BulkCreate call, unless
//     one of them still references a record that has no durable id;
//  2. walks the remaining items in creation order, sending creates, updates
//     and deletes one by one;
//  3. persists the pass time, publishes the new SyncState and tells refetch
//     subscribers which kinds changed.
//
// Relational fields are always read from the current local row at send
// time. When a create succeeds, the provisional id is replaced by the
// durable one in the local store and inside queued payloads.
//
// # Failures
//
// A remote failure increments the item's attempts; an item is dropped once
// attempts reaches MaxRetries. A reference that is not ready yet is a
// deferral, counted separately and unbounded by default. ErrUnavailable
// stops the pass early so an outage does not burn every item's budget.
//
// # Scheduling
//
// Start runs a loop that passes on connectivity events, Kick calls and a
// backoff timer computed from the queue (see scheduler.NextWake).
package engine
