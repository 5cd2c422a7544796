// Package backup exports the ledger to a JSON snapshot and imports it back.
//
// A snapshot holds every kind except settings. Import wipes the local store
// and re-creates the records under fresh provisional ids, rewriting the
// relational fields through the old to new id maps, so the sync engine
// uploads them as new records in dependency order.
//
// Snapshots may be sealed with a passphrase (see internal/cryptox) and are
// written to a Destination chosen by the location string: a file path,
// s3://bucket/key, or an http(s) URL such as a presigned object URL.
package backup
