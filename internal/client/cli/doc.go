// Package cli provides the interactive fintrack command-line client.
//
// It wires configuration, the local ledger, the gRPC client, the sync engine
// and the connectivity watcher, and runs a REPL on top of them. Every
// command works against the local store; the engine pushes queued changes in
// the background whenever the backend is reachable.
//
// Key features:
//   - Add, list and delete accounts, income sources, categories, loans,
//     transactions and custom currencies
//   - Loan payments and settings
//   - Manual sync and pull
//   - Backup export and import to a file, an HTTP URL or S3
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
